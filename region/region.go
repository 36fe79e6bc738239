// Package region implements the persistent dump region: a fixed-size byte
// buffer placed in memory that is not cleared across a warm reset. On target
// the backing slice maps a .noinit section; on a host it is an ordinary
// buffer loaded from a memory image.
package region

// Sentinel is the fill byte used for cleared or out-of-range memory.
// 0xFF is used rather than zero so a cleared region stays distinguishable
// from zero-initialised BSS.
const Sentinel byte = 0xFF

// DefaultCapacity is the default size of the dump region in bytes.
const DefaultCapacity = 8 * 1024

// Region is a bounded window over retained memory. All accesses clamp to
// the region's capacity; nothing here can overrun or fault. Only the fault
// trampoline writes and only the boot-time decoder reads, so no locking is
// needed: the two sides are separated by a reset.
type Region struct {
	buf []byte
}

// New returns a Region over a freshly allocated buffer of the given
// capacity, pre-filled with the sentinel pattern. Capacities below 1 fall
// back to DefaultCapacity.
func New(capacity int) *Region {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	r := &Region{buf: make([]byte, capacity)}
	r.Clear()
	return r
}

// FromBuffer returns a Region over an existing buffer, for example the
// slice backing a .noinit section or an image read from a file. The buffer
// contents are preserved.
func FromBuffer(buf []byte) *Region {
	return &Region{buf: buf}
}

// Capacity returns the region size in bytes.
func (r *Region) Capacity() int {
	return len(r.buf)
}

// Write copies data into the region at the given offset. Writes beyond the
// capacity are truncated to the valid range; an offset past the end writes
// nothing. The number of bytes actually written is returned.
func (r *Region) Write(offset int, data []byte) int {
	if offset < 0 || offset >= len(r.buf) {
		return 0
	}
	n := copy(r.buf[offset:], data)
	return n
}

// Read copies length bytes starting at offset into a new slice. Reads beyond
// the capacity are filled with the sentinel pattern rather than garbage, so
// callers always get exactly length bytes back.
func (r *Region) Read(offset, length int) []byte {
	if length < 0 {
		length = 0
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = Sentinel
	}
	if offset < 0 || offset >= len(r.buf) {
		return out
	}
	copy(out, r.buf[offset:])
	return out
}

// Clear fills the entire region with the sentinel pattern. Idempotent.
func (r *Region) Clear() {
	for i := range r.buf {
		r.buf[i] = Sentinel
	}
}

// Bytes exposes the raw backing buffer. Used by the host-side tooling to
// save or diff region images; the fault path never uses it.
func (r *Region) Bytes() []byte {
	return r.buf
}
