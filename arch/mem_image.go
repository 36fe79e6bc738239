package arch

import (
	"encoding/binary"
	"fmt"
)

// MemoryImage implements Memory for a single contiguous region of memory.
// Tests build stack contents with it, and host-side tools use it to hold a
// RAM image dumped from a target.
type MemoryImage struct {
	// BaseAddr is the starting address of this memory region
	BaseAddr uint32
	// Data holds the actual memory contents
	Data []byte
}

// NewMemoryImage creates a new memory image for the given address range.
func NewMemoryImage(baseAddr uint32, data []byte) *MemoryImage {
	return &MemoryImage{
		BaseAddr: baseAddr,
		Data:     data,
	}
}

// ReadMemory implements Memory.ReadMemory.
// Reads bytes from the image at the specified address, clamping to the
// image bounds.
func (mi *MemoryImage) ReadMemory(addr uint32, data []byte) (int, error) {
	if addr < mi.BaseAddr {
		return 0, fmt.Errorf("address 0x%X is before image base 0x%X", addr, mi.BaseAddr)
	}

	offset := uint64(addr - mi.BaseAddr)
	if offset >= uint64(len(mi.Data)) {
		return 0, fmt.Errorf("address 0x%X is beyond image range (0x%X - 0x%X)",
			addr, mi.BaseAddr, uint64(mi.BaseAddr)+uint64(len(mi.Data)))
	}

	available := uint64(len(mi.Data)) - offset
	toRead := uint64(len(data))
	if toRead > available {
		toRead = available
	}

	copy(data, mi.Data[offset:offset+toRead])
	return int(toRead), nil
}

// Contains checks if the given address falls within this image's range.
func (mi *MemoryImage) Contains(addr uint32) bool {
	return addr >= mi.BaseAddr && uint64(addr) < uint64(mi.BaseAddr)+uint64(len(mi.Data))
}

// SetWord writes a little-endian 32-bit word at the given address. Test
// helper for laying down stacked frames.
func (mi *MemoryImage) SetWord(addr uint32, value uint32) {
	if !mi.Contains(addr) || !mi.Contains(addr+3) {
		return
	}
	binary.LittleEndian.PutUint32(mi.Data[addr-mi.BaseAddr:], value)
}
