// Package record defines the versioned binary layout of a fault dump and its
// (de)serialization. Every multi-byte field is encoded little-endian with no
// implicit padding, so the layout is identical for the on-target producer and
// any host-side consumer regardless of how either compiler lays out structs.
package record

import (
	"encoding/binary"
	"fmt"
)

const (
	// Magic identifies a dump header ("HFDP").
	Magic uint32 = 0x48464450

	// Version is the current layout version. Any stored record with a
	// different version is rejected as foreign.
	Version uint16 = 0x0003

	// MaxTaskNameLen is the maximum stored task name length. The name field
	// occupies MaxTaskNameLen+1 bytes and is always NUL-terminated.
	MaxTaskNameLen = 16
)

// HeaderLen is the serialized header size in bytes for the current version.
const HeaderLen = 8 + // magic, version, header_len
	6*4 + // execution context
	7*4 + // fault status registers
	8*4 + // stacked core registers
	4*4 + (MaxTaskNameLen + 1) + // task snapshot
	2*4 // stack_bytes, checksum

// checksumOff is the byte offset of the checksum field within the header.
const checksumOff = HeaderLen - 4

// Header is the fault dump header. It is followed in the persistent region
// by StackBytes raw bytes copied from the faulted stack.
type Header struct {
	Magic     uint32
	Version   uint16
	HeaderLen uint16

	// Execution context at fault entry.
	ExcReturn uint32
	MSP       uint32
	PSP       uint32
	ActiveSP  uint32 // address of the stacked exception frame
	UsedPSP   uint32 // 0 = MSP, 1 = PSP
	HasFP     uint32 // 0/1 whether an FP context was stacked

	// System control block fault status.
	CFSR  uint32
	HFSR  uint32
	DFSR  uint32
	MMFAR uint32
	BFAR  uint32
	AFSR  uint32
	SHCSR uint32

	// Core registers read from the stacked frame, never from live registers.
	R0  uint32
	R1  uint32
	R2  uint32
	R3  uint32
	R12 uint32
	LR  uint32
	PC  uint32
	PSR uint32

	// Task snapshot, valid only when TaskPresent is 1.
	TaskPresent      uint32
	TaskPriority     uint32
	TaskMinFreeBytes uint32
	TaskStackBase    uint32
	TaskName         string

	// Payload descriptor.
	StackBytes uint32
	Checksum   uint32
}

// NewHeader returns a header with the identity fields of the current
// layout version filled in.
func NewHeader() Header {
	return Header{
		Magic:     Magic,
		Version:   Version,
		HeaderLen: HeaderLen,
	}
}

// Marshal serializes the header into exactly HeaderLen bytes. The task name
// is truncated to MaxTaskNameLen bytes and NUL-padded to the fixed field
// width, so a name can never overrun its slot.
func (h Header) Marshal() []byte {
	buf := make([]byte, HeaderLen)

	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:], h.Version)
	binary.LittleEndian.PutUint16(buf[6:], h.HeaderLen)

	words := []uint32{
		h.ExcReturn, h.MSP, h.PSP, h.ActiveSP, h.UsedPSP, h.HasFP,
		h.CFSR, h.HFSR, h.DFSR, h.MMFAR, h.BFAR, h.AFSR, h.SHCSR,
		h.R0, h.R1, h.R2, h.R3, h.R12, h.LR, h.PC, h.PSR,
		h.TaskPresent, h.TaskPriority, h.TaskMinFreeBytes, h.TaskStackBase,
	}
	off := 8
	for _, w := range words {
		binary.LittleEndian.PutUint32(buf[off:], w)
		off += 4
	}

	name := h.TaskName
	if len(name) > MaxTaskNameLen {
		name = name[:MaxTaskNameLen]
	}
	copy(buf[off:off+MaxTaskNameLen], name)
	off += MaxTaskNameLen + 1 // remaining name bytes stay zero (NUL terminator)

	binary.LittleEndian.PutUint32(buf[off:], h.StackBytes)
	binary.LittleEndian.PutUint32(buf[off+4:], h.Checksum)

	return buf
}

// Unmarshal deserializes a header from data. It only requires HeaderLen
// bytes and performs no validity checks beyond the length; use the report
// package to validate a stored record.
func Unmarshal(data []byte) (Header, error) {
	if len(data) < HeaderLen {
		return Header{}, fmt.Errorf("header needs %d bytes, got %d", HeaderLen, len(data))
	}

	var h Header
	h.Magic = binary.LittleEndian.Uint32(data[0:])
	h.Version = binary.LittleEndian.Uint16(data[4:])
	h.HeaderLen = binary.LittleEndian.Uint16(data[6:])

	words := make([]uint32, 25)
	off := 8
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[off:])
		off += 4
	}
	h.ExcReturn, h.MSP, h.PSP, h.ActiveSP, h.UsedPSP, h.HasFP =
		words[0], words[1], words[2], words[3], words[4], words[5]
	h.CFSR, h.HFSR, h.DFSR, h.MMFAR, h.BFAR, h.AFSR, h.SHCSR =
		words[6], words[7], words[8], words[9], words[10], words[11], words[12]
	h.R0, h.R1, h.R2, h.R3, h.R12, h.LR, h.PC, h.PSR =
		words[13], words[14], words[15], words[16], words[17], words[18], words[19], words[20]
	h.TaskPresent, h.TaskPriority, h.TaskMinFreeBytes, h.TaskStackBase =
		words[21], words[22], words[23], words[24]

	nameField := data[off : off+MaxTaskNameLen+1]
	h.TaskName = cString(nameField)
	off += MaxTaskNameLen + 1

	h.StackBytes = binary.LittleEndian.Uint32(data[off:])
	h.Checksum = binary.LittleEndian.Uint32(data[off+4:])

	return h, nil
}

// Checksum computes the integrity checksum over a serialized header and its
// payload: the XOR of every header byte with the checksum field treated as
// zero, XORed with every payload byte. Deliberately cheap; it must run
// inside a fault handler with nothing but byte loads.
func Checksum(hdr, payload []byte) uint32 {
	var x byte
	for i, b := range hdr {
		if i >= checksumOff && i < checksumOff+4 {
			continue
		}
		x ^= b
	}
	for _, b := range payload {
		x ^= b
	}
	return uint32(x)
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
