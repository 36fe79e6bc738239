// Package stackframe reads the register frame that Armv7-M hardware pushes
// onto the active stack on exception entry.
package stackframe

import (
	"encoding/binary"
	"fmt"

	"github.com/bspguy/hardfault-handler/arch"
)

// Size is the byte size of a basic (non-FP) stacked frame: eight words.
const Size = 8 * 4

// Frame holds the eight automatically stacked registers, in stacking order.
// These are read back from memory, never from live registers: instructions
// executed between the fault and the handler may have clobbered the latter.
type Frame struct {
	R0  uint32
	R1  uint32
	R2  uint32
	R3  uint32
	R12 uint32
	LR  uint32
	PC  uint32
	PSR uint32
}

// Read loads the stacked frame at addr from mem. A short or failed read
// returns an error; callers treat that as an untrustworthy stack.
func Read(mem arch.Memory, addr uint32) (Frame, error) {
	buf := make([]byte, Size)
	n, err := mem.ReadMemory(addr, buf)
	if err != nil {
		return Frame{}, fmt.Errorf("read stacked frame at 0x%08X: %w", addr, err)
	}
	if n < Size {
		return Frame{}, fmt.Errorf("short stacked frame at 0x%08X: %d of %d bytes", addr, n, Size)
	}

	return Frame{
		R0:  binary.LittleEndian.Uint32(buf[0:]),
		R1:  binary.LittleEndian.Uint32(buf[4:]),
		R2:  binary.LittleEndian.Uint32(buf[8:]),
		R3:  binary.LittleEndian.Uint32(buf[12:]),
		R12: binary.LittleEndian.Uint32(buf[16:]),
		LR:  binary.LittleEndian.Uint32(buf[20:]),
		PC:  binary.LittleEndian.Uint32(buf[24:]),
		PSR: binary.LittleEndian.Uint32(buf[28:]),
	}, nil
}
