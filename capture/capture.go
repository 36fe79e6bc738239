// Package capture implements the fault trampoline: it runs synchronously in
// the fault context, extracts machine state, persists a record into the
// retained region and forces a system reset.
//
// The path is split in two so the untestable side effect stays alone at the
// end: Snapshot builds a header (pure given its register sources), Persist
// writes the region, and HandleFault chains them and resets. Nothing here
// allocates after entry except fixed-size scratch buffers, and nothing
// assumes a consistent runtime: the runtime is exactly what may be broken.
package capture

import (
	"github.com/bspguy/hardfault-handler/arch"
	"github.com/bspguy/hardfault-handler/internal/stackframe"
	"github.com/bspguy/hardfault-handler/record"
	"github.com/bspguy/hardfault-handler/region"
	"github.com/bspguy/hardfault-handler/rtos"
)

// DefaultMaxStackCopy caps the stack slice saved as payload. Without precise
// task stack bounds a fixed cap keeps the copy away from unmapped memory.
const DefaultMaxStackCopy = 2048

// Config holds the capture-time parameters.
type Config struct {
	// StackTop is the top of the main stack, the linker's _estack value.
	// A frame address at or above it fails the sanity check and the stack
	// slice is skipped.
	StackTop uint32

	// MaxStackCopy caps the payload size in bytes. Values below 1 fall
	// back to DefaultMaxStackCopy. The cap is additionally clamped to the
	// region capacity minus the header size.
	MaxStackCopy int
}

// Capturer persists fault records. It is driven once per fault from the
// vector-table stub and never concurrently: the fault context cannot be
// preempted and ends in a reset.
type Capturer struct {
	reg   *region.Region
	sys   arch.SystemControl
	mem   arch.Memory
	tasks rtos.Introspector
	cfg   Config
}

// New creates a Capturer. A nil tasks introspector is treated as the
// absent capability.
func New(reg *region.Region, sys arch.SystemControl, mem arch.Memory, tasks rtos.Introspector, cfg Config) *Capturer {
	if tasks == nil {
		tasks = rtos.Absent()
	}
	if cfg.MaxStackCopy < 1 {
		cfg.MaxStackCopy = DefaultMaxStackCopy
	}
	return &Capturer{
		reg:   reg,
		sys:   sys,
		mem:   mem,
		tasks: tasks,
		cfg:   cfg,
	}
}

// Snapshot builds the dump header for the given entry state: execution
// context decoded from EXC_RETURN, fault status registers, the stacked core
// registers read back from the frame address, and the task snapshot if the
// capability reports one. StackBytes and Checksum are left zero; Persist
// fills them once the payload is in place.
//
// If the stacked frame cannot be read the core register fields stay zero;
// the fault status registers are still captured.
func (c *Capturer) Snapshot(entry arch.EntryState) record.Header {
	h := record.NewHeader()

	h.ExcReturn = entry.ExcReturn
	h.MSP = c.sys.MSP()
	h.PSP = c.sys.PSP()
	h.ActiveSP = entry.ActiveSP
	if entry.UsedPSP() {
		h.UsedPSP = 1
	}
	if entry.HasFPContext() {
		h.HasFP = 1
	}

	fs := c.sys.FaultStatus()
	h.CFSR = fs.CFSR
	h.HFSR = fs.HFSR
	h.DFSR = fs.DFSR
	h.MMFAR = fs.MMFAR
	h.BFAR = fs.BFAR
	h.AFSR = fs.AFSR
	h.SHCSR = fs.SHCSR

	if frame, err := stackframe.Read(c.mem, entry.ActiveSP); err == nil {
		h.R0 = frame.R0
		h.R1 = frame.R1
		h.R2 = frame.R2
		h.R3 = frame.R3
		h.R12 = frame.R12
		h.LR = frame.LR
		h.PC = frame.PC
		h.PSR = frame.PSR
	}

	if info, ok := c.tasks.CurrentTask(); ok {
		h.TaskPresent = 1
		h.TaskPriority = info.Priority
		h.TaskMinFreeBytes = info.MinFreeStackBytes
		h.TaskStackBase = info.StackBase
		h.TaskName = info.Name
	}

	return h
}

// Persist writes the record into the region and returns the final header.
//
// The header is first written with StackBytes and Checksum zeroed. If a
// second fault interrupts capture after this point, that partial header
// fails checksum validation on the next boot instead of being mistaken for
// a complete record. Only when the frame address passes the stack-top
// sanity check is the stack slice copied and the header rewritten with the
// real length and checksum; on a failed check the record deliberately stays
// in its partial state and reads as "no usable dump" after reset.
func (c *Capturer) Persist(hdr record.Header, entry arch.EntryState) record.Header {
	c.reg.Clear()

	hdr.StackBytes = 0
	hdr.Checksum = 0
	c.reg.Write(0, hdr.Marshal())

	if entry.ActiveSP >= c.cfg.StackTop {
		return hdr
	}

	maxCopy := c.cfg.MaxStackCopy
	if remaining := c.reg.Capacity() - record.HeaderLen; maxCopy > remaining {
		maxCopy = remaining
	}
	if maxCopy < 0 {
		maxCopy = 0
	}

	slice := make([]byte, maxCopy)
	n, err := c.mem.ReadMemory(entry.ActiveSP, slice)
	if err != nil || n == 0 {
		return hdr
	}
	payload := slice[:n]

	c.reg.Write(record.HeaderLen, payload)
	hdr.StackBytes = uint32(n)
	hdr.Checksum = record.Checksum(hdr.Marshal(), payload)
	c.reg.Write(0, hdr.Marshal())

	return hdr
}

// HandleFault is the routine behind the fault vector. It captures and
// persists the record, then forces a full system reset; on target it never
// returns. Test doubles of SystemControl may return from Reset to observe
// the call, in which case HandleFault simply falls off the end.
func (c *Capturer) HandleFault(entry arch.EntryState) {
	hdr := c.Snapshot(entry)
	c.Persist(hdr, entry)
	c.sys.Reset()
}
