// Package arch defines the Cortex-M architecture boundary of the fault
// handler. Everything the capture path needs from hardware arrives through
// the small interfaces here, so the rest of the pipeline is plain Go and
// runs unchanged on target and on a host.
package arch

// EXC_RETURN bit assignments (Armv7-M exception return value in LR).
const (
	// ExcReturnSPSEL is set when the process stack (PSP) held the frame.
	ExcReturnSPSEL uint32 = 1 << 2
	// ExcReturnFType is clear when an extended (FP) frame was stacked.
	ExcReturnFType uint32 = 1 << 4
)

// EntryState carries the two values the raw vector-table stub must hand
// over: the stack pointer that held the exception frame and the EXC_RETURN
// code. The stub is the only architecture-coupled piece of the handler; it
// must capture these with zero use of the normal stack, because the stack
// pointer itself may be what is corrupted.
type EntryState struct {
	ActiveSP  uint32
	ExcReturn uint32
}

// UsedPSP reports whether the process stack pointer held the frame.
func (e EntryState) UsedPSP() bool {
	return e.ExcReturn&ExcReturnSPSEL != 0
}

// HasFPContext reports whether a floating-point context was stacked.
func (e EntryState) HasFPContext() bool {
	return e.ExcReturn&ExcReturnFType == 0
}

// FaultStatus holds the system control block fault registers read at
// capture time.
type FaultStatus struct {
	CFSR  uint32
	HFSR  uint32
	DFSR  uint32
	MMFAR uint32
	BFAR  uint32
	AFSR  uint32
	SHCSR uint32
}

// SystemControl abstracts the system control block operations the handler
// uses. The on-target implementation reads SCB registers directly; tests
// and host tools supply recorded values.
type SystemControl interface {
	// FaultStatus reads the fault status and fault address registers.
	FaultStatus() FaultStatus

	// MSP and PSP return the current main and process stack pointers.
	MSP() uint32
	PSP() uint32

	// EnableFaultReporting enables the MemManage, BusFault and UsageFault
	// handlers so a generic HardFault is attributed to a specific cause
	// wherever possible.
	EnableFaultReporting()

	// Reset forces a full system reset. On target it never returns.
	Reset()
}

// Memory provides bounded reads of target memory. The capture path uses it
// for the stacked exception frame and the stack slice; implementations must
// tolerate wild addresses by returning an error rather than faulting.
type Memory interface {
	// ReadMemory reads len(data) bytes starting at addr into data.
	// Returns the number of bytes actually read.
	ReadMemory(addr uint32, data []byte) (int, error)
}
