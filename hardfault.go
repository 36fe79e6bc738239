// Package hardfault ties the fault pipeline together: a persistent region,
// the capture trampoline behind the fault vector, and the boot-time
// validate/decode/clear cycle.
//
// A device build wires the real vector stub and SCB access into a Handler
// once at startup and calls Init after the log sink is ready. A fault then
// flows: vector stub -> HandleFault -> record persisted -> reset -> next
// boot -> Init -> report emitted -> region cleared.
package hardfault

import (
	"fmt"

	"github.com/bspguy/hardfault-handler/arch"
	"github.com/bspguy/hardfault-handler/capture"
	"github.com/bspguy/hardfault-handler/common"
	"github.com/bspguy/hardfault-handler/record"
	"github.com/bspguy/hardfault-handler/region"
	"github.com/bspguy/hardfault-handler/report"
	"github.com/bspguy/hardfault-handler/rtos"
)

// Config describes a Handler. System and Memory are required; everything
// else has a working default.
type Config struct {
	// System provides SCB access and the reset primitive.
	System arch.SystemControl

	// Memory provides bounded reads of target RAM for the stacked frame
	// and the stack slice.
	Memory arch.Memory

	// Tasks is the optional task-introspection capability. Nil means
	// absent; early-boot faults before any scheduler are fully supported.
	Tasks rtos.Introspector

	// StackTop is the main stack top (the linker's _estack). Frame
	// addresses at or above it skip the stack slice.
	StackTop uint32

	// RegionBuffer, when set, becomes the persistent region backing store
	// (the slice over the .noinit section). Otherwise a buffer of
	// RegionCapacity bytes is allocated.
	RegionBuffer   []byte
	RegionCapacity int

	// MaxStackCopy caps the saved stack slice; zero selects the default.
	MaxStackCopy int

	// Sink receives report lines. Nil discards the report.
	Sink report.Sink

	// Logger receives diagnostics around the pipeline. Nil disables them.
	Logger common.Logger
}

// Handler is the lifecycle controller over one persistent region.
type Handler struct {
	reg *region.Region
	cap *capture.Capturer
	dec *report.Decoder
	sys arch.SystemControl
	log common.Logger
}

// New creates a Handler from cfg.
func New(cfg Config) (*Handler, error) {
	if cfg.System == nil {
		return nil, fmt.Errorf("hardfault: Config.System is required")
	}
	if cfg.Memory == nil {
		return nil, fmt.Errorf("hardfault: Config.Memory is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = common.NewNoOpLogger()
	}

	var reg *region.Region
	if cfg.RegionBuffer != nil {
		reg = region.FromBuffer(cfg.RegionBuffer)
	} else {
		reg = region.New(cfg.RegionCapacity)
	}
	if reg.Capacity() <= record.HeaderLen {
		return nil, fmt.Errorf("hardfault: region capacity %d cannot hold a %d byte header",
			reg.Capacity(), record.HeaderLen)
	}

	return &Handler{
		reg: reg,
		cap: capture.New(reg, cfg.System, cfg.Memory, cfg.Tasks, capture.Config{
			StackTop:     cfg.StackTop,
			MaxStackCopy: cfg.MaxStackCopy,
		}),
		dec: report.NewDecoder(reg, cfg.Sink, logger),
		sys: cfg.System,
		log: logger,
	}, nil
}

// Init enables detailed sub-fault reporting, then reports and clears any
// dump left by a previous reset. Idempotent: once the region is cleared,
// further calls find nothing and do nothing beyond the enable.
func (h *Handler) Init() {
	h.sys.EnableFaultReporting()

	if !h.dec.Available() {
		h.log.Debug("no fault dump from previous boot")
		return
	}
	h.dec.DecodeAndReport()
	h.dec.Clear()
}

// Available reports whether a valid record is stored.
func (h *Handler) Available() bool {
	return h.dec.Available()
}

// DecodeAndReport renders the stored record, if valid, through the sink.
func (h *Handler) DecodeAndReport() {
	h.dec.DecodeAndReport()
}

// Clear overwrites the region with the sentinel pattern.
func (h *Handler) Clear() {
	h.dec.Clear()
}

// HandleFault is the routine the fault vector stub must call with the
// active stack pointer and EXC_RETURN it captured. It persists a record
// and forces a reset; on target it never returns. Application code must
// not call it.
func (h *Handler) HandleFault(entry arch.EntryState) {
	h.cap.HandleFault(entry)
}

// Region exposes the persistent region, for host tools that save or load
// region images.
func (h *Handler) Region() *region.Region {
	return h.reg
}
