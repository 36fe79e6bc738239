// Package report implements boot-time validation and decoding of a stored
// fault record: checking the region for a usable dump, rendering it as a
// fixed-format text report, and clearing the region afterwards.
package report

import (
	"github.com/bspguy/hardfault-handler/common"
	"github.com/bspguy/hardfault-handler/record"
	"github.com/bspguy/hardfault-handler/region"
)

// Sink receives one report line at a time, without a trailing newline. The
// caller wires it to UART, RTT, a log file or a buffer. The line shapes are
// a stable contract (the HF_ADDR line in particular feeds an external
// address-resolution tool), so they are emitted verbatim rather than
// through a prefixing logger.
type Sink func(line string)

// Decoder validates and reports the record held in a persistent region.
type Decoder struct {
	reg  *region.Region
	sink Sink
	log  common.Logger
}

// NewDecoder creates a Decoder emitting report lines to sink. A nil sink
// discards the report; a nil logger disables diagnostics.
func NewDecoder(reg *region.Region, sink Sink, logger common.Logger) *Decoder {
	if sink == nil {
		sink = func(string) {}
	}
	if logger == nil {
		logger = common.NewNoOpLogger()
	}
	return &Decoder{reg: reg, sink: sink, log: logger}
}

// Available reports whether the region holds a valid record: magic, version
// and header length must match the current layout, the payload length must
// fit the region, and the stored checksum must match a fresh computation
// over the stored bytes. A partial write from an interrupted capture fails
// the checksum and reads as unavailable, never as partially trusted.
func (d *Decoder) Available() bool {
	raw := d.reg.Read(0, record.HeaderLen)
	h, err := record.Unmarshal(raw)
	if err != nil {
		return false
	}

	if h.Magic != record.Magic {
		return false
	}
	if h.Version != record.Version {
		d.log.Logf(common.SeverityDebug, "dump version %d does not match %d", h.Version, record.Version)
		return false
	}
	if h.HeaderLen != record.HeaderLen {
		return false
	}
	if int(h.StackBytes) > d.reg.Capacity()-record.HeaderLen {
		return false
	}

	payload := d.reg.Read(record.HeaderLen, int(h.StackBytes))
	return record.Checksum(raw, payload) == h.Checksum
}

// DecodeAndReport renders the stored record through the sink. No-op when no
// valid record is present.
func (d *Decoder) DecodeAndReport() {
	if !d.Available() {
		d.log.Debug("no fault dump present")
		return
	}

	h, err := record.Unmarshal(d.reg.Read(0, record.HeaderLen))
	if err != nil {
		return
	}

	for _, line := range Render(h) {
		d.sink(line)
	}
	d.log.Logf(common.SeverityInfo, "reported fault dump, PC=0x%08X", h.PC)
}

// Clear overwrites the region with the sentinel pattern. Idempotent.
func (d *Decoder) Clear() {
	d.reg.Clear()
}
