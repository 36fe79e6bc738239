package record

// The configurable fault status register packs three sub-status registers:
// MemManage (bits 7:0), BusFault (bits 15:8) and UsageFault (bits 31:16).
// The enable bits for the matching handlers live in SHCSR.

// MMFSR extracts the MemManage fault status byte from CFSR.
func (h Header) MMFSR() uint8 {
	return uint8(h.CFSR & 0xFF)
}

// BFSR extracts the BusFault status byte from CFSR.
func (h Header) BFSR() uint8 {
	return uint8((h.CFSR >> 8) & 0xFF)
}

// UFSR extracts the UsageFault status halfword from CFSR.
func (h Header) UFSR() uint16 {
	return uint16((h.CFSR >> 16) & 0xFFFF)
}
