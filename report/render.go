package report

import (
	"fmt"

	"github.com/bspguy/hardfault-handler/record"
)

// Render formats a decoded header as the fixed report lines. All register
// values print as 8-digit uppercase hex. The HF_ADDR line carries exactly
// the program counter and link register for the host-side resolver and
// must not be reformatted.
func Render(h record.Header) []string {
	lines := []string{
		"===== HARD FAULT DUMP =====",
		fmt.Sprintf("Magic: 0x%08X, Ver: %d", h.Magic, h.Version),
		fmt.Sprintf("EXC_RETURN: 0x%08X  MSP: 0x%08X  PSP: 0x%08X", h.ExcReturn, h.MSP, h.PSP),
		fmt.Sprintf("Active SP: 0x%08X  Used: %s  FP ctx: %s",
			h.ActiveSP, usedSPName(h.UsedPSP), yesNo(h.HasFP)),
		"Core regs:",
		fmt.Sprintf(" R0 : 0x%08X  R1 : 0x%08X", h.R0, h.R1),
		fmt.Sprintf(" R2 : 0x%08X  R3 : 0x%08X", h.R2, h.R3),
		fmt.Sprintf(" R12: 0x%08X  LR : 0x%08X", h.R12, h.LR),
		fmt.Sprintf(" PC : 0x%08X  PSR: 0x%08X", h.PC, h.PSR),
		fmt.Sprintf("CFSR: 0x%08X (MMFSR=0x%02X BFSR=0x%02X UFSR=0x%04X)",
			h.CFSR, h.MMFSR(), h.BFSR(), h.UFSR()),
		fmt.Sprintf("HFSR: 0x%08X  DFSR: 0x%08X", h.HFSR, h.DFSR),
		fmt.Sprintf("MMFAR: 0x%08X  BFAR: 0x%08X", h.MMFAR, h.BFAR),
		fmt.Sprintf("AFSR: 0x%08X  SHCSR: 0x%08X", h.AFSR, h.SHCSR),
	}

	lines = append(lines, renderTask(h)...)

	lines = append(lines,
		fmt.Sprintf("Stack dump bytes: %d", h.StackBytes),
		RenderAddrLine(h),
		"===== END HARD FAULT DUMP =====",
	)
	return lines
}

// RenderAddrLine formats the machine-parsable address line alone. Host
// tooling that only needs PC/LR uses this directly.
func RenderAddrLine(h record.Header) string {
	return fmt.Sprintf("HF_ADDR PC=0x%08X LR=0x%08X", h.PC, h.LR)
}

func renderTask(h record.Header) []string {
	if h.TaskPresent == 0 {
		return []string{"RTOS info: not available (no RTOS or scheduler not started)"}
	}
	return []string{
		"RTOS:",
		fmt.Sprintf(" Task : '%s'", h.TaskName),
		fmt.Sprintf(" Prio : %d", h.TaskPriority),
		fmt.Sprintf(" Stack base : 0x%08X", h.TaskStackBase),
		fmt.Sprintf(" Min free   : %d bytes", h.TaskMinFreeBytes),
	}
}

func usedSPName(usedPSP uint32) string {
	if usedPSP != 0 {
		return "PSP"
	}
	return "MSP"
}

func yesNo(flag uint32) string {
	if flag != 0 {
		return "YES"
	}
	return "NO"
}
