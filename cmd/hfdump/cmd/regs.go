package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bspguy/hardfault-handler/record"
)

// regsCmd represents the regs command
var regsCmd = &cobra.Command{
	Use:   "regs <region-image>",
	Short: "Show the captured registers as a table",
	Long: `Display the stacked core registers and fault status registers from a
region image in tabular form.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegs,
}

func init() {
	rootCmd.AddCommand(regsCmd)
}

func runRegs(cmd *cobra.Command, args []string) error {
	hdr, _, err := loadImage(args[0])
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Register", "Value", "Notes")

	for _, row := range regRows(hdr) {
		table.Append(row)
	}
	table.Render()
	return nil
}

func regRows(h record.Header) [][]string {
	hex := func(v uint32) string { return fmt.Sprintf("0x%08X", v) }

	rows := [][]string{
		{"R0", hex(h.R0), ""},
		{"R1", hex(h.R1), ""},
		{"R2", hex(h.R2), ""},
		{"R3", hex(h.R3), ""},
		{"R12", hex(h.R12), ""},
		{"LR", hex(h.LR), "stacked link register"},
		{"PC", hex(h.PC), "faulting instruction"},
		{"PSR", hex(h.PSR), ""},
		{"EXC_RETURN", hex(h.ExcReturn), ""},
		{"MSP", hex(h.MSP), ""},
		{"PSP", hex(h.PSP), ""},
		{"CFSR", hex(h.CFSR), fmt.Sprintf("MMFSR=0x%02X BFSR=0x%02X UFSR=0x%04X", h.MMFSR(), h.BFSR(), h.UFSR())},
		{"HFSR", hex(h.HFSR), ""},
		{"DFSR", hex(h.DFSR), ""},
		{"MMFAR", hex(h.MMFAR), "valid only with MMARVALID"},
		{"BFAR", hex(h.BFAR), "valid only with BFARVALID"},
		{"AFSR", hex(h.AFSR), ""},
		{"SHCSR", hex(h.SHCSR), ""},
	}
	return rows
}
