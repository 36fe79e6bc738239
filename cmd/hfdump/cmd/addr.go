package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bspguy/hardfault-handler/report"
)

// addrCmd represents the addr command
var addrCmd = &cobra.Command{
	Use:   "addr <region-image>",
	Short: "Print only the HF_ADDR line",
	Long: `Print the machine-parsable HF_ADDR line for a region image, for piping
straight into an external address-resolution tool.`,
	Args: cobra.ExactArgs(1),
	RunE: runAddr,
}

func init() {
	rootCmd.AddCommand(addrCmd)
}

func runAddr(cmd *cobra.Command, args []string) error {
	hdr, _, err := loadImage(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.RenderAddrLine(hdr))
	return nil
}
