package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bspguy/hardfault-handler/report"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <region-image>",
	Short: "Print the full fault report for a region image",
	Long: `Validate the record in a region image and print the same fixed-format
report the target emits on the boot after a fault.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	hdr, reg, err := loadImage(args[0])
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		out, err := json.MarshalIndent(hdr, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	dec := report.NewDecoder(reg, func(line string) {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}, newLogger())
	dec.DecodeAndReport()
	return nil
}
