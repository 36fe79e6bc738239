package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bspguy/hardfault-handler/common"
	"github.com/bspguy/hardfault-handler/record"
	"github.com/bspguy/hardfault-handler/region"
	"github.com/bspguy/hardfault-handler/report"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hfdump",
	Short: "Decode hard fault dump region images",
	Long: `hfdump decodes the persistent fault dump region of a Cortex-M target on
the host. Pull the region out of RAM with your debug probe (for example
gdb's "dump binary memory") and point hfdump at the image file.

Address-to-source resolution is left to external tooling; the HF_ADDR line
carries the PC/LR values it needs.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hfdump/config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "", "output format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostic logging")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".hfdump")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("hfdump")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if outputFormat == "" && viper.GetString("output") != "" {
			outputFormat = viper.GetString("output")
		}
	}
	if outputFormat == "" && viper.GetString("output") != "" {
		outputFormat = viper.GetString("output")
	}
	if outputFormat == "" {
		outputFormat = "text"
	}
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}

// newLogger returns the diagnostic logger for the current verbosity.
func newLogger() common.Logger {
	if verbose {
		return common.NewStdLogger(common.SeverityDebug)
	}
	return common.NewNoOpLogger()
}

// loadImage reads a region image file and validates the record in it.
func loadImage(path string) (record.Header, *region.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return record.Header{}, nil, fmt.Errorf("read region image: %w", err)
	}
	if len(data) < record.HeaderLen {
		return record.Header{}, nil, fmt.Errorf("region image %s holds %d bytes, need at least %d",
			path, len(data), record.HeaderLen)
	}

	reg := region.FromBuffer(data)
	dec := report.NewDecoder(reg, nil, newLogger())
	if !dec.Available() {
		return record.Header{}, nil, fmt.Errorf("no valid fault dump in %s", path)
	}

	hdr, err := record.Unmarshal(reg.Read(0, record.HeaderLen))
	if err != nil {
		return record.Header{}, nil, err
	}
	return hdr, reg, nil
}
