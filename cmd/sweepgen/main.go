package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose        bool
	outputPath     string
	outputTemplate string
	ledgerPath     string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sweepgen",
	Short: "sweepgen - reproducible experiment sweep generation",
	Long: `sweepgen interprets declarative experiment specifications and turns
them into concrete, reproducible run commands and collision-free
output paths.

A generate specification file mixes run-command templates with
directive comments ("# -...") that adjust arguments for the lines
that follow. Layering order for every argument, lowest to highest:
schema default, configuration file, explicit command line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&outputPath, "output-path", "",
		"Base directory experiment data are flushed to (default: cwd)")
	rootCmd.PersistentFlags().StringVar(&outputTemplate, "output-template", "",
		"Output directory template; %d date, %t time, %u user, %n name, %h host, %i id")
	rootCmd.PersistentFlags().StringVar(&ledgerPath, "ledger", "",
		"Path to the run-history ledger database")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(runcmdsCmd)
	rootCmd.AddCommand(factorizeCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
