package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sweepgen/internal/datasink"
	"sweepgen/internal/history"
)

var historyCount int

// historyCmd lists recorded runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs from the run-history ledger",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 20,
		"Maximum number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if ledgerPath == "" {
		return fmt.Errorf("no ledger configured; pass --ledger")
	}
	ledger, err := history.Open(ledgerPath)
	if err != nil {
		return err
	}
	defer ledger.Close()

	entries, err := ledger.Recent(historyCount)
	if err != nil {
		return err
	}

	var tbl datasink.Table
	tbl.AddRowWithRule("WHEN", "EXPERIMENT", "SPEC", "CMDS", "OUTPUT")
	for _, e := range entries {
		tbl.AddRow(e.When.Format("2006-01-02 15:04:05"), e.Experiment,
			e.SpecPath, e.Commands, e.OutputPath)
	}
	tbl.Emit(func(line string) { fmt.Fprintln(cmd.OutOrStdout(), line) })
	return nil
}
