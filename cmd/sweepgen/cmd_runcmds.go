package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sweepgen/internal/cliconf"
	"sweepgen/internal/sweep"
)

var runcmdsSpec string

// runcmdsCmd expands one run-command 4-tuple directly
var runcmdsCmd = &cobra.Command{
	Use:   "runcmds",
	Short: "Expand a run-command 4-tuple into its command sequence",
	Long: `Expands a single run-command 4-tuple without a specification file.
The tuple is start, stop, a command template containing %n, and a
stepping expression over the index variable nidx.

Example:
  sweepgen runcmds --runcmds "0, 8, 'srun -n %n ./app', 'nidx + 2'"`,
	RunE: runRunCmds,
}

func init() {
	runcmdsCmd.Flags().StringVar(&runcmdsSpec, "runcmds", "",
		"The 4-tuple to expand, e.g. \"0, 8, 'srun -n %n', 'nidx + 1'\"")
	_ = runcmdsCmd.MarkFlagRequired("runcmds")
}

func runRunCmds(cmd *cobra.Command, args []string) error {
	tuple, err := cliconf.ParseTuple(runcmdsSpec)
	if err != nil {
		return err
	}
	cmds, err := sweep.RunCmds(logger, tuple.Start, tuple.Stop, tuple.Template, tuple.Step)
	if err != nil {
		return err
	}
	for _, c := range cmds {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}
