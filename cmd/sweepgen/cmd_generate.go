package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sweepgen/internal/cliconf"
	"sweepgen/internal/experiment"
	"sweepgen/internal/history"
	"sweepgen/internal/specfile"
	"sweepgen/internal/sweep"
)

var configPath string

// generateCmd interprets a generate specification file
var generateCmd = &cobra.Command{
	Use:   "generate [specfile] [-- script flags]",
	Short: "Expand a generate specification file into run commands",
	Long: `Reads a generate specification file and prints the run commands it
describes. Directive lines ("# -...") adjust script arguments for the
generation lines that follow them; a YAML configuration file supplies
baseline values; flags after "--" override both.

When a run-command 4-tuple is in effect, each generation line is used
as the command template and expanded over the tuple's index sequence.

Example:
  sweepgen generate sweep.gs --config exp.yaml -- --runcmds "0, 8, 'srun -n %n', 'nidx + 1'"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"YAML configuration file supplying baseline script arguments")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	specPath := args[0]
	var scriptArgv []string
	if at := cmd.ArgsLenAtDash(); at >= 0 && at <= len(args) {
		scriptArgv = args[at:]
	}

	schema := cliconf.DefaultSchema()
	resolved, err := schema.Resolve(scriptArgv)
	if err != nil {
		return err
	}
	if configPath != "" {
		layer, err := cliconf.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		if err := resolved.Update(layer, scriptArgv); err != nil {
			return err
		}
	}

	ctx, err := newContext(resolved.String("name"))
	if err != nil {
		return err
	}

	reader, closer, err := specfile.Open(specPath,
		specfile.WithArgs(schema, resolved, scriptArgv),
		specfile.WithLogger(logger))
	if err != nil {
		return err
	}
	defer closer.Close()

	total := 0
	for {
		line, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		// Directive layering may have renamed the experiment.
		if name := resolved.String("name"); name != "" && name != ctx.Name() {
			if err := ctx.SetName(name); err != nil {
				return err
			}
		}
		cmds, err := expandLine(resolved, line)
		if err != nil {
			return err
		}
		for _, c := range cmds {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		total += len(cmds)
	}

	path, discard, err := ctx.FlushPath("")
	if err != nil {
		return err
	}
	if discard {
		logger.Info("null device configured as output path; data would be discarded")
	} else {
		logger.Info("flushing data", zap.String("path", path))
	}

	if ledgerPath != "" {
		ledger, err := history.Open(ledgerPath)
		if err != nil {
			return err
		}
		defer ledger.Close()
		id, err := ledger.Record(ctx.Name(), specPath, total, path)
		if err != nil {
			return err
		}
		logger.Debug("recorded run", zap.String("id", id))
	}
	return nil
}

// expandLine turns one generation line into concrete commands. With a
// run-command tuple in effect the line is the command template and is
// swept over the tuple's index sequence; otherwise it stands alone.
func expandLine(resolved *cliconf.Resolved, line string) ([]string, error) {
	tuple, ok := resolved.RunCmds("runcmds")
	if !ok || tuple.Zero() {
		return []string{line}, nil
	}
	return sweep.RunCmds(logger, tuple.Start, tuple.Stop, line, tuple.Step)
}

// newContext builds the experiment context from the global flags and
// the resolved script name.
func newContext(name string) (*experiment.Context, error) {
	ctx := experiment.New()
	if name != "" {
		if err := ctx.SetName(name); err != nil {
			return nil, err
		}
	}
	if outputPath != "" {
		if err := ctx.SetOutputPath(outputPath); err != nil {
			return nil, err
		}
	}
	if outputTemplate != "" {
		if err := ctx.SetOutputTemplate(outputTemplate); err != nil {
			return nil, err
		}
	}
	return ctx, nil
}
