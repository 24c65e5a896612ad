package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sweepgen/internal/sweep"
)

// factorizeCmd decomposes a process count into a grid shape
var factorizeCmd = &cobra.Command{
	Use:   "factorize [count] [dimensions]",
	Short: "Decompose a process count into a balanced N-dimensional grid",
	Long: `Decomposes a process count into the given number of grid dimensions,
for multi-dimensional process layouts.

Example:
  sweepgen factorize 64 2
  8 x 8`,
	Args: cobra.ExactArgs(2),
	RunE: runFactorize,
}

func runFactorize(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("count must be an integer: %q", args[0])
	}
	dims, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("dimensions must be an integer: %q", args[1])
	}
	shape, err := sweep.Factorize(n, dims)
	if err != nil {
		return err
	}
	parts := make([]string, len(shape))
	for i, f := range shape {
		parts[i] = strconv.Itoa(f)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " x "))
	return nil
}
