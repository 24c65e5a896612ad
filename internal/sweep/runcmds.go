// Package sweep expands declarative sweep parameters into concrete
// run commands and process-grid shapes.
package sweep

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"sweepgen/internal/mathex"
)

// IndexVar is the index variable a stepping expression iterates, as a
// whole word.
const IndexVar = "nidx"

// Placeholder is the substring of a command template replaced with
// each generated index value.
const Placeholder = "%n"

var indexVarRE = regexp.MustCompile(`\b` + IndexVar + `\b`)

// RunCmds generates the bounded sequence of run commands described by
// a sweep: starting from start, the stepping expression nfun is
// evaluated repeatedly over the index variable until the result
// exceeds stop, and every collected value (start included) is
// substituted for the %n placeholder in spec.
//
// A template without the placeholder is suspicious but legal: every
// generated command would be identical, so a warning is logged and
// generation proceeds.
func RunCmds(log *zap.Logger, start, stop int, spec, nfun string) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if stop < 0 {
		return nil, fmt.Errorf("%w: stop=%d", ErrNegativeStop, stop)
	}
	if start > stop {
		return nil, fmt.Errorf("%w: start=%d stop=%d", ErrStartAfterStop, start, stop)
	}
	if !indexVarRE.MatchString(nfun) {
		return nil, &MissingVarError{Expr: nfun}
	}

	// Collect index values. The start value is always included.
	vals := []float64{float64(start)}
	nidx := float64(start)
	for {
		nval, err := mathex.Evaluate(indexVarRE.ReplaceAllString(nfun, formatNum(nidx)))
		if err != nil {
			return nil, err
		}
		if nval > float64(stop) {
			break
		}
		vals = append(vals, nval)
		nidx = nval
	}

	if !strings.Contains(spec, Placeholder) {
		log.Warn("placeholder not found in run specification",
			zap.String("placeholder", Placeholder),
			zap.String("spec", spec))
	}
	cmds := make([]string, 0, len(vals))
	for _, v := range vals {
		cmds = append(cmds, strings.ReplaceAll(spec, Placeholder, formatNum(v)))
	}
	return cmds, nil
}

// formatNum renders integral values without a fractional part, so
// "nidx + 1" sweeps substitute "4" rather than "4.000000".
func formatNum(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
