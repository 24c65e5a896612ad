package sweep

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeStop indicates a negative stop bound.
	ErrNegativeStop = errors.New("sweep: start and stop must both be non-negative")
	// ErrStartAfterStop indicates start > stop.
	ErrStartAfterStop = errors.New("sweep: start cannot be greater than stop")
	// ErrNonPositive indicates a factorization input below 1.
	ErrNonPositive = errors.New("sweep: number and dimensions must both be positive")
)

// MissingVarError reports a stepping expression that never references
// the index variable. A constant stepping function would either never
// terminate or never advance, so it is rejected up front.
type MissingVarError struct {
	Expr string
}

func (e *MissingVarError) Error() string {
	return fmt.Sprintf(
		"sweep: at least one variable must be present; %q was not found in %q",
		IndexVar, e.Expr,
	)
}
