package experiment

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName indicates an attempt to set an empty experiment name.
	ErrEmptyName = errors.New("experiment: name cannot be empty")
	// ErrEmptyOutputPath indicates an attempt to set an empty base output path.
	ErrEmptyOutputPath = errors.New("experiment: base data output path cannot be empty")
	// ErrEmptyTemplate indicates an attempt to set an empty output template.
	ErrEmptyTemplate = errors.New("experiment: output template cannot be empty")
)

// AllocationError reports that no free integer subdirectory name was
// found under Base within Tries attempts.
type AllocationError struct {
	Base  string
	Tries int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf(
		"experiment: cannot find usable data directory after %d tries under %s",
		e.Tries, e.Base,
	)
}
