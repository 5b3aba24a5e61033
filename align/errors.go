package align

import (
	"fmt"
)

// EmptyInputError is returned when a structure to be scored has no residues
// with a carbon-alpha atom.
type EmptyInputError struct {
	Which string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("Structure %s has no residues to compare.", e.Which)
}
