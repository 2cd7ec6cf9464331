package dispatch

import (
	"errors"
	"fmt"
)

// ErrNoHostSurface is returned when the environment has no surface to show a
// table view in
var ErrNoHostSurface = errors.New("no host surface for table view")

// TableNotFoundError is returned when a token names no known table
type TableNotFoundError struct {
	Name string
}

func (e TableNotFoundError) Error() string {
	return fmt.Sprintf("table not found: %s", e.Name)
}
