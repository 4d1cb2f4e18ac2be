package distfield

import (
	"errors"
	"fmt"
)

// Sentinel errors for the distfield package.
var (
	// ErrMalformedGrid matches every *MalformedGridError.
	ErrMalformedGrid = errors.New("distfield: malformed grid")

	// ErrInvalidOptions matches every *OptionsError.
	ErrInvalidOptions = errors.New("distfield: invalid options")
)

// MalformedGridError reports a grid that is empty, ragged, too large, or
// holds a cell value other than Free or Obstacle.
//
// Row and Col locate the offending cell or row; they are -1 when the problem
// is not tied to a position.
type MalformedGridError struct {
	Row    int
	Col    int
	Reason string
}

func (e *MalformedGridError) Error() string {
	switch {
	case e.Row >= 0 && e.Col >= 0:
		return fmt.Sprintf("distfield: malformed grid at (x=%d, y=%d): %s", e.Col, e.Row, e.Reason)
	case e.Row >= 0:
		return fmt.Sprintf("distfield: malformed grid at row %d: %s", e.Row, e.Reason)
	default:
		return "distfield: malformed grid: " + e.Reason
	}
}

// Is reports whether target is ErrMalformedGrid.
func (e *MalformedGridError) Is(target error) bool {
	return target == ErrMalformedGrid
}

// OptionsError reports an Options field that cannot be used for a grid.
type OptionsError struct {
	Field  string
	Reason string
}

func (e *OptionsError) Error() string {
	return "distfield: invalid options." + e.Field + ": " + e.Reason
}

// Is reports whether target is ErrInvalidOptions.
func (e *OptionsError) Is(target error) bool {
	return target == ErrInvalidOptions
}

func malformed(row, col int, format string, args ...any) error {
	return &MalformedGridError{Row: row, Col: col, Reason: fmt.Sprintf(format, args...)}
}
