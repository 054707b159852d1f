package dataset

import "fmt"

// NotFoundError indicates the input file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError indicates the input exists but is not a readable table.
// Line is 0 when the failure is not tied to a line.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s (line %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
