package core

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Typed errors below report these through errors.Is.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSchema            = errors.New("schema error")
	ErrMalformedValue    = errors.New("malformed value")
)

// SourceUnavailableError is returned when the backing table cannot be opened or read.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSourceUnavailable.
func (e *SourceUnavailableError) Is(target error) bool { return target == ErrSourceUnavailable }

// SchemaError is returned when the table shape does not match its header.
// Line is 1-based; Want and Got are field counts when the mismatch is a count.
type SchemaError struct {
	Path   string
	Line   int
	Column int
	Want   int
	Got    int
	Err    error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Want != e.Got:
		return fmt.Sprintf("schema error: %s:%d: expected %d fields, got %d", e.Path, e.Line, e.Want, e.Got)
	case e.Column > 0:
		return fmt.Sprintf("schema error: %s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("schema error: %s:%d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("schema error: %s: %v", e.Path, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *SchemaError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// MalformedValueError is returned when a non-empty year cell is not a number.
// Country is empty until the dataset builder fills it in.
type MalformedValueError struct {
	Country string
	Year    int
	Value   string
	Err     error
}

func (e *MalformedValueError) Error() string {
	if e.Country == "" {
		return fmt.Sprintf("malformed value for year %d: %q", e.Year, e.Value)
	}
	return fmt.Sprintf("malformed value for %s in year %d: %q", e.Country, e.Year, e.Value)
}

// Unwrap returns the underlying cause.
func (e *MalformedValueError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMalformedValue.
func (e *MalformedValueError) Is(target error) bool { return target == ErrMalformedValue }
