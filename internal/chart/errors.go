package chart

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when there is no bar to lay out.
var ErrEmptyInput = errors.New("chart: empty bar sequence")

// InvalidBarError reports a bar with a non-finite or negative field.
type InvalidBarError struct {
	Index int
	Field string
	Value float64
}

func (e *InvalidBarError) Error() string {
	return fmt.Sprintf("chart: bar %d has invalid %s (%v)", e.Index, e.Field, e.Value)
}

// SerializationError wraps a failure to write the finished document.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("chart: write document: %v", e.Err)
	}
	return fmt.Sprintf("chart: write %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
