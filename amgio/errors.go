package amgio

import "fmt"

// ReadError reports an engine read failure or buffers that do not fit
// their element schema.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("amgio: read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports an engine write failure
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("amgio: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// NoSolutionError is returned when a solution write is requested for a
// mesh whose solution is absent or has fewer than two rows.
type NoSolutionError struct {
	Path string
	Rows int
}

func (e *NoSolutionError) Error() string {
	return fmt.Sprintf("amgio: no solution to write to %s (%d rows)", e.Path, e.Rows)
}
