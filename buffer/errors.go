package buffer

import "fmt"

// MalformedBufferError reports a flat buffer whose length is not a whole
// number of rows of the expected width.
type MalformedBufferError struct {
	Kind  string
	Len   int
	Width int
}

func (e *MalformedBufferError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("buffer: length %d is not a multiple of row width %d", e.Len, e.Width)
	}
	return fmt.Sprintf("buffer: %s length %d is not a multiple of row width %d", e.Kind, e.Len, e.Width)
}
