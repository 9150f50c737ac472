package editor

import "fmt"

// MalformedDocumentError is returned when a file is not a Hadoop
// <configuration> property document.
type MalformedDocumentError struct {
	Path string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed property document %s: %v", e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }
