package reassemble

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below with errors.Is.
var (
	ErrMalformedSequence = errors.New("malformed row sequence")
	ErrSchemaMismatch    = errors.New("row width does not match schema")
)

// MalformedSequenceError reports a row sequence that cannot be reassembled.
type MalformedSequenceError struct {
	// Index is the input row where the problem was detected. For a label
	// run left pending at the end of input it is the first row of the run.
	Index int

	// Kind is the classification of the row at Index.
	Kind Kind

	// Pending holds the label fragments queued when the error occurred.
	Pending []string

	// Reason describes the malformed run.
	Reason string
}

func (e *MalformedSequenceError) Error() string {
	msg := fmt.Sprintf("row %d (%s): %s", e.Index, e.Kind, e.Reason)
	if len(e.Pending) > 0 {
		msg += fmt.Sprintf(" (pending label %q)", strings.Join(e.Pending, " "))
	}
	return msg
}

// Is matches ErrMalformedSequence.
func (e *MalformedSequenceError) Is(target error) bool {
	return target == ErrMalformedSequence
}

// SchemaMismatchError reports a row whose width differs from the schema.
type SchemaMismatchError struct {
	Index int
	Got   int
	Want  int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("row %d: has %d cells, schema expects %d", e.Index, e.Got, e.Want)
}

// Is matches ErrSchemaMismatch.
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

func malformed(index int, kind Kind, pending []string, reason string) *MalformedSequenceError {
	var p []string
	if len(pending) > 0 {
		p = append(p, pending...)
	}
	return &MalformedSequenceError{Index: index, Kind: kind, Pending: p, Reason: reason}
}
