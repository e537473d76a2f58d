package jfr

import (
	"fmt"
)

// IOError reports a failure to read the capture itself.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("read jfr: %v", e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError reports input that is not a readable JFR capture.
type FormatError struct {
	Offset int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "invalid jfr"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Offset > 0 {
		msg += fmt.Sprintf(" (near byte %d)", e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// FieldMissingError reports an expected field absent from a record.
type FieldMissingError struct {
	Field string
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("field %q missing", e.Field)
}

// TypeMismatchError reports a field present but not convertible to the
// requested type.
type TypeMismatchError struct {
	Field    string
	Expected string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q is not a %s", e.Field, e.Expected)
}

// EventError locates a per-event decode failure within the capture.
type EventError struct {
	Index int // ordinal of the event among all events surfaced by the reader
	Class string
	Err   error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event #%d (%s): %v", e.Index, e.Class, e.Err)
}

func (e *EventError) Unwrap() error { return e.Err }
