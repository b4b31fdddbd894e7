package types

import (
	"errors"
	"fmt"
)

// ErrNoHeaderRow is returned when a sheet ends before its column header row.
var ErrNoHeaderRow = errors.New("no column header row")

// MissingColumnError reports a required column absent from one input.
// The user fixes it by uploading the right export.
type MissingColumnError struct {
	// Column is the missing column name.
	Column string

	// File is the role of the input ("old" or "new").
	File string

	// Source is the upload or file name, when known.
	Source string
}

func (e *MissingColumnError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("required column %q not found in %s file %q", e.Column, e.File, e.Source)
	}
	return fmt.Sprintf("required column %q not found in %s file", e.Column, e.File)
}

// MalformedInputError reports an input that cannot be read as a spreadsheet.
type MalformedInputError struct {
	File   string
	Source string
	Err    error
}

func (e *MalformedInputError) Error() string {
	name := e.File + " file"
	if e.Source != "" {
		name = fmt.Sprintf("%s file %q", e.File, e.Source)
	}
	return fmt.Sprintf("%s is not a readable spreadsheet: %v", name, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// UnexpectedError wraps any other failure raised while running an action.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string { return e.Err.Error() }

func (e *UnexpectedError) Unwrap() error { return e.Err }
