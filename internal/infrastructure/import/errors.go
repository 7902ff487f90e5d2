package csvimport

import (
	"errors"
	"fmt"
)

// Error codes attached to row-level import errors.
const (
	ErrCodeRequiredField    = "IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidValue     = "IMPORT_INVALID_VALUE"
	ErrCodeValueTooLong     = "IMPORT_VALUE_TOO_LONG"
	ErrCodeValueOutOfRange  = "IMPORT_VALUE_OUT_OF_RANGE"
	ErrCodeDuplicateInFile  = "IMPORT_DUPLICATE_IN_FILE"
	ErrCodeDuplicateCode    = "IMPORT_DUPLICATE_CODE"
	ErrCodeUnknownReference = "IMPORT_UNKNOWN_REFERENCE"
	ErrCodeRowFailed        = "IMPORT_ROW_FAILED"
)

// File-level errors that abort the import before any row is processed.
var (
	ErrEmptyFile       = errors.New("import file is empty")
	ErrInvalidEncoding = errors.New("import file is not valid UTF-8")
	ErrMissingHeader   = errors.New("import file has no header row")
	ErrNoDataRows      = errors.New("import file has no data rows")
)

// RowError describes one problem in one row of the file.
type RowError struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column %q: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ErrorCollection accumulates row errors up to a cap. The total keeps
// counting past the cap so callers can report how much was dropped.
type ErrorCollection struct {
	errors []RowError
	cap    int
	total  int
}

// NewErrorCollection creates a collection that keeps at most max errors.
func NewErrorCollection(max int) *ErrorCollection {
	if max <= 0 {
		max = 100
	}
	return &ErrorCollection{cap: max}
}

// Add records an error.
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.errors) < ec.cap {
		ec.errors = append(ec.errors, err)
	}
}

// AddField records an error against one column of a row.
func (ec *ErrorCollection) AddField(line int, column, code, message string) {
	ec.Add(RowError{Line: line, Column: column, Code: code, Message: message})
}

// AddValue records an error with the offending cell value.
func (ec *ErrorCollection) AddValue(line int, column, code, message, value string) {
	ec.Add(RowError{Line: line, Column: column, Code: code, Message: message, Value: value})
}

// Errors returns the kept errors.
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// Total returns the full error count, including dropped ones.
func (ec *ErrorCollection) Total() int {
	return ec.total
}

// HasErrors reports whether anything was recorded.
func (ec *ErrorCollection) HasErrors() bool {
	return ec.total > 0
}

// Truncated reports whether some errors were dropped at the cap.
func (ec *ErrorCollection) Truncated() bool {
	return ec.total > ec.cap
}
