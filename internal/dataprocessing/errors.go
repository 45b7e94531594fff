package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSchema is returned when a header matches none of the known schemas
	ErrUnknownSchema = errors.New("unrecognized dataset schema")

	// ErrMalformedRow is wrapped by every RowError
	ErrMalformedRow = errors.New("malformed row")

	// ErrEmptyDataset is returned when a dataset has no header line
	ErrEmptyDataset = errors.New("dataset is empty")
)

// Reasons a row can be rejected
const (
	ReasonUnparsable        = "unparsable"
	ReasonMissingColumn     = "missing_column"
	ReasonColumnCount       = "unexpected_column_count"
	ReasonNotInteger        = "not_an_integer"
	ReasonNotEnoughIntegers = "not_enough_integer_fields"
)

// RowError describes one data row that could not be classified
type RowError struct {
	Dataset string
	Line    int
	Field   string
	Reason  string
	Fields  []string
	Cause   error
}

// Error implements the error interface
func (e *RowError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: %s", e.Dataset, e.Line, e.Reason)
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap lets errors.Is match ErrMalformedRow and the underlying cause
func (e *RowError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrMalformedRow, e.Cause}
	}
	return []error{ErrMalformedRow}
}
