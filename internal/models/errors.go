package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidBar       = errors.New("invalid bar (high < low)")
	ErrInvalidVolume    = errors.New("invalid volume")
)

// DataError reports an input series that violates the data contract: a missing
// required field, unordered or duplicate timestamps, or a signal series that is
// not aligned one-to-one with the price series.
type DataError struct {
	Field  string // offending field, if the violation is field-specific
	Reason string
}

func (e *DataError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("data error: field %q: %s", e.Field, e.Reason)
	}
	return "data error: " + e.Reason
}

// NewDataError creates a DataError without a field reference
func NewDataError(format string, args ...interface{}) *DataError {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}

// NewFieldDataError creates a DataError naming the offending field
func NewFieldDataError(field, format string, args ...interface{}) *DataError {
	return &DataError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
