package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection signals a failure to construct or reach the cluster connection.
	ErrConnection = errors.New("opensearch connection error")
	// ErrAuthentication signals missing or rejected credentials.
	ErrAuthentication = errors.New("opensearch authentication error")
	// ErrQuery signals a failed index, document, search or bulk operation.
	ErrQuery = errors.New("opensearch query error")

	// ErrInvalidDate signals a date parameter that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date format")
	// ErrInvalidParams signals malformed search parameters.
	ErrInvalidParams = errors.New("invalid search parameters")
)

// InvalidDateError wraps ErrInvalidDate with the offending value.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("Invalid date format: %s. Expected YYYY-MM-DD", e.Value)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// NewInvalidDate creates an invalid date error for value.
func NewInvalidDate(value string) error {
	return &InvalidDateError{Value: value}
}
