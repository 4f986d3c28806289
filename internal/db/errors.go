package db

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("db: store closed")

// Op constants name OpenSearch APIs for error context.
const (
	OpPing        = "ping"
	OpInfo        = "info"
	OpCreateIndex = "indices.create"
	OpDeleteIndex = "indices.delete"
	OpIndex       = "index"
	OpGet         = "get"
	OpSearch      = "search"
	OpBulk        = "bulk"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// StatusError is a non-2xx cluster response.
type StatusError struct {
	Status int
	Type   string
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s: %s", e.Status, e.Type, e.Reason)
}
