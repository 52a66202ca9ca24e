package db

import "fmt"

// SQLError wraps any failure to connect to or inspect a database.
type SQLError struct {
	Op  string
	Err error
}

// Error implements the error interface for SQLError
func (e *SQLError) Error() string {
	return fmt.Sprintf("SQL error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the driver error.
func (e *SQLError) Unwrap() error {
	return e.Err
}
