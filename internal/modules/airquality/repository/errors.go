package repository

import (
	"fmt"
	"time"
)

// DuplicateKeyError is returned when a record with the same date_time
// already exists.
type DuplicateKeyError struct {
	Key time.Time
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("a reading already exists at %s", e.Key.UTC().Format(time.RFC3339Nano))
}

// NotFoundError is returned when no record has the requested date_time.
type NotFoundError struct {
	Key time.Time
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no reading at %s", e.Key.UTC().Format(time.RFC3339Nano))
}

// IntegrityError wraps a storage constraint violation other than a
// duplicate key.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: integrity error: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// UnexpectedStorageError wraps any other storage failure, including a panic
// recovered during a transaction.
type UnexpectedStorageError struct {
	Op  string
	Err error
}

func (e *UnexpectedStorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UnexpectedStorageError) Unwrap() error { return e.Err }
