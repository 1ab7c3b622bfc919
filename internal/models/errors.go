package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no job exists for the requested id.
	ErrNotFound = errors.New("file not found")

	// ErrUnsupportedFormat means the detector cannot classify the upload
	// or no strategy exists for its kind.
	ErrUnsupportedFormat = errors.New("unsupported file type: only CSV, Excel (.xls/.xlsx), and PDF are supported")

	// ErrPayloadTooLarge means the upload exceeds the configured size ceiling.
	ErrPayloadTooLarge = errors.New("file size exceeds the maximum allowed")

	// ErrValidation means the submission itself is malformed (no file, empty name).
	ErrValidation = errors.New("invalid upload request")
)

// StorageError wraps a persistence or raw-file I/O failure with the
// operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ParseError wraps a strategy-specific decode/read failure. It is captured
// into the job's error field, never surfaced as a request failure.
type ParseError struct {
	Kind FileKind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
