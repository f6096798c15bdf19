package content

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("record was modified by another request")
)

// ValidationError reports request input that was rejected before any storage
// was touched. Fields names the offending inputs when there are any.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

func missingFields(names []string) *ValidationError {
	return &ValidationError{Message: "Missing required fields", Fields: names}
}

// UploadError reports a blob-store failure. Status is 400 when the store
// rejected the object and 500 otherwise.
type UploadError struct {
	Status  int
	Message string
	Err     error
}

func (e *UploadError) Error() string { return e.Message }

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError reports a row-store failure after input was accepted.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return e.Err.Error() }

func (e *PersistError) Unwrap() error { return e.Err }
