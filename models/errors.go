package models

import (
	"errors"
	"fmt"
)

var (
	ErrDataIntegrity = errors.New("data integrity violation")
	ErrInvalidInput  = errors.New("invalid input")

	// ErrNotFound and ErrConflict are wrapped by the persistence layer.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// DataIntegrityError means the snapshot handed to the core is internally
// inconsistent. The caller has to re-fetch a consistent snapshot.
type DataIntegrityError struct {
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDataIntegrity, e.Reason)
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

func NewDataIntegrityError(format string, args ...any) error {
	return &DataIntegrityError{Reason: fmt.Sprintf(format, args...)}
}

type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
