package entities

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is implemented by domain errors that map to a response status.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinels for errors.Is checks across package boundaries.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrEmptyInput = errors.New("empty input")
	ErrStore      = errors.New("store failure")
)

// ValidationError reports missing or invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a referenced id that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// EmptyInputError is returned when an export is requested for a variant with no chapters.
type EmptyInputError struct {
	BookVariant BookVariant
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("book variant %q has no chapters to export", e.BookVariant)
}

func (e *EmptyInputError) StatusCode() int { return http.StatusUnprocessableEntity }
func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

// StoreError wraps a persistence or blob storage failure. The cause is logged,
// never shown to API callers.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
func (e *StoreError) StatusCode() int { return http.StatusInternalServerError }
func (e *StoreError) Is(target error) bool { return target == ErrStore }
