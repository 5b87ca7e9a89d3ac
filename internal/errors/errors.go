package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrOutOfRange   = errors.New("index out of range")
)

// NotFoundError indicates a resource doesn't exist.
type NotFoundError struct {
	Resource string // "template", "config"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError indicates invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// IndexError indicates a color index that the list doesn't own.
type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("color index %d out of range (flag has %d colors)", e.Index, e.Length)
}

func (e *IndexError) Unwrap() error {
	return ErrOutOfRange
}

// Helper constructors for common cases

func TemplateNotFound(name string) error {
	return &NotFoundError{Resource: "template", ID: name}
}

func InvalidColor(value string) error {
	return &ValidationError{Field: "color", Message: fmt.Sprintf("%q is not a 6-digit hex color", value)}
}

func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IndexOutOfRange(index, length int) error {
	return &IndexError{Index: index, Length: length}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsOutOfRange checks if an error is an index error.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}
