package zerrors

import (
	"errors"
	"fmt"
)

// ValidationError represents errors in request or response validation
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error for field '%s' (value: %v): %s (caused by: %v)", e.Field, e.Value, e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error for field '%s' (value: %v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewValidationErrorWithCause creates a new validation error with a cause
func NewValidationErrorWithCause(field string, value interface{}, message string, cause error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Cause:   cause,
	}
}

// NotFoundError is returned when an operation targets a record that does not exist
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %v not found", e.Resource, e.ID)
}

// NewNotFoundError creates an error for a missing resource
func NewNotFoundError(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// InsufficientParticipantsError is returned when a pairing cannot be formed
type InsufficientParticipantsError struct {
	Active   int
	Required int
	Message  string
}

func (e *InsufficientParticipantsError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("insufficient participants (active: %d, required: %d): %s", e.Active, e.Required, e.Message)
	}
	return fmt.Sprintf("insufficient participants (active: %d, required: %d)", e.Active, e.Required)
}

// NewInsufficientParticipantsError creates an error for a pool too small to pair from
func NewInsufficientParticipantsError(active int) *InsufficientParticipantsError {
	return &InsufficientParticipantsError{
		Active:   active,
		Required: 2,
	}
}

// NewNoAlternativePairingError creates an error for a regeneration that could not
// find a pair different from the current one
func NewNoAlternativePairingError(active, attempts int) *InsufficientParticipantsError {
	return &InsufficientParticipantsError{
		Active:   active,
		Required: 3,
		Message:  fmt.Sprintf("no different pairing found after %d attempts", attempts),
	}
}

// StorageError represents errors related to storage operations
type StorageError struct {
	Type      string
	Operation string
	Resource  string
	Message   string
	Cause     error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error [%s] during %s on %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Resource, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage error [%s] during %s on %s: %s",
		e.Type, e.Operation, e.Resource, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Storage error types
const (
	StorageErrorTypeConnectionFailed = "connection_failed"
	StorageErrorTypeQueryFailed      = "query_failed"
	StorageErrorTypeMigrationFailed  = "migration_failed"
)

// NewStorageConnectionError creates an error for storage connection failures
func NewStorageConnectionError(operation, resource string, cause error) *StorageError {
	return &StorageError{
		Type:      StorageErrorTypeConnectionFailed,
		Operation: operation,
		Resource:  resource,
		Message:   "failed to connect to storage",
		Cause:     cause,
	}
}

// NewStorageQueryError creates an error for storage query failures
func NewStorageQueryError(operation, resource string, cause error) *StorageError {
	return &StorageError{
		Type:      StorageErrorTypeQueryFailed,
		Operation: operation,
		Resource:  resource,
		Message:   "storage query failed",
		Cause:     cause,
	}
}

// NewStorageMigrationError creates an error for schema setup failures
func NewStorageMigrationError(resource string, cause error) *StorageError {
	return &StorageError{
		Type:      StorageErrorTypeMigrationFailed,
		Operation: "migrate",
		Resource:  resource,
		Message:   "schema setup failed",
		Cause:     cause,
	}
}

// IsValidation reports whether err is or wraps a *ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a *NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInsufficientParticipants reports whether err is or wraps a *InsufficientParticipantsError
func IsInsufficientParticipants(err error) bool {
	var target *InsufficientParticipantsError
	return errors.As(err, &target)
}

// IsStorage reports whether err is or wraps a *StorageError
func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}
