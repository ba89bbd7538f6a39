package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores and finders when no record matches.
var ErrNotFound = errors.New("record not found")

// Fields maps a field name to its decoded value.
type Fields map[string]any

// Record is a single candidate in a batch.
type Record struct {
	// Identifier is the external identifier used to match stored records.
	Identifier string

	// Fields holds the supplied field values, including the identifier field itself
	// when the record was decoded from a request body.
	Fields Fields
}

// Store is the keyed collection a Reconciler writes to.
// Identifier uniqueness is the store's responsibility.
type Store[T any] interface {
	// Find returns the stored record for identifier or an error matching ErrNotFound.
	Find(ctx context.Context, identifier string) (T, error)

	// Update applies fields as a partial update to the record matching identifier.
	// It returns ErrNotFound if the record no longer exists and a *ValidationError
	// if the fields are rejected.
	Update(ctx context.Context, identifier string, fields Fields) (T, error)

	// Create stores a new record from fields, returning a *ValidationError if the
	// fields are rejected.
	Create(ctx context.Context, identifier string, fields Fields) (T, error)
}

// ValidationError reports field-level rejection of a record by a store.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError from a formatted reason.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned by Resolve when neither key matched.
type NotFoundError struct {
	Token string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no record found with id or identifier: %s", e.Token)
}

// Is makes NotFoundError match ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FailureKind classifies why a record landed in the failed bucket.
type FailureKind string

const (
	// FailureMissingIdentifier marks a record without an identifier.
	FailureMissingIdentifier FailureKind = "missing_identifier"
	// FailureValidation marks a record rejected by store validation.
	FailureValidation FailureKind = "validation"
	// FailureStore marks an unexpected store error.
	FailureStore FailureKind = "store"
)

// Failure pairs a rejected input with the reason it was rejected.
type Failure struct {
	Input  Record
	Reason string
	Kind   FailureKind
}

// BatchResult is the three-way partition of a batch.
type BatchResult[T any] struct {
	Created []T
	Updated []T
	Failed  []Failure
}

// Total returns the number of records across all buckets.
func (r BatchResult[T]) Total() int {
	return len(r.Created) + len(r.Updated) + len(r.Failed)
}

// Outcome classifies the result by bucket occupancy.
func (r BatchResult[T]) Outcome() Outcome {
	return Classify(len(r.Created) > 0, len(r.Updated) > 0, len(r.Failed) > 0)
}
