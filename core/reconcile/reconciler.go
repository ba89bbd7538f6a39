package reconcile

import (
	"context"
	"errors"
)

// DefaultMissingIdentifierReason is the failure reason for records without an identifier.
const DefaultMissingIdentifierReason = "identifier is required"

// Reconciler partitions batches into created, updated and failed buckets.
type Reconciler[T any] struct {
	// MissingIdentifierReason overrides DefaultMissingIdentifierReason,
	// e.g. "video_id is required" for the video endpoints.
	MissingIdentifierReason string
}

// New creates a Reconciler with the default missing identifier reason.
func New[T any]() *Reconciler[T] {
	return &Reconciler[T]{MissingIdentifierReason: DefaultMissingIdentifierReason}
}

// Reconcile creates or updates every record in batch against store.
// It never returns early: each record ends up in exactly one bucket.
func (r *Reconciler[T]) Reconcile(ctx context.Context, batch []Record, store Store[T]) BatchResult[T] {
	result := BatchResult[T]{
		Created: []T{},
		Updated: []T{},
		Failed:  []Failure{},
	}

	for _, rec := range batch {
		if rec.Identifier == "" {
			result.Failed = append(result.Failed, Failure{
				Input:  rec,
				Reason: r.missingReason(),
				Kind:   FailureMissingIdentifier,
			})
			continue
		}

		_, err := store.Find(ctx, rec.Identifier)
		switch {
		case err == nil:
			item, updErr := store.Update(ctx, rec.Identifier, rec.Fields)
			if updErr == nil {
				result.Updated = append(result.Updated, item)
				continue
			}
			if !errors.Is(updErr, ErrNotFound) {
				result.Failed = append(result.Failed, failureFor(rec, updErr))
				continue
			}
			// Record vanished between Find and Update.
		case !errors.Is(err, ErrNotFound):
			result.Failed = append(result.Failed, failureFor(rec, err))
			continue
		}

		item, err := store.Create(ctx, rec.Identifier, rec.Fields)
		if err != nil {
			result.Failed = append(result.Failed, failureFor(rec, err))
			continue
		}
		result.Created = append(result.Created, item)
	}

	return result
}

// CreateAll attempts to create every record in batch. Updated is always empty.
// Identifier checks are left to the store's validation.
func (r *Reconciler[T]) CreateAll(ctx context.Context, batch []Record, store Store[T]) BatchResult[T] {
	result := BatchResult[T]{
		Created: []T{},
		Updated: []T{},
		Failed:  []Failure{},
	}

	for _, rec := range batch {
		item, err := store.Create(ctx, rec.Identifier, rec.Fields)
		if err != nil {
			result.Failed = append(result.Failed, failureFor(rec, err))
			continue
		}
		result.Created = append(result.Created, item)
	}

	return result
}

func (r *Reconciler[T]) missingReason() string {
	if r.MissingIdentifierReason == "" {
		return DefaultMissingIdentifierReason
	}
	return r.MissingIdentifierReason
}

func failureFor(rec Record, err error) Failure {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return Failure{Input: rec, Reason: vErr.Reason, Kind: FailureValidation}
	}
	return Failure{Input: rec, Reason: err.Error(), Kind: FailureStore}
}
