package reconcile

import (
	"context"
	"errors"
	"strconv"
)

// KeyFinder looks entities up by either of their two keys.
type KeyFinder[T any] interface {
	// FindByIdentifier returns the entity with the given external identifier.
	FindByIdentifier(ctx context.Context, identifier string) (T, error)
	// FindByID returns the entity with the given internal id.
	FindByID(ctx context.Context, id uint) (T, error)
}

// Resolve finds an entity by external identifier, then by internal id.
// Errors other than ErrNotFound are returned as-is.
func Resolve[T any](ctx context.Context, finder KeyFinder[T], token string) (T, error) {
	var zero T

	item, err := finder.FindByIdentifier(ctx, token)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return zero, err
	}

	id, parseErr := strconv.ParseUint(token, 10, 64)
	if parseErr != nil {
		return zero, &NotFoundError{Token: token}
	}

	item, err = finder.FindByID(ctx, uint(id))
	if err == nil {
		return item, nil
	}
	if errors.Is(err, ErrNotFound) {
		return zero, &NotFoundError{Token: token}
	}
	return zero, err
}
