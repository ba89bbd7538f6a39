package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFinder struct {
	byID    map[uint]*memItem
	byIdent map[string]*memItem
	err     error
}

func newMemFinder(items ...*memItem) *memFinder {
	f := &memFinder{byID: map[uint]*memItem{}, byIdent: map[string]*memItem{}}
	for _, it := range items {
		f.byID[it.ID] = it
		f.byIdent[it.Identifier] = it
	}
	return f
}

func (f *memFinder) FindByIdentifier(_ context.Context, identifier string) (*memItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if it, ok := f.byIdent[identifier]; ok {
		return it, nil
	}
	return nil, ErrNotFound
}

func (f *memFinder) FindByID(_ context.Context, id uint) (*memItem, error) {
	if it, ok := f.byID[id]; ok {
		return it, nil
	}
	return nil, ErrNotFound
}

func TestResolve(t *testing.T) {
	v7 := &memItem{ID: 7, Identifier: "v7"}
	finder := newMemFinder(v7)
	ctx := context.Background()

	t.Run("ByIdentifier", func(t *testing.T) {
		got, err := Resolve[*memItem](ctx, finder, "v7")
		require.NoError(t, err)
		assert.Same(t, v7, got)
	})

	t.Run("ByID", func(t *testing.T) {
		got, err := Resolve[*memItem](ctx, finder, "7")
		require.NoError(t, err)
		assert.Same(t, v7, got)
	})

	t.Run("Miss", func(t *testing.T) {
		got, err := Resolve[*memItem](ctx, finder, "v8")
		assert.Nil(t, got)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "v8", nf.Token)
		assert.Contains(t, err.Error(), "v8")
	})

	t.Run("NumericMiss", func(t *testing.T) {
		_, err := Resolve[*memItem](ctx, finder, "8")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("IdentifierWinsOverID", func(t *testing.T) {
		numeric := &memItem{ID: 1, Identifier: "7"}
		f := newMemFinder(v7, numeric)
		got, err := Resolve[*memItem](ctx, f, "7")
		require.NoError(t, err)
		assert.Same(t, numeric, got)
	})

	t.Run("StoreError", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Resolve[*memItem](ctx, &memFinder{err: boom}, "v7")
		assert.ErrorIs(t, err, boom)
		assert.False(t, errors.Is(err, ErrNotFound))
	})
}
