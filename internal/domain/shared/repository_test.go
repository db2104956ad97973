package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginated(t *testing.T) {
	t.Run("computes total pages", func(t *testing.T) {
		page, err := NewPaginated([]int{1, 2}, 5, PageRequest{Page: 1, PerPage: 2})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, int64(5), page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.HasNext())
		assert.False(t, page.HasPrev())
	})

	t.Run("last partial page", func(t *testing.T) {
		page, err := NewPaginated([]int{5}, 5, PageRequest{Page: 3, PerPage: 2})
		require.NoError(t, err)
		assert.False(t, page.HasNext())
		assert.True(t, page.HasPrev())
	})

	t.Run("empty first page is allowed", func(t *testing.T) {
		page, err := NewPaginated[int](nil, 0, PageRequest{Page: 1, PerPage: 5})
		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.TotalPages)
	})

	t.Run("page past the end", func(t *testing.T) {
		_, err := NewPaginated[int](nil, 5, PageRequest{Page: 4, PerPage: 2})
		assert.ErrorIs(t, err, ErrPageNotFound)
	})

	t.Run("non-positive page or size", func(t *testing.T) {
		_, err := NewPaginated([]int{1}, 1, PageRequest{Page: 0, PerPage: 2})
		assert.ErrorIs(t, err, ErrPageNotFound)
		_, err = NewPaginated([]int{1}, 1, PageRequest{Page: 1, PerPage: 0})
		assert.ErrorIs(t, err, ErrPageNotFound)
	})
}

func TestPaginate(t *testing.T) {
	ctx := context.Background()

	t.Run("passes offset to loader", func(t *testing.T) {
		var gotOffset int
		page, err := Paginate(ctx, PageRequest{Page: 2, PerPage: 3}, func(_ context.Context, req PageRequest) ([]string, int64, error) {
			gotOffset = req.Offset()
			return []string{"d"}, 4, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, gotOffset)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("does not call loader for invalid page", func(t *testing.T) {
		called := false
		_, err := Paginate(ctx, PageRequest{Page: -1, PerPage: 3}, func(_ context.Context, _ PageRequest) ([]string, int64, error) {
			called = true
			return nil, 0, nil
		})
		assert.ErrorIs(t, err, ErrPageNotFound)
		assert.False(t, called)
	})

	t.Run("propagates loader error", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := Paginate(ctx, PageRequest{Page: 1, PerPage: 3}, func(_ context.Context, _ PageRequest) ([]string, int64, error) {
			return nil, 0, boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
