package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("lowercases and trims the name", func(t *testing.T) {
		category, err := NewCategory("  Power Tools ")
		require.NoError(t, err)
		assert.Equal(t, "power tools", category.Name)
		assert.NotEmpty(t, category.ID)
	})

	t.Run("different casing normalizes to the same name", func(t *testing.T) {
		assert.Equal(t, NormalizeCategoryName("TOOLS"), NormalizeCategoryName("tools"))
		assert.Equal(t, "écrous", NormalizeCategoryName("ÉCROUS"))
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("   ")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidRequest))
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewCategory(strings.Repeat("a", 101))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100 characters")
	})
}
