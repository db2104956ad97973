package persistence

import (
	"context"
	"testing"

	"github.com/erp/purchasing/internal/domain/catalog"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCategoryRepository_CreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCategoryRepository(newTestDB(t))

	first, err := catalog.NewCategory("Tools")
	require.NoError(t, err)
	created, err := repo.CreateIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second, err := catalog.NewCategory("TOOLS")
	require.NoError(t, err)
	created, err = repo.CreateIfAbsent(ctx, second)
	require.NoError(t, err)
	assert.False(t, created, "a second row with the same name must not be inserted")

	found, err := repo.FindByName(ctx, "tOoLs")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "tools", found.Name)

	byID, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "tools", byID.Name)

	_, err = repo.FindByName(ctx, "garden")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormProductRepository(db)

	hammer := seedProduct(t, db, "Hammer", "tools")

	t.Run("find by id loads the category", func(t *testing.T) {
		found, err := repo.FindByID(ctx, hammer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hammer", found.Name)
		assert.True(t, decimal.RequireFromString("9.99").Equal(found.Price))
		require.NotNil(t, found.Category)
		assert.Equal(t, "tools", found.Category.Name)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := repo.ExistsByID(ctx, hammer.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("update writes the changed fields", func(t *testing.T) {
		garden := seedProduct(t, db, "Rake", "garden")

		product, err := repo.FindByID(ctx, hammer.ID)
		require.NoError(t, err)
		newPrice := decimal.RequireFromString("12.50")
		name := "Claw hammer"
		require.NoError(t, product.Apply(catalog.ProductPatch{Name: &name, Price: &newPrice, CategoryID: &garden.CategoryID}))
		require.NoError(t, repo.Update(ctx, product))

		found, err := repo.FindByID(ctx, hammer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Claw hammer", found.Name)
		assert.True(t, newPrice.Equal(found.Price))
		assert.Equal(t, "garden", found.Category.Name)
	})

	t.Run("update of a missing product", func(t *testing.T) {
		ghost, err := catalog.NewProduct("Ghost", "", decimal.Zero, hammer.CategoryID)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindPage(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormProductRepository(db)

	var ids []uuid.UUID
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		ids = append(ids, seedProduct(t, db, name, "letters").ID)
	}

	page, total, err := repo.FindPage(ctx, shared.PageRequest{Page: 2, PerPage: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[5], page[0].ID)
	assert.Equal(t, ids[6], page[1].ID)
	assert.Equal(t, "letters", page[0].Category.Name)

	page, _, err = repo.FindPage(ctx, shared.PageRequest{Page: 3, PerPage: 5})
	require.NoError(t, err)
	assert.Empty(t, page)
}
