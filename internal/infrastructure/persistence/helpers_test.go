package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/erp/purchasing/internal/domain/catalog"
	"github.com/erp/purchasing/internal/domain/inventory"
	"github.com/erp/purchasing/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a migrated sqlite database in a temp directory
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "purchasing.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	return db.DB
}

// seedProduct stores a product, its category and an empty inventory record
func seedProduct(t *testing.T, db *gorm.DB, name, category string) *catalog.Product {
	t.Helper()
	ctx := context.Background()

	categories := NewGormCategoryRepository(db)
	cat, err := categories.FindByName(ctx, category)
	if err != nil {
		cat, err = catalog.NewCategory(category)
		require.NoError(t, err)
		_, err = categories.CreateIfAbsent(ctx, cat)
		require.NoError(t, err)
	}

	product, err := catalog.NewProduct(name, "test product", decimal.RequireFromString("9.99"), cat.ID)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(ctx, product))

	inv, err := inventory.NewInventory(product.ID)
	require.NoError(t, err)
	require.NoError(t, NewGormInventoryRepository(db).Create(ctx, inv))

	return product
}
