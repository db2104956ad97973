package persistence

import (
	"context"
	"testing"

	appinv "github.com/erp/purchasing/internal/application/inventory"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/erp/purchasing/internal/domain/trade"
	"github.com/erp/purchasing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommittedPurchase(t *testing.T, lines ...trade.PurchaseLine) *trade.Purchase {
	t.Helper()
	p := trade.NewPurchase()
	for _, l := range lines {
		_, err := p.AddLine(l.ProductID, l.Quantity, l.Value)
		require.NoError(t, err)
	}
	require.NoError(t, p.Validate())
	require.NoError(t, p.Commit())
	return p
}

func TestGormPurchaseRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormPurchaseRepository(db)

	nail := seedProduct(t, db, "Nail", "hardware")
	screw := seedProduct(t, db, "Screw", "hardware")

	purchase := newCommittedPurchase(t,
		trade.PurchaseLine{ProductID: screw.ID, Quantity: 10, Value: decimal.RequireFromString("2.50")},
		trade.PurchaseLine{ProductID: nail.ID, Quantity: 100, Value: decimal.RequireFromString("1")},
		trade.PurchaseLine{ProductID: screw.ID, Quantity: 5, Value: decimal.RequireFromString("1.25")},
	)
	require.NoError(t, repo.Create(ctx, purchase))

	t.Run("rejects purchases that are not committed", func(t *testing.T) {
		draft := trade.NewPurchase()
		_, err := draft.AddLine(nail.ID, 1, decimal.NewFromInt(1))
		require.NoError(t, err)
		require.NoError(t, draft.Validate())

		err = repo.Create(ctx, draft)
		assert.ErrorIs(t, err, shared.ErrConflict)
		_, err = repo.FindByID(ctx, draft.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lines come back in submission order", func(t *testing.T) {
		found, err := repo.FindByID(ctx, purchase.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.PurchaseStatusCommitted, found.Status)
		require.Len(t, found.Lines, 3)
		assert.Equal(t, screw.ID, found.Lines[0].ProductID)
		assert.Equal(t, nail.ID, found.Lines[1].ProductID)
		assert.Equal(t, int64(5), found.Lines[2].Quantity)
		assert.Equal(t, int64(115), found.TotalQuantity())
	})

	t.Run("page", func(t *testing.T) {
		second := newCommittedPurchase(t, trade.PurchaseLine{ProductID: nail.ID, Quantity: 1, Value: decimal.NewFromInt(1)})
		require.NoError(t, repo.Create(ctx, second))

		page, total, err := repo.FindPage(ctx, shared.PageRequest{Page: 1, PerPage: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, page, 2)
		assert.Equal(t, purchase.ID, page[0].ID)
		assert.Len(t, page[0].Lines, 3)
	})

	t.Run("delete removes lines and header", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, purchase.ID))

		_, err := repo.FindByID(ctx, purchase.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var orphans int64
		require.NoError(t, db.Model(&models.PurchaseLineModel{}).Where("purchase_id = ?", purchase.ID).Count(&orphans).Error)
		assert.Zero(t, orphans)
	})

	t.Run("delete of a missing purchase", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}

func TestGormTransactionScope_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	product := seedProduct(t, db, "Glue", "hardware")
	scope := NewGormTransactionScope(db)

	purchase := newCommittedPurchase(t, trade.PurchaseLine{ProductID: product.ID, Quantity: 4, Value: decimal.NewFromInt(8)})
	boom := shared.NewConflictError("stop")

	err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		inv := repos.InventoryRepo()
		if err := inv.Adjust(ctx, product.ID, purchase.Lines[0].Delta()); err != nil {
			return err
		}
		if err := repos.PurchaseRepo().Create(ctx, purchase); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	inv, err := NewGormInventoryRepository(db).FindByProductID(ctx, product.ID)
	require.NoError(t, err)
	assert.Zero(t, inv.Quantity)

	_, err = NewGormPurchaseRepository(db).FindByID(ctx, purchase.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var count int64
	require.NoError(t, db.Session(&gorm.Session{}).Model(&models.PurchaseModel{}).Count(&count).Error)
	assert.Zero(t, count)
}
