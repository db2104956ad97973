package persistence

import (
	"context"
	"time"

	"github.com/erp/purchasing/internal/domain/inventory"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/erp/purchasing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRepository implements InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByProductID finds the inventory record of a product
func (r *GormInventoryRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*inventory.Inventory, error) {
	var model models.InventoryModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Take(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProductIDForUpdate reads the record with SELECT ... FOR UPDATE.
// The lock only holds inside a transaction; sqlite drops the clause and
// serializes writers at the database level instead.
func (r *GormInventoryRepository) FindByProductIDForUpdate(ctx context.Context, productID uuid.UUID) (*inventory.Inventory, error) {
	var model models.InventoryModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		Take(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Create inserts a new inventory record
func (r *GormInventoryRepository) Create(ctx context.Context, inv *inventory.Inventory) error {
	return translateError(r.db.WithContext(ctx).Create(models.InventoryModelFromDomain(inv)).Error)
}

// Adjust applies the delta as quantity = quantity + ?, value = value + ?
// so concurrent adjustments never lose an update.
func (r *GormInventoryRepository) Adjust(ctx context.Context, productID uuid.UUID, delta inventory.Delta) error {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryModel{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta.Quantity),
			"value":      gorm.Expr("value + ?", delta.Value),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ inventory.InventoryRepository = (*GormInventoryRepository)(nil)
