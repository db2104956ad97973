package persistence

import (
	"context"

	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/erp/purchasing/internal/domain/trade"
	"github.com/erp/purchasing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

func linesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds a purchase by its ID with lines in submission order
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var model models.PurchaseModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", linesInOrder).
		Where("id = ?", id).
		Take(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindPage returns one page of purchases, oldest first
func (r *GormPurchaseRepository) FindPage(ctx context.Context, req shared.PageRequest) ([]trade.Purchase, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PurchaseModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PurchaseModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", linesInOrder).
		Order("created_at ASC").
		Order("id ASC").
		Offset(req.Offset()).
		Limit(req.PerPage).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	purchases := make([]trade.Purchase, len(rows))
	for i := range rows {
		purchases[i] = *rows[i].ToDomain()
	}
	return purchases, total, nil
}

// Create inserts the purchase header and then its lines. Only committed
// purchases are stored, so a later delete can reverse them.
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *trade.Purchase) error {
	if purchase.Status != trade.PurchaseStatusCommitted {
		return shared.NewConflictError("cannot store a %s purchase", purchase.Status)
	}
	model := models.PurchaseModelFromDomain(purchase)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(err)
	}
	if len(model.Lines) == 0 {
		return nil
	}
	return translateError(db.Create(&model.Lines).Error)
}

// Delete removes the lines and then the purchase
func (r *GormPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("purchase_id = ?", id).Delete(&models.PurchaseLineModel{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&models.PurchaseModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
