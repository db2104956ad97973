package models

import (
	"time"

	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel is the id and timestamp columns every table shares. created_at is
// indexed because lists page by it.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func baseFrom(e shared.BaseEntity) BaseModel {
	return BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// All lists every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&CustomerModel{},
		&CategoryModel{},
		&ProductModel{},
		&InventoryModel{},
		&PurchaseModel{},
		&PurchaseLineModel{},
	}
}
