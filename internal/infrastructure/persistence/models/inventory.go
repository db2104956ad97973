package models

import (
	"github.com/erp/purchasing/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryModel is the persistence model for inventory.Inventory.
// There is exactly one row per product.
type InventoryModel struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventories_product"`
	Quantity  int64           `gorm:"not null;default:0"`
	Value     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryModel) TableName() string {
	return "inventories"
}

// ToDomain converts the persistence model to a domain Inventory
func (m *InventoryModel) ToDomain() *inventory.Inventory {
	return &inventory.Inventory{
		BaseEntity: m.BaseModel.entity(),
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		Value:      m.Value,
	}
}

// FromDomain populates the persistence model from a domain Inventory
func (m *InventoryModel) FromDomain(inv *inventory.Inventory) {
	m.BaseModel = baseFrom(inv.BaseEntity)
	m.ProductID = inv.ProductID
	m.Quantity = inv.Quantity
	m.Value = inv.Value
}

// InventoryModelFromDomain creates a new persistence model from a domain Inventory
func InventoryModelFromDomain(inv *inventory.Inventory) *InventoryModel {
	m := &InventoryModel{}
	m.FromDomain(inv)
	return m
}
