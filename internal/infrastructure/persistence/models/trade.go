package models

import (
	"time"

	"github.com/erp/purchasing/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseModel is the persistence model for trade.Purchase
type PurchaseModel struct {
	BaseModel
	Status string              `gorm:"type:varchar(20);not null"`
	Lines  []PurchaseLineModel `gorm:"foreignKey:PurchaseID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the persistence model to a domain Purchase
func (m *PurchaseModel) ToDomain() *trade.Purchase {
	p := &trade.Purchase{
		BaseEntity: m.BaseModel.entity(),
		Status:     trade.PurchaseStatus(m.Status),
		Lines:      make([]trade.PurchaseLine, len(m.Lines)),
	}
	for i := range m.Lines {
		p.Lines[i] = m.Lines[i].ToDomain()
	}
	return p
}

// FromDomain populates the persistence model and its lines from a domain Purchase
func (m *PurchaseModel) FromDomain(p *trade.Purchase) {
	m.BaseModel = baseFrom(p.BaseEntity)
	m.Status = string(p.Status)
	m.Lines = make([]PurchaseLineModel, len(p.Lines))
	for i := range p.Lines {
		m.Lines[i].FromDomain(p.Lines[i], p.CreatedAt)
	}
}

// PurchaseModelFromDomain creates a new persistence model from a domain Purchase
func PurchaseModelFromDomain(p *trade.Purchase) *PurchaseModel {
	m := &PurchaseModel{}
	m.FromDomain(p)
	return m
}

// PurchaseLineModel is the persistence model for trade.PurchaseLine
type PurchaseLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index:idx_purchase_lines_purchase_position,priority:1"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int64           `gorm:"not null"`
	Value      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Position   int             `gorm:"not null;index:idx_purchase_lines_purchase_position,priority:2"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseLineModel) TableName() string {
	return "purchase_lines"
}

// ToDomain converts the persistence model to a domain PurchaseLine
func (m *PurchaseLineModel) ToDomain() trade.PurchaseLine {
	return trade.PurchaseLine{
		ID:         m.ID,
		PurchaseID: m.PurchaseID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		Value:      m.Value,
		Position:   m.Position,
	}
}

// FromDomain populates the persistence model from a domain PurchaseLine
func (m *PurchaseLineModel) FromDomain(l trade.PurchaseLine, createdAt time.Time) {
	m.ID = l.ID
	m.PurchaseID = l.PurchaseID
	m.ProductID = l.ProductID
	m.Quantity = l.Quantity
	m.Value = l.Value
	m.Position = l.Position
	m.CreatedAt = createdAt
}

