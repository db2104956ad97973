package trade

import (
	"github.com/erp/purchasing/internal/domain/inventory"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseStatus tracks a purchase through creation or deletion.
// Only Committed purchases are ever persisted.
type PurchaseStatus string

const (
	PurchaseStatusDraft     PurchaseStatus = "DRAFT"
	PurchaseStatusValidated PurchaseStatus = "VALIDATED"
	PurchaseStatusCommitted PurchaseStatus = "COMMITTED"
	PurchaseStatusReversed  PurchaseStatus = "REVERSED"
	PurchaseStatusDeleted   PurchaseStatus = "DELETED"
)

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	switch s {
	case PurchaseStatusDraft:
		return target == PurchaseStatusValidated
	case PurchaseStatusValidated:
		return target == PurchaseStatusCommitted
	case PurchaseStatusCommitted:
		return target == PurchaseStatusReversed
	case PurchaseStatusReversed:
		return target == PurchaseStatusDeleted
	case PurchaseStatusDeleted:
		return false
	}
	return false
}

// PurchaseLine is one product/quantity/value entry of a purchase
type PurchaseLine struct {
	ID         uuid.UUID
	PurchaseID uuid.UUID
	ProductID  uuid.UUID
	Quantity   int64
	Value      decimal.Decimal
	// Position keeps submission order
	Position int
}

// Delta returns the inventory change this line causes when committed
func (l PurchaseLine) Delta() inventory.Delta {
	return inventory.Delta{Quantity: l.Quantity, Value: l.Value}
}

// Purchase is the aggregate root of a stock purchase. It owns its lines.
type Purchase struct {
	shared.BaseEntity
	Status PurchaseStatus
	Lines  []PurchaseLine
}

// NewPurchase starts an empty draft purchase
func NewPurchase() *Purchase {
	return &Purchase{
		BaseEntity: shared.NewBaseEntity(),
		Status:     PurchaseStatusDraft,
		Lines:      make([]PurchaseLine, 0),
	}
}

// AddLine appends a line to a draft purchase
func (p *Purchase) AddLine(productID uuid.UUID, quantity int64, value decimal.Decimal) (*PurchaseLine, error) {
	if p.Status != PurchaseStatusDraft {
		return nil, shared.NewConflictError("cannot add lines to a %s purchase", p.Status)
	}
	if productID == uuid.Nil {
		return nil, shared.NewInvalidRequestError("product id cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewInvalidRequestError("quantity must be positive")
	}
	if value.IsNegative() {
		return nil, shared.NewInvalidRequestError("value cannot be negative")
	}

	p.Lines = append(p.Lines, PurchaseLine{
		ID:         uuid.New(),
		PurchaseID: p.ID,
		ProductID:  productID,
		Quantity:   quantity,
		Value:      value,
		Position:   len(p.Lines),
	})
	return &p.Lines[len(p.Lines)-1], nil
}

// Validate moves a draft with at least one line to Validated
func (p *Purchase) Validate() error {
	if len(p.Lines) == 0 {
		return shared.NewInvalidRequestError("purchase must contain at least one product")
	}
	return p.transition(PurchaseStatusValidated)
}

// Commit marks the purchase as durably applied to inventory
func (p *Purchase) Commit() error {
	return p.transition(PurchaseStatusCommitted)
}

// Reverse returns, in line order, the deltas that undo this purchase's inventory effect
func (p *Purchase) Reverse() ([]ReversalEntry, error) {
	if err := p.transition(PurchaseStatusReversed); err != nil {
		return nil, err
	}
	entries := make([]ReversalEntry, 0, len(p.Lines))
	for _, line := range p.Lines {
		entries = append(entries, ReversalEntry{ProductID: line.ProductID, Delta: line.Delta().Negate()})
	}
	return entries, nil
}

// MarkDeleted closes the lifecycle of a reversed purchase
func (p *Purchase) MarkDeleted() error {
	return p.transition(PurchaseStatusDeleted)
}

// ReversalEntry is the inventory change that undoes one purchase line
type ReversalEntry struct {
	ProductID uuid.UUID
	Delta     inventory.Delta
}

// TotalQuantity sums quantities across lines
func (p *Purchase) TotalQuantity() int64 {
	var total int64
	for _, line := range p.Lines {
		total += line.Quantity
	}
	return total
}

// TotalValue sums values across lines
func (p *Purchase) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(line.Value)
	}
	return total
}

func (p *Purchase) transition(target PurchaseStatus) error {
	if !p.Status.CanTransitionTo(target) {
		return shared.NewConflictError("purchase cannot move from %s to %s", p.Status, target)
	}
	p.Status = target
	p.Touch()
	return nil
}
