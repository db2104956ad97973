package inventory

import (
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventory is the live stock record of a single product. Every product has
// exactly one, created zeroed together with the product.
type Inventory struct {
	shared.BaseEntity
	ProductID uuid.UUID
	Quantity  int64
	// Value accumulates the value of all stock received
	Value decimal.Decimal
}

// NewInventory creates an empty inventory record for a product
func NewInventory(productID uuid.UUID) (*Inventory, error) {
	if productID == uuid.Nil {
		return nil, shared.NewInvalidRequestError("product ID cannot be empty")
	}
	return &Inventory{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Quantity:   0,
		Value:      decimal.Zero,
	}, nil
}

// Delta is a signed change to quantity and value
type Delta struct {
	Quantity int64
	Value    decimal.Decimal
}

// Negate returns the delta that exactly reverses d
func (d Delta) Negate() Delta {
	return Delta{Quantity: -d.Quantity, Value: d.Value.Neg()}
}

// Add sums two deltas
func (d Delta) Add(other Delta) Delta {
	return Delta{Quantity: d.Quantity + other.Quantity, Value: d.Value.Add(other.Value)}
}

// IsZero reports whether the delta changes nothing
func (d Delta) IsZero() bool {
	return d.Quantity == 0 && d.Value.IsZero()
}

// Apply changes quantity and value in place. No bounds are enforced here.
func (i *Inventory) Apply(d Delta) {
	i.Quantity += d.Quantity
	i.Value = i.Value.Add(d.Value)
	i.Touch()
}

// Allows reports whether applying d keeps the quantity non-negative
func (i *Inventory) Allows(d Delta) bool {
	return i.Quantity+d.Quantity >= 0
}
