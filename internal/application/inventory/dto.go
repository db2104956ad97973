package inventory

import (
	"time"

	"github.com/erp/purchasing/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryResponse represents a product's inventory in API responses
type InventoryResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Value     decimal.Decimal `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToInventoryResponse converts a domain Inventory to InventoryResponse
func ToInventoryResponse(inv *inventory.Inventory) InventoryResponse {
	return InventoryResponse{
		ProductID: inv.ProductID,
		Quantity:  inv.Quantity,
		Value:     inv.Value,
		UpdatedAt: inv.UpdatedAt,
	}
}
