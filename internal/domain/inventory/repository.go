package inventory

import (
	"context"

	"github.com/google/uuid"
)

// InventoryRepository defines the interface for inventory persistence
type InventoryRepository interface {
	// FindByProductID finds the inventory record of a product
	FindByProductID(ctx context.Context, productID uuid.UUID) (*Inventory, error)

	// FindByProductIDForUpdate finds the inventory record and locks the row until the transaction ends
	FindByProductIDForUpdate(ctx context.Context, productID uuid.UUID) (*Inventory, error)

	// Create inserts a new inventory record
	Create(ctx context.Context, inv *Inventory) error

	// Adjust adds the signed delta to quantity and value in a single statement
	Adjust(ctx context.Context, productID uuid.UUID, delta Delta) error
}
