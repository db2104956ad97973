package trade

import (
	"context"

	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	// FindByID finds a purchase by its ID with lines in submission order
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindPage returns one page of purchases ordered by creation time, plus the total count
	FindPage(ctx context.Context, req shared.PageRequest) ([]Purchase, int64, error)

	// Create inserts a purchase together with all of its lines
	Create(ctx context.Context, purchase *Purchase) error

	// Delete removes the lines of a purchase and then the purchase itself
	Delete(ctx context.Context, id uuid.UUID) error
}
