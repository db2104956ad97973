package catalog

import (
	"context"

	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByName finds a category by its normalized name
	FindByName(ctx context.Context, name string) (*Category, error)

	// CreateIfAbsent inserts the category unless one with the same name exists.
	// Returns false when another row already holds the name.
	CreateIfAbsent(ctx context.Context, category *Category) (bool, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID, with its category loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// ExistsByID reports whether a product exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// FindPage returns one page of products ordered by creation time, plus the total count
	FindPage(ctx context.Context, req shared.PageRequest) ([]Product, int64, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Update persists changes to an existing product
	Update(ctx context.Context, product *Product) error
}
