package identity

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByEmail finds a customer by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// Create inserts a new customer; a taken email is a CONFLICT
	Create(ctx context.Context, customer *Customer) error

	// Update persists changes to an existing customer
	Update(ctx context.Context, customer *Customer) error
}
