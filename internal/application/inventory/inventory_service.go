package inventory

import (
	"context"

	appidentity "github.com/erp/purchasing/internal/application/identity"
	"github.com/erp/purchasing/internal/domain/inventory"
	"github.com/google/uuid"
)

// InventoryService exposes ledger reads to employees
type InventoryService struct {
	repo  inventory.InventoryRepository
	guard appidentity.Guard
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(repo inventory.InventoryRepository, guard appidentity.Guard) *InventoryService {
	return &InventoryService{repo: repo, guard: guard}
}

// GetByProduct returns the current inventory of a product
func (s *InventoryService) GetByProduct(ctx context.Context, principal appidentity.Principal, productID uuid.UUID) (*InventoryResponse, error) {
	if err := s.guard.AuthorizeWrite(ctx, principal); err != nil {
		return nil, err
	}
	inv, err := NewLedger(s.repo).Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := ToInventoryResponse(inv)
	return &resp, nil
}
