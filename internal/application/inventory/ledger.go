package inventory

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/erp/purchasing/internal/domain/inventory"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
)

// Ledger owns per-product quantity and value. It applies signed deltas and
// enforces no bounds; callers decide what a valid result is.
type Ledger struct {
	repo inventory.InventoryRepository
}

// NewLedger binds a ledger to a (usually transaction scoped) repository
func NewLedger(repo inventory.InventoryRepository) *Ledger {
	return &Ledger{repo: repo}
}

// Get returns the inventory of a product. A missing row means the product does not exist.
func (l *Ledger) Get(ctx context.Context, productID uuid.UUID) (*inventory.Inventory, error) {
	inv, err := l.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, notFoundAsProduct(err, productID)
	}
	return inv, nil
}

// Lock takes row locks on the inventories of all given products and returns
// their current state. Rows are locked in a fixed order so that concurrent
// purchases touching the same products cannot deadlock.
func (l *Ledger) Lock(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*inventory.Inventory, error) {
	ids := uniqueSorted(productIDs)
	locked := make(map[uuid.UUID]*inventory.Inventory, len(ids))
	for _, id := range ids {
		inv, err := l.repo.FindByProductIDForUpdate(ctx, id)
		if err != nil {
			return nil, notFoundAsProduct(err, id)
		}
		locked[id] = inv
	}
	return locked, nil
}

// Adjust applies delta to the inventory of productID in place
func (l *Ledger) Adjust(ctx context.Context, productID uuid.UUID, delta inventory.Delta) error {
	if err := l.repo.Adjust(ctx, productID, delta); err != nil {
		return notFoundAsProduct(err, productID)
	}
	return nil
}

func notFoundAsProduct(err error, productID uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("product id %s not found", productID)
	}
	return err
}

func uniqueSorted(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
