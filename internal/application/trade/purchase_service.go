package trade

import (
	"context"
	"errors"

	appidentity "github.com/erp/purchasing/internal/application/identity"
	appinventory "github.com/erp/purchasing/internal/application/inventory"
	"github.com/erp/purchasing/internal/application/validation"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/erp/purchasing/internal/domain/trade"
	"github.com/erp/purchasing/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreatePurchaseCommand carries a raw purchase request
type CreatePurchaseCommand struct {
	Principal appidentity.Principal
	Payload   validation.Payload
	// IdempotencyKey is optional; when set, a repeat within the TTL is rejected
	IdempotencyKey string
}

// PurchaseService applies purchases to inventory. Every create or delete runs
// as one unit of work: the purchase, its lines and all inventory changes are
// committed together or not at all.
type PurchaseService struct {
	scope       appinventory.TransactionScope
	purchases   trade.PurchaseRepository
	guard       appidentity.Guard
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	metrics     PurchaseMetrics
	logger      *zap.Logger
}

// PurchaseServiceOption configures optional collaborators
type PurchaseServiceOption func(*PurchaseService)

// WithIdempotencyStore enables Idempotency-Key handling on create
func WithIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) PurchaseServiceOption {
	return func(s *PurchaseService) {
		s.idempotency = store
		s.idemConfig = cfg
	}
}

// WithPurchaseMetrics sets the metrics recorder
func WithPurchaseMetrics(m PurchaseMetrics) PurchaseServiceOption {
	return func(s *PurchaseService) {
		s.metrics = m
	}
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	scope appinventory.TransactionScope,
	purchases trade.PurchaseRepository,
	guard appidentity.Guard,
	logger *zap.Logger,
	opts ...PurchaseServiceOption,
) *PurchaseService {
	s := &PurchaseService{
		scope:     scope,
		purchases: purchases,
		guard:     guard,
		metrics:   NoopPurchaseMetrics{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and applies a multi-line purchase
func (s *PurchaseService) Create(ctx context.Context, cmd CreatePurchaseCommand) (*PurchaseResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "purchase.create")
	defer span.End()

	purchase, err := s.create(ctx, cmd)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordPurchaseRejected(ctx, "create", errorCode(err))
		return nil, err
	}

	telemetry.SetAttributes(span, "purchase.id", purchase.ID.String(), "purchase.lines", len(purchase.Lines))
	s.metrics.RecordPurchaseCreated(ctx, len(purchase.Lines), purchase.TotalQuantity(), purchase.TotalValue())
	s.logger.Info("Purchase created",
		zap.String("purchase_id", purchase.ID.String()),
		zap.Int("lines", len(purchase.Lines)),
		zap.String("total_value", purchase.TotalValue().String()))

	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

func (s *PurchaseService) create(ctx context.Context, cmd CreatePurchaseCommand) (*trade.Purchase, error) {
	if err := s.guard.AuthorizeWrite(ctx, cmd.Principal); err != nil {
		return nil, err
	}
	lines, err := validation.ParsePurchaseLines(cmd.Payload)
	if err != nil {
		return nil, err
	}

	release, err := s.reserveKey(ctx, cmd.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var purchase *trade.Purchase
	err = s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		purchase = trade.NewPurchase()
		productIDs := make([]uuid.UUID, 0, len(lines))
		for _, in := range lines {
			if in.ProductID == uuid.Nil {
				return shared.NewNotFoundError("product id %s not found", in.ProductRef)
			}
			exists, err := repos.ProductRepo().ExistsByID(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if !exists {
				return shared.NewNotFoundError("product id %s not found", in.ProductRef)
			}
			if _, err := purchase.AddLine(in.ProductID, in.Quantity, in.Value); err != nil {
				return err
			}
			productIDs = append(productIDs, in.ProductID)
		}
		if err := purchase.Validate(); err != nil {
			return err
		}

		ledger := appinventory.NewLedger(repos.InventoryRepo())
		if _, err := ledger.Lock(ctx, productIDs); err != nil {
			return err
		}
		for _, line := range purchase.Lines {
			if err := ledger.Adjust(ctx, line.ProductID, line.Delta()); err != nil {
				return err
			}
		}

		// stored as committed; a failed insert rolls the adjustments back
		if err := purchase.Commit(); err != nil {
			return err
		}
		return repos.PurchaseRepo().Create(ctx, purchase)
	})
	if err != nil {
		release()
		return nil, err
	}
	return purchase, nil
}

// reserveKey claims an idempotency key. The returned func frees it again and
// is a no-op when idempotency is disabled or no key was sent.
func (s *PurchaseService) reserveKey(ctx context.Context, key string) (func(), error) {
	noop := func() {}
	if key == "" || s.idempotency == nil || !s.idemConfig.Enabled {
		return noop, nil
	}

	storeKey := "purchase:create:" + key
	fresh, err := s.idempotency.Reserve(ctx, storeKey, s.idemConfig.TTL)
	if err != nil {
		return nil, err
	}
	if !fresh {
		return nil, shared.NewConflictError("a request with idempotency key %q was already processed", key)
	}

	return func() {
		// the request context may already be cancelled
		if err := s.idempotency.Release(context.WithoutCancel(ctx), storeKey); err != nil {
			s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// Delete reverses a purchase's inventory effect and removes it with its lines
func (s *PurchaseService) Delete(ctx context.Context, principal appidentity.Principal, id uuid.UUID) error {
	ctx, span := telemetry.StartSpan(ctx, "purchase.delete", telemetry.WithAttribute("purchase.id", id.String()))
	defer span.End()

	if err := s.guard.AuthorizeWrite(ctx, principal); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	var purchase *trade.Purchase
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		purchase, err = repos.PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			return purchaseNotFound(err, id)
		}

		entries, err := purchase.Reverse()
		if err != nil {
			return err
		}

		productIDs := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			productIDs[i] = e.ProductID
		}
		ledger := appinventory.NewLedger(repos.InventoryRepo())
		snapshots, err := ledger.Lock(ctx, productIDs)
		if err != nil {
			return err
		}

		for _, e := range entries {
			inv := snapshots[e.ProductID]
			if !inv.Allows(e.Delta) {
				return shared.NewConflictError("deleting purchase %s would make inventory of product %s negative", id, e.ProductID)
			}
			inv.Apply(e.Delta)
			if err := ledger.Adjust(ctx, e.ProductID, e.Delta); err != nil {
				return err
			}
		}

		if err := repos.PurchaseRepo().Delete(ctx, id); err != nil {
			return err
		}
		return purchase.MarkDeleted()
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordPurchaseRejected(ctx, "delete", errorCode(err))
		return err
	}

	s.metrics.RecordPurchaseDeleted(ctx, len(purchase.Lines), purchase.TotalQuantity(), purchase.TotalValue())
	s.logger.Info("Purchase deleted", zap.String("purchase_id", id.String()))
	return nil
}

// GetByID returns a single purchase. Purchase reads are employee-only.
func (s *PurchaseService) GetByID(ctx context.Context, principal appidentity.Principal, id uuid.UUID) (*PurchaseResponse, error) {
	if err := s.guard.AuthorizeWrite(ctx, principal); err != nil {
		return nil, err
	}
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, purchaseNotFound(err, id)
	}
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// List returns one page of purchases. Purchase reads are employee-only.
func (s *PurchaseService) List(ctx context.Context, principal appidentity.Principal, req shared.PageRequest) (*shared.Paginated[PurchaseResponse], error) {
	if err := s.guard.AuthorizeWrite(ctx, principal); err != nil {
		return nil, err
	}
	page, err := shared.Paginate(ctx, req, s.purchases.FindPage)
	if err != nil {
		return nil, err
	}
	return &shared.Paginated[PurchaseResponse]{
		Items:      ToPurchaseResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
	}, nil
}

func purchaseNotFound(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("purchase id %s not found", id)
	}
	return err
}

func errorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return shared.CodeInternal
}
