package identity

import (
	"context"
	"errors"

	"github.com/erp/purchasing/internal/domain/identity"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Principal is the authenticated caller of a request
type Principal struct {
	CustomerID uuid.UUID
}

// IsAnonymous reports whether the request carried no identity
func (p Principal) IsAnonymous() bool {
	return p.CustomerID == uuid.Nil
}

// Guard decides whether a caller may run employee-only operations
type Guard interface {
	AuthorizeWrite(ctx context.Context, principal Principal) error
}

// AccessGuard checks callers against the registered employees. It never mutates state.
type AccessGuard struct {
	customers identity.CustomerRepository
	logger    *zap.Logger
}

// NewAccessGuard creates a new access guard
func NewAccessGuard(customers identity.CustomerRepository, logger *zap.Logger) *AccessGuard {
	return &AccessGuard{customers: customers, logger: logger}
}

// AuthorizeWrite fails with ErrForbidden unless principal is a registered employee.
// Purchase reads use it as well.
func (g *AccessGuard) AuthorizeWrite(ctx context.Context, principal Principal) error {
	if principal.IsAnonymous() {
		return shared.ErrForbidden
	}

	customer, err := g.customers.FindByID(ctx, principal.CustomerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			g.logger.Warn("Token subject is not a registered customer",
				zap.String("customer_id", principal.CustomerID.String()))
			return shared.ErrForbidden
		}
		return err
	}

	if !customer.IsEmployee() {
		g.logger.Info("Write denied for non-employee",
			zap.String("customer_id", principal.CustomerID.String()))
		return shared.ErrForbidden
	}
	return nil
}

var _ Guard = (*AccessGuard)(nil)
