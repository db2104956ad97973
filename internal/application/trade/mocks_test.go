package trade

import (
	"context"
	"time"

	appidentity "github.com/erp/purchasing/internal/application/identity"
	"github.com/erp/purchasing/internal/domain/catalog"
	"github.com/erp/purchasing/internal/domain/inventory"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/erp/purchasing/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) FindPage(ctx context.Context, req shared.PageRequest) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

// MockInventoryRepository is a mock implementation of inventory.InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*inventory.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) FindByProductIDForUpdate(ctx context.Context, productID uuid.UUID) (*inventory.Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) Create(ctx context.Context, inv *inventory.Inventory) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInventoryRepository) Adjust(ctx context.Context, productID uuid.UUID, delta inventory.Delta) error {
	return m.Called(ctx, productID, delta).Error(0)
}

// MockPurchaseRepository is a mock implementation of trade.PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindPage(ctx context.Context, req shared.PageRequest) ([]trade.Purchase, int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]trade.Purchase), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseRepository) Create(ctx context.Context, purchase *trade.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *MockPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockGuard is a mock implementation of appidentity.Guard
type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) AuthorizeWrite(ctx context.Context, principal appidentity.Principal) error {
	return m.Called(ctx, principal).Error(0)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// MockPurchaseMetrics is a mock implementation of PurchaseMetrics
type MockPurchaseMetrics struct {
	mock.Mock
}

func (m *MockPurchaseMetrics) RecordPurchaseCreated(ctx context.Context, lines int, quantity int64, value decimal.Decimal) {
	m.Called(ctx, lines, quantity, value.String())
}

func (m *MockPurchaseMetrics) RecordPurchaseDeleted(ctx context.Context, lines int, quantity int64, value decimal.Decimal) {
	m.Called(ctx, lines, quantity, value.String())
}

func (m *MockPurchaseMetrics) RecordPurchaseRejected(ctx context.Context, operation, code string) {
	m.Called(ctx, operation, code)
}
