package catalog

import (
	"context"
	"errors"
	"testing"

	appidentity "github.com/erp/purchasing/internal/application/identity"
	appinventory "github.com/erp/purchasing/internal/application/inventory"
	"github.com/erp/purchasing/internal/application/validation"
	"github.com/erp/purchasing/internal/domain/catalog"
	"github.com/erp/purchasing/internal/domain/inventory"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type productServiceFixture struct {
	products   *MockProductRepository
	categories *MockCategoryRepository
	inventory  *MockInventoryRepository
	guard      *MockGuard
	service    *ProductService
}

func newProductServiceFixture() *productServiceFixture {
	f := &productServiceFixture{
		products:   new(MockProductRepository),
		categories: new(MockCategoryRepository),
		inventory:  new(MockInventoryRepository),
		guard:      new(MockGuard),
	}
	scope := appinventory.NewNoOpTransactionScope(f.products, f.categories, f.inventory, nil)
	f.service = NewProductService(scope, f.products, f.guard, NewCategoryResolver(zap.NewNop()), zap.NewNop())
	return f
}

func payload(t *testing.T, body string) validation.Payload {
	t.Helper()
	p, err := validation.DecodePayload([]byte(body))
	require.NoError(t, err)
	return p
}

var employee = appidentity.Principal{CustomerID: uuid.New()}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	body := `{"name": "Hammer", "category": "Tools", "description": "claw", "price": 12.5}`

	t.Run("creates product with zeroed inventory", func(t *testing.T) {
		f := newProductServiceFixture()
		tools, _ := catalog.NewCategory("tools")
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)
		f.categories.On("FindByName", mock.Anything, "tools").Return(tools, nil)
		f.products.On("Create", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.Name == "Hammer" && p.CategoryID == tools.ID && p.Price.Equal(decimal.RequireFromString("12.5"))
		})).Return(nil)
		f.inventory.On("Create", mock.Anything, mock.MatchedBy(func(inv *inventory.Inventory) bool {
			return inv.Quantity == 0 && inv.Value.IsZero()
		})).Return(nil)

		resp, err := f.service.Create(ctx, employee, payload(t, body))
		require.NoError(t, err)
		assert.Equal(t, "Hammer", resp.Name)
		assert.Equal(t, tools.ID, resp.Category.ID)
		assert.Equal(t, "tools", resp.Category.Name)
		f.products.AssertExpectations(t)
		f.inventory.AssertExpectations(t)
	})

	t.Run("forbidden short-circuits", func(t *testing.T) {
		f := newProductServiceFixture()
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(shared.ErrForbidden)

		_, err := f.service.Create(ctx, employee, payload(t, body))
		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.categories.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
		f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing keys are reported", func(t *testing.T) {
		f := newProductServiceFixture()
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)

		_, err := f.service.Create(ctx, employee, payload(t, `{"name": "Hammer"}`))
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, shared.CodeInvalidRequest, de.Code)
		assert.Equal(t, []string{"category", "description", "name", "price"}, de.Details["required_keys"])
		assert.Equal(t, []string{"name"}, de.Details["received_keys"])
	})

	t.Run("extra keys are rejected", func(t *testing.T) {
		f := newProductServiceFixture()
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)

		_, err := f.service.Create(ctx, employee, payload(t,
			`{"name": "Hammer", "category": "Tools", "description": "claw", "price": 1, "stock": 5}`))
		assert.True(t, errors.Is(err, shared.ErrInvalidRequest))
	})

	t.Run("wrong field type", func(t *testing.T) {
		f := newProductServiceFixture()
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)

		_, err := f.service.Create(ctx, employee, payload(t,
			`{"name": 5, "category": "Tools", "description": "claw", "price": 1}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name must be a string")
	})

	t.Run("inventory failure aborts", func(t *testing.T) {
		f := newProductServiceFixture()
		tools, _ := catalog.NewCategory("tools")
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)
		f.categories.On("FindByName", mock.Anything, "tools").Return(tools, nil)
		f.products.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.inventory.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := f.service.Create(ctx, employee, payload(t, body))
		assert.EqualError(t, err, "disk full")
	})
}

func TestProductService_Patch(t *testing.T) {
	ctx := context.Background()

	newStored := func(t *testing.T) *catalog.Product {
		t.Helper()
		tools, _ := catalog.NewCategory("tools")
		p, err := catalog.NewProduct("Hammer", "claw", decimal.NewFromInt(10), tools.ID)
		require.NoError(t, err)
		p.Category = tools
		return p
	}

	t.Run("updates only provided fields", func(t *testing.T) {
		f := newProductServiceFixture()
		stored := newStored(t)
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)
		f.products.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
		f.products.On("Update", mock.Anything, stored).Return(nil)

		resp, err := f.service.Patch(ctx, employee, stored.ID, payload(t, `{"price": "15.00"}`))
		require.NoError(t, err)
		assert.Equal(t, "15", resp.Price.String())
		assert.Equal(t, "Hammer", resp.Name)
		assert.Equal(t, "claw", resp.Description)
		assert.Equal(t, "tools", resp.Category.Name)
		f.categories.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
	})

	t.Run("category rename resolves new category", func(t *testing.T) {
		f := newProductServiceFixture()
		stored := newStored(t)
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)
		f.products.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
		f.categories.On("FindByName", mock.Anything, "hardware").Return(nil, shared.ErrNotFound)
		f.categories.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(true, nil)
		f.products.On("Update", mock.Anything, stored).Return(nil)

		resp, err := f.service.Patch(ctx, employee, stored.ID, payload(t, `{"category": "Hardware"}`))
		require.NoError(t, err)
		assert.Equal(t, "hardware", resp.Category.Name)
		assert.Equal(t, resp.Category.ID, resp.CategoryID)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newProductServiceFixture()
		id := uuid.New()
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)
		f.products.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Patch(ctx, employee, id, payload(t, `{"name": "X"}`))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Equal(t, "product id "+id.String()+" not found", err.Error())
	})

	t.Run("non-whitelisted key", func(t *testing.T) {
		f := newProductServiceFixture()
		stored := newStored(t)
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)
		f.products.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

		_, err := f.service.Patch(ctx, employee, stored.ID, payload(t, `{"id": "x"}`))
		assert.True(t, errors.Is(err, shared.ErrInvalidRequest))
		f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown product wins over a bad key", func(t *testing.T) {
		f := newProductServiceFixture()
		id := uuid.New()
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)
		f.products.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Patch(ctx, employee, id, payload(t, `{"sku": "x"}`))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("empty patch returns product unchanged", func(t *testing.T) {
		f := newProductServiceFixture()
		stored := newStored(t)
		f.guard.On("AuthorizeWrite", mock.Anything, employee).Return(nil)
		f.products.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

		resp, err := f.service.Patch(ctx, employee, stored.ID, payload(t, `{}`))
		require.NoError(t, err)
		assert.Equal(t, "Hammer", resp.Name)
		f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns page with metadata", func(t *testing.T) {
		f := newProductServiceFixture()
		req := shared.PageRequest{Page: 1, PerPage: 2}
		categoryID := uuid.New()
		a, _ := catalog.NewProduct("A", "", decimal.Zero, categoryID)
		b, _ := catalog.NewProduct("B", "", decimal.Zero, categoryID)
		f.products.On("FindPage", mock.Anything, req).Return([]catalog.Product{*a, *b}, int64(5), nil)

		page, err := f.service.List(ctx, req)
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, int64(5), page.Total)
	})

	t.Run("page beyond the end", func(t *testing.T) {
		f := newProductServiceFixture()
		req := shared.PageRequest{Page: 9, PerPage: 2}
		f.products.On("FindPage", mock.Anything, req).Return([]catalog.Product{}, int64(5), nil)

		_, err := f.service.List(ctx, req)
		assert.ErrorIs(t, err, shared.ErrPageNotFound)
	})
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()
	f := newProductServiceFixture()
	id := uuid.New()
	f.products.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.GetByID(ctx, id)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
