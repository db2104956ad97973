package catalog

import (
	"context"
	"errors"

	appidentity "github.com/erp/purchasing/internal/application/identity"
	appinventory "github.com/erp/purchasing/internal/application/inventory"
	"github.com/erp/purchasing/internal/application/validation"
	"github.com/erp/purchasing/internal/domain/catalog"
	"github.com/erp/purchasing/internal/domain/inventory"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/erp/purchasing/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product reads and writes
type ProductService struct {
	scope    appinventory.TransactionScope
	products catalog.ProductRepository
	guard    appidentity.Guard
	resolver *CategoryResolver
	logger   *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	scope appinventory.TransactionScope,
	products catalog.ProductRepository,
	guard appidentity.Guard,
	resolver *CategoryResolver,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		scope:    scope,
		products: products,
		guard:    guard,
		resolver: resolver,
		logger:   logger,
	}
}

// Create registers a product in its (possibly new) category and opens a zeroed
// inventory record for it, all in one unit of work.
func (s *ProductService) Create(ctx context.Context, principal appidentity.Principal, payload validation.Payload) (*ProductResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "product.create")
	defer span.End()

	if err := s.guard.AuthorizeWrite(ctx, principal); err != nil {
		return nil, err
	}
	if err := validation.RequireFields(payload, ProductFields()); err != nil {
		return nil, err
	}
	in, err := decodeProductInput(payload)
	if err != nil {
		return nil, err
	}

	var product *catalog.Product
	err = s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		category, err := s.resolver.Resolve(ctx, repos.CategoryRepo(), *in.Category)
		if err != nil {
			return err
		}

		product, err = catalog.NewProduct(*in.Name, *in.Description, *in.Price, category.ID)
		if err != nil {
			return err
		}
		if err := repos.ProductRepo().Create(ctx, product); err != nil {
			return err
		}

		inv, err := inventory.NewInventory(product.ID)
		if err != nil {
			return err
		}
		if err := repos.InventoryRepo().Create(ctx, inv); err != nil {
			return err
		}

		product.Category = category
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("category", product.Category.Name))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Patch updates only the provided fields of a product. A new category name is
// resolved, and created if needed, before the product is moved into it.
func (s *ProductService) Patch(ctx context.Context, principal appidentity.Principal, id uuid.UUID, payload validation.Payload) (*ProductResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "product.patch")
	defer span.End()

	if err := s.guard.AuthorizeWrite(ctx, principal); err != nil {
		return nil, err
	}

	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByID(ctx, id)
		if err != nil {
			return productNotFound(err, id)
		}
		// the payload is only checked once the product is known to exist
		in, err := decodeProductInput(payload)
		if err != nil {
			return err
		}

		patch := catalog.ProductPatch{
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
		}
		var category *catalog.Category
		if in.Category != nil {
			category, err = s.resolver.Resolve(ctx, repos.CategoryRepo(), *in.Category)
			if err != nil {
				return err
			}
			patch.CategoryID = &category.ID
		}
		if patch.IsEmpty() {
			return nil
		}

		if err := product.Apply(patch); err != nil {
			return err
		}
		if err := repos.ProductRepo().Update(ctx, product); err != nil {
			return err
		}
		if category != nil {
			product.Category = category
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID returns a single product. Product reads are public.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, productNotFound(err, id)
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns one page of products ordered by creation time
func (s *ProductService) List(ctx context.Context, req shared.PageRequest) (*shared.Paginated[ProductResponse], error) {
	page, err := shared.Paginate(ctx, req, s.products.FindPage)
	if err != nil {
		return nil, err
	}
	return &shared.Paginated[ProductResponse]{
		Items:      ToProductResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
	}, nil
}

func productNotFound(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("product id %s not found", id)
	}
	return err
}
