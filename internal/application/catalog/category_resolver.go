package catalog

import (
	"context"
	"errors"

	"github.com/erp/purchasing/internal/domain/catalog"
	"github.com/erp/purchasing/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryResolver turns a user supplied category name into a stored category,
// creating it on first use.
type CategoryResolver struct {
	logger *zap.Logger
}

// NewCategoryResolver creates a new CategoryResolver
func NewCategoryResolver(logger *zap.Logger) *CategoryResolver {
	return &CategoryResolver{logger: logger}
}

// Resolve looks the category up by its lowercased name and creates it if absent.
// When a concurrent request creates the same name first, the insert is skipped
// and the winner's row is returned.
func (r *CategoryResolver) Resolve(ctx context.Context, repo catalog.CategoryRepository, name string) (*catalog.Category, error) {
	candidate, err := catalog.NewCategory(name)
	if err != nil {
		return nil, err
	}

	existing, err := repo.FindByName(ctx, candidate.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	created, err := repo.CreateIfAbsent(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if created {
		r.logger.Info("Category created", zap.String("category", candidate.Name))
		return candidate, nil
	}

	winner, err := repo.FindByName(ctx, candidate.Name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewConflictError("category %q is being created by another request", candidate.Name)
		}
		return nil, err
	}
	return winner, nil
}
