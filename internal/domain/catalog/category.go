package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/erp/purchasing/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxCategoryNameLength = 100

// Category groups products. Names are stored lowercased and are unique.
type Category struct {
	shared.BaseEntity
	Name string
}

// NormalizeCategoryName folds a user supplied category name into the form
// used for storage and lookup.
func NormalizeCategoryName(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// NewCategory creates a new category with a normalized name
func NewCategory(name string) (*Category, error) {
	normalized := NormalizeCategoryName(name)
	if err := validateCategoryName(normalized); err != nil {
		return nil, err
	}

	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       normalized,
	}, nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewInvalidRequestError("category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return shared.NewInvalidRequestError("category name cannot exceed %d characters", maxCategoryNameLength)
	}
	return nil
}
