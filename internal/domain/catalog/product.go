package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxProductNameLength = 200

// Product represents a sellable item in the catalog.
// CategoryID always references an existing category.
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  uuid.UUID

	// Category is populated by repositories on reads and is not persisted through Product
	Category *Category
}

// NewProduct creates a new product bound to a resolved category
func NewProduct(name, description string, price decimal.Decimal, categoryID uuid.UUID) (*Product, error) {
	p := &Product{BaseEntity: shared.NewBaseEntity()}
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	if err := p.SetCategory(categoryID); err != nil {
		return nil, err
	}
	p.SetDescription(description)
	return p, nil
}

// SetName updates the product name
func (p *Product) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewInvalidRequestError("product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxProductNameLength {
		return shared.NewInvalidRequestError("product name cannot exceed %d characters", maxProductNameLength)
	}
	p.Name = name
	p.Touch()
	return nil
}

// SetDescription updates the free-form description
func (p *Product) SetDescription(description string) {
	p.Description = description
	p.Touch()
}

// SetPrice updates the unit price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewInvalidRequestError("price cannot be negative")
	}
	p.Price = price
	p.Touch()
	return nil
}

// SetCategory moves the product into another category
func (p *Product) SetCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewInvalidRequestError("product must belong to a category")
	}
	if p.Category != nil && p.Category.ID != categoryID {
		p.Category = nil
	}
	p.CategoryID = categoryID
	p.Touch()
	return nil
}

// ProductPatch lists the fields a partial update may change. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *uuid.UUID
}

// IsEmpty reports whether the patch changes nothing
func (pp ProductPatch) IsEmpty() bool {
	return pp.Name == nil && pp.Description == nil && pp.Price == nil && pp.CategoryID == nil
}

// Apply runs the setter of every provided field. The product is left
// unchanged if any field is invalid.
func (p *Product) Apply(patch ProductPatch) error {
	next := *p
	if patch.Name != nil {
		if err := next.SetName(*patch.Name); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		next.SetDescription(*patch.Description)
	}
	if patch.Price != nil {
		if err := next.SetPrice(*patch.Price); err != nil {
			return err
		}
	}
	if patch.CategoryID != nil {
		if err := next.SetCategory(*patch.CategoryID); err != nil {
			return err
		}
	}
	*p = next
	return nil
}
