package catalog

import (
	"encoding/json"
	"sort"

	"github.com/erp/purchasing/internal/application/validation"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// productInput collects the decoded product fields of a request
type productInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
}

type productFieldSetter func(raw json.RawMessage, in *productInput) error

// productFieldSetters is the product field whitelist. Every permitted key has
// exactly one typed decoder, so the whitelist and the update code can't drift.
var productFieldSetters = map[string]productFieldSetter{
	"name": func(raw json.RawMessage, in *productInput) error {
		s, err := decodeString(raw, "name")
		in.Name = s
		return err
	},
	"description": func(raw json.RawMessage, in *productInput) error {
		s, err := decodeString(raw, "description")
		in.Description = s
		return err
	},
	"category": func(raw json.RawMessage, in *productInput) error {
		s, err := decodeString(raw, "category")
		in.Category = s
		return err
	},
	"price": func(raw json.RawMessage, in *productInput) error {
		var d *decimal.Decimal
		if err := json.Unmarshal(raw, &d); err != nil || d == nil {
			return shared.NewInvalidRequestError("price must be a number")
		}
		in.Price = d
		return nil
	},
}

// ProductFields returns the keys accepted by product create and patch
func ProductFields() []string {
	keys := make([]string, 0, len(productFieldSetters))
	for k := range productFieldSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeProductInput whitelists the payload and decodes each present field
func decodeProductInput(p validation.Payload) (productInput, error) {
	var in productInput
	if err := validation.ValidateFields(p, ProductFields()); err != nil {
		return in, err
	}
	for _, key := range p.Keys() {
		if err := productFieldSetters[key](p[key], &in); err != nil {
			return productInput{}, err
		}
	}
	return in, nil
}

func decodeString(raw json.RawMessage, field string) (*string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return nil, shared.NewInvalidRequestError("%s must be a string", field)
	}
	return s, nil
}
