package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase payload keys
const (
	PurchaseProductsKey = "products"
	LineProductIDKey    = "product_id"
	LineQuantityKey     = "quantity"
	LineValueKey        = "value"
)

var (
	purchaseKeys = []string{PurchaseProductsKey}
	lineKeys     = []string{LineProductIDKey, LineQuantityKey, LineValueKey}
)

// Messages returned for malformed purchase payloads
const (
	MsgProductsMissing = "request must contain a products list"
	MsgProductsNotList = "'products' field must be a list"
	MsgProductsEmpty   = "'products' list cannot be empty"
	MsgLineInvalid     = "product data either missing or invalid"
)

var lineValidator = validator.New(validator.WithRequiredStructEnabled())

// LineInput is one validated purchase line. ProductRef is the id as the
// client sent it; ProductID is uuid.Nil when that text is not a UUID, which
// can never match a stored product.
type LineInput struct {
	ProductID  uuid.UUID
	ProductRef string
	Quantity   int64
	Value      decimal.Decimal
}

type rawLine struct {
	ProductID json.RawMessage  `json:"product_id" validate:"required"`
	Quantity  *int64           `json:"quantity" validate:"required,gt=0"`
	Value     *decimal.Decimal `json:"value" validate:"-"`
}

// ParsePurchaseLines validates a purchase payload and returns its lines in submission order
func ParsePurchaseLines(p Payload) ([]LineInput, error) {
	raw, ok := p[PurchaseProductsKey]
	if !ok {
		return nil, shared.NewInvalidRequestError(MsgProductsMissing)
	}
	if err := ValidateFields(p, purchaseKeys); err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, shared.NewInvalidRequestError(MsgProductsNotList)
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, shared.NewInvalidRequestError(MsgProductsNotList)
	}
	if len(elements) == 0 {
		return nil, shared.NewInvalidRequestError(MsgProductsEmpty)
	}

	lines := make([]LineInput, 0, len(elements))
	for i, element := range elements {
		line, err := parseLine(element)
		if err != nil {
			return nil, shared.NewInvalidRequestError(MsgLineInvalid).WithDetail("index", i)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func parseLine(element json.RawMessage) (LineInput, error) {
	fields, err := DecodePayload(element)
	if err != nil {
		return LineInput{}, err
	}
	if err := RequireFields(fields, lineKeys); err != nil {
		return LineInput{}, err
	}
	if err := ValidateFields(fields, lineKeys); err != nil {
		return LineInput{}, err
	}

	var rl rawLine
	if err := json.Unmarshal(element, &rl); err != nil {
		return LineInput{}, err
	}
	if err := lineValidator.Struct(rl); err != nil {
		return LineInput{}, err
	}
	if rl.Value == nil || rl.Value.IsNegative() {
		return LineInput{}, shared.NewInvalidRequestError("value must be a non-negative number")
	}

	ref, err := productRef(rl.ProductID)
	if err != nil {
		return LineInput{}, err
	}
	// existence is decided against the catalog, so an id that is not a UUID
	// passes here and is reported as not found
	productID, err := uuid.Parse(ref)
	if err != nil {
		productID = uuid.Nil
	}

	return LineInput{
		ProductID:  productID,
		ProductRef: ref,
		Quantity:   *rl.Quantity,
		Value:      *rl.Value,
	}, nil
}

// productRef accepts a JSON string or number and returns its text
func productRef(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", errors.New("product_id is required")
	}
	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		if s == "" {
			return "", errors.New("product_id is empty")
		}
		return s, nil
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("product_id must be a string or number, got %s", raw)
	}
}
