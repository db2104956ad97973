// Package validation checks raw request payloads before they reach the
// transactional services: field whitelists, required keys and the shape of
// purchase lines.
package validation

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/erp/purchasing/internal/domain/shared"
)

// Payload is a decoded JSON object whose values are decoded lazily per field
type Payload map[string]json.RawMessage

// DecodePayload parses a request body that must be a JSON object
func DecodePayload(body []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, shared.NewInvalidRequestError("request body must be a JSON object")
	}
	var p Payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, shared.NewInvalidRequestError("request body is not valid JSON")
	}
	if p == nil {
		p = Payload{}
	}
	return p, nil
}

// Keys returns the payload keys in sorted order
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present, including an explicit null
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// ValidateFields fails with INVALID_REQUEST when the payload carries keys outside allowed
func ValidateFields(p Payload, allowed []string) error {
	permitted := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		permitted[k] = struct{}{}
	}

	var unexpected []string
	for _, k := range p.Keys() {
		if _, ok := permitted[k]; !ok {
			unexpected = append(unexpected, k)
		}
	}
	if len(unexpected) == 0 {
		return nil
	}

	return shared.NewInvalidRequestError("unexpected keys: %s", strings.Join(unexpected, ", ")).
		WithDetail("allowed_keys", sortedCopy(allowed)).
		WithDetail("received_keys", p.Keys())
}

// RequireFields fails with INVALID_REQUEST when any of required is absent
func RequireFields(p Payload, required []string) error {
	var missing []string
	for _, k := range required {
		if !p.Has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)

	return shared.NewInvalidRequestError("missing required keys: %s", strings.Join(missing, ", ")).
		WithDetail("required_keys", sortedCopy(required)).
		WithDetail("received_keys", p.Keys())
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
