package validation

import (
	"errors"
	"testing"

	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	t.Run("decodes object", func(t *testing.T) {
		p, err := DecodePayload([]byte(` {"name": "x", "price": 1} `))
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "price"}, p.Keys())
		assert.True(t, p.Has("name"))
		assert.False(t, p.Has("category"))
	})

	for _, body := range []string{``, `[]`, `"abc"`, `null`, `{"name":`} {
		t.Run("rejects "+body, func(t *testing.T) {
			_, err := DecodePayload([]byte(body))
			assert.True(t, errors.Is(err, shared.ErrInvalidRequest))
		})
	}
}

func TestValidateFields(t *testing.T) {
	allowed := []string{"name", "category", "description", "price"}

	t.Run("accepts subset", func(t *testing.T) {
		p, _ := DecodePayload([]byte(`{"name": "x"}`))
		assert.NoError(t, ValidateFields(p, allowed))
	})

	t.Run("rejects extra keys", func(t *testing.T) {
		p, _ := DecodePayload([]byte(`{"name": "x", "stock": 3, "id": 1}`))
		err := ValidateFields(p, allowed)
		require.Error(t, err)

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, shared.CodeInvalidRequest, de.Code)
		assert.Equal(t, "unexpected keys: id, stock", de.Message)
		assert.Equal(t, []string{"category", "description", "name", "price"}, de.Details["allowed_keys"])
	})
}

func TestRequireFields(t *testing.T) {
	p, _ := DecodePayload([]byte(`{"name": "x", "price": 2}`))
	err := RequireFields(p, []string{"name", "category", "description", "price"})
	require.Error(t, err)

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "missing required keys: category, description", de.Message)
	assert.Equal(t, []string{"category", "description", "name", "price"}, de.Details["required_keys"])
	assert.Equal(t, []string{"name", "price"}, de.Details["received_keys"])

	assert.NoError(t, RequireFields(p, []string{"name"}))
}
