package identity

import (
	"errors"
	"testing"

	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	passwordCost = bcrypt.MinCost
}

func TestNewCustomer(t *testing.T) {
	t.Run("creates non-employee with hashed password", func(t *testing.T) {
		c, err := NewCustomer("Ada", " Ada@Example.com ", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", c.Email)
		assert.False(t, c.IsEmployee())
		assert.NotEqual(t, "secret123", c.PasswordHash)
		assert.True(t, c.VerifyPassword("secret123"))
		assert.False(t, c.VerifyPassword("wrong1234"))
	})

	t.Run("employee constructor", func(t *testing.T) {
		c, err := NewEmployee("Bob", "bob@example.com", "secret123")
		require.NoError(t, err)
		assert.True(t, c.IsEmployee())
	})

	t.Run("promote", func(t *testing.T) {
		c, err := NewCustomer("Cy", "cy@example.com", "secret123")
		require.NoError(t, err)
		c.PromoteToEmployee()
		assert.True(t, c.IsEmployee())
	})

	tests := []struct {
		name, email, password, wantMsg string
	}{
		{"", "a@example.com", "secret123", "name cannot be empty"},
		{"Ada", "not-an-email", "secret123", "invalid email format"},
		{"Ada", "a@example.com", "short1", "at least 8 characters"},
		{"Ada", "a@example.com", "lettersonly", "at least one letter and one number"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.wantMsg, func(t *testing.T) {
			_, err := NewCustomer(tt.name, tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidRequest))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
