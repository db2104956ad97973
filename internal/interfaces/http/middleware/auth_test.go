package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/purchasing/internal/infrastructure/auth"
	"github.com/erp/purchasing/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTConfig = config.JWTConfig{
	Secret:                "middleware-test-secret-with-enough-bytes",
	AccessTokenExpiration: time.Hour,
	Issuer:                "purchasing-test",
}

type failingRevocations struct{}

func (failingRevocations) Revoke(context.Context, string, time.Duration) error { return nil }
func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func newAuthEngine(cfg AuthConfig, extra ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(RequestID(), Authenticate(cfg))
	handlers := append(extra, func(c *gin.Context) {
		p := GetPrincipal(c)
		if p.IsAnonymous() {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, p.CustomerID.String())
	})
	engine.GET("/", handlers...)
	return engine
}

func withToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, token)
	}
	return req
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewJWTService(testJWTConfig)
	revocations := auth.NewInMemoryRevocationList()
	engine := newAuthEngine(AuthConfig{Tokens: tokens, Revocations: revocations})

	customerID := uuid.New()
	token, _, err := tokens.GenerateAccessToken(customerID, "a@example.com")
	require.NoError(t, err)

	t.Run("no header is anonymous", func(t *testing.T) {
		w := serve(engine, withToken(""))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("valid token resolves the customer", func(t *testing.T) {
		w := serve(engine, withToken(BearerPrefix+token))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, customerID.String(), w.Body.String())
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := serve(engine, withToken("Basic abc"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_TOKEN_INVALID", decodeBody(t, w)["code"])
	})

	t.Run("empty bearer", func(t *testing.T) {
		w := serve(engine, withToken(BearerPrefix+"  "))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret-value",
			AccessTokenExpiration: time.Hour,
			Issuer:                testJWTConfig.Issuer,
		})
		forged, _, err := other.GenerateAccessToken(customerID, "a@example.com")
		require.NoError(t, err)

		w := serve(engine, withToken(BearerPrefix+forged))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_TOKEN_INVALID", decodeBody(t, w)["code"])
	})

	t.Run("expired token", func(t *testing.T) {
		cfg := testJWTConfig
		cfg.AccessTokenExpiration = -time.Minute
		expired, _, err := auth.NewJWTService(cfg).GenerateAccessToken(customerID, "a@example.com")
		require.NoError(t, err)

		w := serve(engine, withToken(BearerPrefix+expired))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_TOKEN_EXPIRED", decodeBody(t, w)["code"])
	})

	t.Run("revoked token", func(t *testing.T) {
		revokedToken, _, err := tokens.GenerateAccessToken(customerID, "a@example.com")
		require.NoError(t, err)
		claims, err := tokens.ValidateAccessToken(revokedToken)
		require.NoError(t, err)
		require.NoError(t, revocations.Revoke(context.Background(), claims.ID, time.Hour))

		w := serve(engine, withToken(BearerPrefix+revokedToken))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_TOKEN_REVOKED", decodeBody(t, w)["code"])
	})
}

func TestAuthenticate_RevocationLookupFailureLetsRequestThrough(t *testing.T) {
	tokens := auth.NewJWTService(testJWTConfig)
	engine := newAuthEngine(AuthConfig{Tokens: tokens, Revocations: failingRevocations{}})

	customerID := uuid.New()
	token, _, err := tokens.GenerateAccessToken(customerID, "a@example.com")
	require.NoError(t, err)

	w := serve(engine, withToken(BearerPrefix+token))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, customerID.String(), w.Body.String())
}

func TestRequireAuthentication(t *testing.T) {
	tokens := auth.NewJWTService(testJWTConfig)
	engine := newAuthEngine(AuthConfig{Tokens: tokens}, RequireAuthentication())

	w := serve(engine, withToken(""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", decodeBody(t, w)["code"])

	token, _, err := tokens.GenerateAccessToken(uuid.New(), "a@example.com")
	require.NoError(t, err)
	w = serve(engine, withToken(BearerPrefix+token))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetClaims(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetClaims(c))
	assert.True(t, GetPrincipal(c).IsAnonymous())

	claims := &auth.Claims{}
	c.Set(JWTClaimsKey, claims)
	assert.Same(t, claims, GetClaims(c))
}
