package middleware

import (
	"errors"
	"net/http"
	"strings"

	appidentity "github.com/erp/purchasing/internal/application/identity"
	"github.com/erp/purchasing/internal/infrastructure/auth"
	"github.com/erp/purchasing/internal/infrastructure/logger"
	"github.com/erp/purchasing/internal/infrastructure/telemetry"
	"github.com/erp/purchasing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Gin context keys set by Authenticate
const (
	PrincipalKey  = "principal"
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator verifies bearer tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// AuthConfig configures Authenticate
type AuthConfig struct {
	Tokens TokenValidator
	// Revocations is optional; without it logout has no effect on live tokens
	Revocations auth.RevocationList
	Logger      *zap.Logger
}

// Authenticate resolves the caller of each request. A request without an
// Authorization header proceeds as the anonymous principal so public reads
// keep working and writes are refused by the access guard. A header that is
// present but malformed, expired or revoked is rejected with 401.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			c.Set(PrincipalKey, appidentity.Principal{})
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			rejectToken(c, log, auth.ErrInvalidToken)
			return
		}

		claims, err := cfg.Tokens.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			rejectToken(c, log, err)
			return
		}

		if cfg.Revocations != nil {
			revoked, err := cfg.Revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Error("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked {
				rejectToken(c, log, auth.ErrTokenRevoked)
				return
			}
		}

		customerID, err := claims.CustomerID()
		if err != nil {
			rejectToken(c, log, auth.ErrInvalidClaims)
			return
		}

		c.Set(PrincipalKey, appidentity.Principal{CustomerID: customerID})
		c.Set(JWTClaimsKey, claims)

		ctx := logger.WithCustomerID(c.Request.Context(), customerID.String())
		c.Request = c.Request.WithContext(ctx)
		telemetry.SetAttribute(trace.SpanFromContext(ctx), telemetry.SpanAttrCustomerID, customerID.String())

		c.Next()
	}
}

// RequireAuthentication rejects anonymous callers with 401. Used on routes
// that only make sense for a logged-in caller, such as logout.
func RequireAuthentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetPrincipal(c).IsAnonymous() {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "authentication required")
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the caller resolved by Authenticate
func GetPrincipal(c *gin.Context) appidentity.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(appidentity.Principal); ok {
			return p
		}
	}
	return appidentity.Principal{}
}

// GetClaims returns the verified token claims, or nil for anonymous callers
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func rejectToken(c *gin.Context, log *zap.Logger, err error) {
	code, message := dto.ErrCodeTokenInvalid, "invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeTokenRevoked, "token has been revoked"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "token is not yet valid"
	}

	log.Warn("Bearer token rejected",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", GetRequestID(c)),
	)
	abortWithError(c, http.StatusUnauthorized, code, message)
}
