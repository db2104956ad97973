package handler

import (
	"github.com/erp/purchasing/internal/application/identity"
	"github.com/erp/purchasing/internal/infrastructure/auth"
	"github.com/erp/purchasing/internal/infrastructure/logger"
	"github.com/erp/purchasing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	revocations auth.RevocationList
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, revocations auth.RevocationList) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		revocations: revocations,
	}
}

// Signup godoc
// @Summary      Register a customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201 {object} identity.CustomerResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req identity.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customer, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, customer)
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges email and password for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200 {object} identity.LoginResult
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the presented bearer token until it would have expired
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401 {object} dto.ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil || h.revocations == nil {
		h.NoContent(c)
		return
	}

	if err := h.revocations.Revoke(c.Request.Context(), claims.ID, claims.RemainingTTL()); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	logger.L(c.Request.Context()).Info("Token revoked", zap.String("jti", claims.ID))
	h.NoContent(c)
}
