package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/purchasing/internal/domain/identity"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenIssuer issues access tokens for authenticated customers
type TokenIssuer interface {
	GenerateAccessToken(customerID uuid.UUID, email string) (string, time.Time, error)
}

// ErrInvalidCredentials is returned for any failed login so that callers cannot probe emails
var ErrInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "invalid email or password")

// AuthService handles registration and login
type AuthService struct {
	customers identity.CustomerRepository
	tokens    TokenIssuer
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(customers identity.CustomerRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		customers: customers,
		tokens:    tokens,
		logger:    logger,
	}
}

// Signup registers a new non-employee customer
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*CustomerResponse, error) {
	customer, err := identity.NewCustomer(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer registered", zap.String("customer_id", customer.ID.String()))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Login authenticates a customer and returns an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	customer, err := s.customers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !customer.VerifyPassword(input.Password) {
		s.logger.Warn("Login attempt with wrong password", zap.String("customer_id", customer.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(customer.ID, customer.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// EnsureEmployee makes sure an employee account exists for email, creating or
// promoting it as needed. Used to bootstrap a fresh deployment.
func (s *AuthService) EnsureEmployee(ctx context.Context, name, email, password string) (*CustomerResponse, error) {
	existing, err := s.customers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	switch {
	case err == nil:
		if !existing.IsEmployee() {
			existing.PromoteToEmployee()
			if err := s.customers.Update(ctx, existing); err != nil {
				return nil, err
			}
			s.logger.Info("Customer promoted to employee", zap.String("customer_id", existing.ID.String()))
		}
		resp := ToCustomerResponse(existing)
		return &resp, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	employee, err := identity.NewEmployee(name, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, employee); err != nil {
		return nil, err
	}
	s.logger.Info("Bootstrap employee created", zap.String("customer_id", employee.ID.String()))
	resp := ToCustomerResponse(employee)
	return &resp, nil
}
