package identity

import (
	"regexp"
	"strings"

	"github.com/erp/purchasing/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor; tests lower it
var passwordCost = 12

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetterRegex = regexp.MustCompile(`[a-zA-Z]`)
	hasNumberRegex = regexp.MustCompile(`[0-9]`)
)

// Customer is a registered identity. Employees may perform write operations.
type Customer struct {
	shared.BaseEntity
	Name         string
	Email        string
	PasswordHash string
	Employee     bool
}

// NewCustomer registers a new non-employee customer
func NewCustomer(name, email, password string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidRequestError("name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewInvalidRequestError("name cannot exceed 100 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	c := &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
	}
	if err := c.SetPassword(password); err != nil {
		return nil, err
	}
	return c, nil
}

// NewEmployee registers a customer with write access
func NewEmployee(name, email, password string) (*Customer, error) {
	c, err := NewCustomer(name, email, password)
	if err != nil {
		return nil, err
	}
	c.Employee = true
	return c, nil
}

// SetPassword replaces the password hash
func (c *Customer) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return shared.NewDomainError(shared.CodeInternal, "failed to hash password")
	}
	c.PasswordHash = string(hash)
	c.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (c *Customer) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// PromoteToEmployee grants write access
func (c *Customer) PromoteToEmployee() {
	c.Employee = true
	c.Touch()
}

// IsEmployee reports whether the customer may perform write operations
func (c *Customer) IsEmployee() bool {
	return c.Employee
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewInvalidRequestError("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewInvalidRequestError("password cannot exceed 72 characters")
	}
	if !hasLetterRegex.MatchString(password) || !hasNumberRegex.MatchString(password) {
		return shared.NewInvalidRequestError("password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewInvalidRequestError("email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewInvalidRequestError("invalid email format")
	}
	return nil
}
