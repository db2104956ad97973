package models

import (
	"github.com/erp/purchasing/internal/domain/identity"
)

// CustomerModel is the persistence model for identity.Customer
type CustomerModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(200);not null"`
	Email        string `gorm:"type:varchar(254);not null;uniqueIndex:idx_customers_email"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
	Employee     bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *identity.Customer {
	return &identity.Customer{
		BaseEntity:   m.BaseModel.entity(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Employee:     m.Employee,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *identity.Customer) {
	m.BaseModel = baseFrom(c.BaseEntity)
	m.Name = c.Name
	m.Email = c.Email
	m.PasswordHash = c.PasswordHash
	m.Employee = c.Employee
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *identity.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
