// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer stays free of
// ORM tags.
//
//   - base.go: BaseModel and the AutoMigrate model list
//   - identity.go: customers
//   - catalog.go: categories and products
//   - inventory.go: per-product stock records
//   - trade.go: purchases and their lines
//
// Every model has ToDomain and FromDomain mappers; repositories only ever
// hand domain entities to callers.
package models
