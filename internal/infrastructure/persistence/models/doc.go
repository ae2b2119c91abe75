// Package models contains GORM persistence models for the pricing tables.
// Domain types carry no ORM tags; each model converts to and from its domain
// counterpart with ToDomain and FromDomain.
//
//   - base.go: shared tenant aggregate columns
//   - product.go: product templates, variants and their pricing rule rows
//   - partner.go: partners and customer types
package models
