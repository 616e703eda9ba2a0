// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities so the domain layer stays free
// of ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models contain all GORM annotations and table mappings
// 3. ToDomain / FromDomain convert between the two
// 4. Repositories read and write persistence models only
//
// Structure:
// - base.go: BaseModel and VersionedModel
// - sales.go: accounts, activities, quotations, sales orders
// - identity.go: users
// - inventory.go: inventory items
// - ticket.go: customer tickets
// - notification.go: in-app notifications
// - bulk_operation.go: audit trail of bulk calls
package models
