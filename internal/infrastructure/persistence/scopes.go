package persistence

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// tenantScope restricts a query to one tenant's rows
func tenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
