package models

import (
	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/google/uuid"
)

// CustomerTypeModel is the persistence model for the CustomerType aggregate root
type CustomerTypeModel struct {
	TenantAggregateModel
	Code string `gorm:"type:varchar(50);not null;index:idx_customer_type_code"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (CustomerTypeModel) TableName() string {
	return "customer_types"
}

// ToDomain converts the persistence model to a domain CustomerType
func (m *CustomerTypeModel) ToDomain() *pricing.CustomerType {
	return &pricing.CustomerType{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
	}
}

// CustomerTypeModelFromDomain creates a persistence model from a domain CustomerType
func CustomerTypeModelFromDomain(ct *pricing.CustomerType) *CustomerTypeModel {
	m := &CustomerTypeModel{Code: ct.Code, Name: ct.Name}
	m.FromDomainTenantAggregateRoot(ct.TenantAggregateRoot)
	return m
}

// PartnerModel is the persistence model for the Partner aggregate root
type PartnerModel struct {
	TenantAggregateModel
	Code           string              `gorm:"type:varchar(50);not null;index:idx_partner_code"`
	Name           string              `gorm:"type:varchar(200);not null"`
	PricingMode    pricing.PricingMode `gorm:"type:varchar(20);not null;default:'quantity'"`
	CustomerTypeID *uuid.UUID          `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner
func (m *PartnerModel) ToDomain() *pricing.Partner {
	return &pricing.Partner{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		PricingMode:         m.PricingMode,
		CustomerTypeID:      m.CustomerTypeID,
	}
}

// PartnerModelFromDomain creates a persistence model from a domain Partner
func PartnerModelFromDomain(p *pricing.Partner) *PartnerModel {
	m := &PartnerModel{
		Code:           p.Code,
		Name:           p.Name,
		PricingMode:    p.PricingMode,
		CustomerTypeID: p.CustomerTypeID,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}
