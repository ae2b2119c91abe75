package models

import (
	"cmp"
	"slices"
	"time"

	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingColumns are the pricing scalars shared by templates and variants.
// Inputs and the landing price are unscaled numerics so a reloaded landing
// price still equals ComputeLandingPrice(cost, margin).
type PricingColumns struct {
	Strategy                 pricing.Strategy `gorm:"type:varchar(40);not null;default:'regular'"`
	LastAcquisitionCost      decimal.Decimal  `gorm:"type:numeric;not null;default:0"`
	OperationalMarginPercent decimal.Decimal  `gorm:"type:numeric;not null;default:0"`
	LandingPrice             decimal.Decimal  `gorm:"type:numeric;not null;default:0"`
	ListPrice                decimal.Decimal  `gorm:"type:numeric;not null;default:0"`
	BaseAcquisitionPrice     decimal.Decimal  `gorm:"type:numeric;not null;default:0"`
}

func (c *PricingColumns) fromProfile(p *pricing.PricingProfile) {
	c.Strategy = p.Strategy
	c.LastAcquisitionCost = p.LastAcquisitionCost
	c.OperationalMarginPercent = p.OperationalMarginPercent
	c.LandingPrice = p.LandingPrice
	c.ListPrice = p.ListPrice
	c.BaseAcquisitionPrice = p.BaseAcquisitionPrice
}

func (c *PricingColumns) toProfile(rules []PricingRuleModel) pricing.PricingProfile {
	return pricing.PricingProfile{
		Strategy:                 c.Strategy,
		LastAcquisitionCost:      c.LastAcquisitionCost,
		OperationalMarginPercent: c.OperationalMarginPercent,
		LandingPrice:             c.LandingPrice,
		ListPrice:                c.ListPrice,
		BaseAcquisitionPrice:     c.BaseAcquisitionPrice,
		Rules:                    RuleTablesFromModels(rules),
	}
}

// ProductTemplateModel is the persistence model for the Template aggregate root
type ProductTemplateModel struct {
	TenantAggregateModel
	Code            string `gorm:"type:varchar(50);not null;index:idx_template_code"`
	Name            string `gorm:"type:varchar(200);not null"`
	AutoSyncEnabled bool   `gorm:"not null;default:true"`
	PricingColumns
}

// TableName returns the table name for GORM
func (ProductTemplateModel) TableName() string {
	return "product_templates"
}

// ToDomain converts the model and its rule rows to a domain Template
func (m *ProductTemplateModel) ToDomain(rules []PricingRuleModel) *pricing.Template {
	return &pricing.Template{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		AutoSyncEnabled:     m.AutoSyncEnabled,
		PricingProfile:      m.toProfile(rules),
	}
}

// ProductTemplateModelFromDomain creates a persistence model from a domain Template
func ProductTemplateModelFromDomain(t *pricing.Template) *ProductTemplateModel {
	m := &ProductTemplateModel{
		Code:            t.Code,
		Name:            t.Name,
		AutoSyncEnabled: t.AutoSyncEnabled,
	}
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.fromProfile(&t.PricingProfile)
	return m
}

// ProductVariantModel is the persistence model for the Variant aggregate root
type ProductVariantModel struct {
	TenantAggregateModel
	TemplateID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Code             string    `gorm:"type:varchar(50);not null;index:idx_variant_code"`
	Name             string    `gorm:"type:varchar(200);not null"`
	HasCustomPricing bool      `gorm:"not null;default:false"`
	PricingColumns
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the model and its rule rows to a domain Variant
func (m *ProductVariantModel) ToDomain(rules []PricingRuleModel) *pricing.Variant {
	return &pricing.Variant{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		TemplateID:          m.TemplateID,
		Code:                m.Code,
		Name:                m.Name,
		HasCustomPricing:    m.HasCustomPricing,
		PricingProfile:      m.toProfile(rules),
	}
}

// ProductVariantModelFromDomain creates a persistence model from a domain Variant
func ProductVariantModelFromDomain(v *pricing.Variant) *ProductVariantModel {
	m := &ProductVariantModel{
		TemplateID:       v.TemplateID,
		Code:             v.Code,
		Name:             v.Name,
		HasCustomPricing: v.HasCustomPricing,
	}
	m.FromDomainTenantAggregateRoot(v.TenantAggregateRoot)
	m.fromProfile(&v.PricingProfile)
	return m
}

// PricingRuleModel is one row of a rule table, owned by a template or a variant.
// Rows of one owner are rewritten as a whole on every save.
type PricingRuleModel struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	OwnerKind      pricing.OwnerKind   `gorm:"type:varchar(20);not null;index:idx_pricing_rule_owner,priority:1"`
	OwnerID        uuid.UUID           `gorm:"type:uuid;not null;index:idx_pricing_rule_owner,priority:2"`
	TableKind      pricing.TableKind   `gorm:"type:varchar(40);not null"`
	Sequence       int                 `gorm:"not null"`
	MinQty         decimal.NullDecimal `gorm:"type:numeric"`
	MaxQty         decimal.NullDecimal `gorm:"type:numeric"`
	CustomerTypeID *uuid.UUID          `gorm:"type:uuid"`
	Percent        decimal.Decimal     `gorm:"type:numeric;not null;default:0"`
	Amount         decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Margin         decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt      time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}

// ToDomain converts the model to a domain RuleRow
func (m *PricingRuleModel) ToDomain() pricing.RuleRow {
	spec := pricing.RuleSpec{
		MinQty:         nullToPtr(m.MinQty),
		MaxQty:         nullToPtr(m.MaxQty),
		CustomerTypeID: m.CustomerTypeID,
		Percent:        m.Percent,
	}
	owner := pricing.OwnerRef{Kind: m.OwnerKind, ID: m.OwnerID}
	return pricing.RestoreRuleRow(m.ID, m.TableKind, owner, m.Sequence, spec, m.Amount, m.Margin)
}

// PricingRuleModelsFromDomain flattens a profile's rule tables into rows
func PricingRuleModelsFromDomain(tenantID uuid.UUID, p *pricing.PricingProfile) []PricingRuleModel {
	rows := p.AllRules()
	out := make([]PricingRuleModel, len(rows))
	now := time.Now()
	for i, r := range rows {
		out[i] = PricingRuleModel{
			ID:             r.ID,
			TenantID:       tenantID,
			OwnerKind:      r.Owner.Kind,
			OwnerID:        r.Owner.ID,
			TableKind:      r.Table,
			Sequence:       r.Sequence,
			MinQty:         ptrToNull(r.MinQty),
			MaxQty:         ptrToNull(r.MaxQty),
			CustomerTypeID: r.CustomerTypeID,
			Percent:        r.Percent,
			Amount:         r.Amount,
			Margin:         r.Margin,
			CreatedAt:      now,
		}
	}
	return out
}

// RuleTablesFromModels groups rows by table in sequence order
func RuleTablesFromModels(rows []PricingRuleModel) pricing.RuleTables {
	tables := make(pricing.RuleTables)
	for i := range rows {
		r := rows[i].ToDomain()
		tables[r.Table] = append(tables[r.Table], r)
	}
	for _, rs := range tables {
		slices.SortStableFunc(rs, func(a, b pricing.RuleRow) int {
			return cmp.Compare(a.Sequence, b.Sequence)
		})
	}
	return tables
}

func nullToPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func ptrToNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
