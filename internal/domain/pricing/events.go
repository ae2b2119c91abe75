package pricing

import (
	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeTemplate     = "ProductTemplate"
	AggregateTypeVariant      = "ProductVariant"
	AggregateTypePartner      = "Partner"
	AggregateTypeCustomerType = "CustomerType"
	AggregateTypeVendorBill   = "VendorBill"
)

// Event type constants
const (
	EventTypeTemplateCreated          = "TemplateCreated"
	EventTypeTemplatePricingChanged   = "TemplatePricingChanged"
	EventTypeTemplateRulesChanged     = "TemplateRulesChanged"
	EventTypeVariantCreated           = "VariantCreated"
	EventTypeVariantPricingOverridden = "VariantPricingOverridden"
	EventTypeVariantResetToTemplate   = "VariantResetToTemplate"
	EventTypeVariantsSynced           = "VariantsSynced"
	EventTypePartnerPricingChanged    = "PartnerPricingChanged"
	EventTypeVendorBillPosted         = "VendorBillPosted"
)

// TemplateCreatedEvent is published when a product template is created
type TemplateCreatedEvent struct {
	shared.BaseDomainEvent
	TemplateID      uuid.UUID `json:"template_id"`
	Code            string    `json:"code"`
	Strategy        Strategy  `json:"strategy"`
	AutoSyncEnabled bool      `json:"auto_sync_enabled"`
}

// NewTemplateCreatedEvent creates a new TemplateCreatedEvent
func NewTemplateCreatedEvent(t *Template) *TemplateCreatedEvent {
	return &TemplateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTemplateCreated, AggregateTypeTemplate, t.ID, t.TenantID),
		TemplateID:      t.ID,
		Code:            t.Code,
		Strategy:        t.Strategy,
		AutoSyncEnabled: t.AutoSyncEnabled,
	}
}

// TemplatePricingChangedEvent is published when template pricing scalars change
type TemplatePricingChangedEvent struct {
	shared.BaseDomainEvent
	TemplateID          uuid.UUID       `json:"template_id"`
	Strategy            Strategy        `json:"strategy"`
	LastAcquisitionCost decimal.Decimal `json:"last_acquisition_cost"`
	LandingPrice        decimal.Decimal `json:"landing_price"`
	ListPrice           decimal.Decimal `json:"list_price"`
}

// NewTemplatePricingChangedEvent creates a new TemplatePricingChangedEvent
func NewTemplatePricingChangedEvent(t *Template) *TemplatePricingChangedEvent {
	return &TemplatePricingChangedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeTemplatePricingChanged, AggregateTypeTemplate, t.ID, t.TenantID),
		TemplateID:          t.ID,
		Strategy:            t.Strategy,
		LastAcquisitionCost: t.LastAcquisitionCost,
		LandingPrice:        t.LandingPrice,
		ListPrice:           t.ListPrice,
	}
}

// TemplateRulesChangedEvent is published when a template rule table is edited
type TemplateRulesChangedEvent struct {
	shared.BaseDomainEvent
	TemplateID uuid.UUID `json:"template_id"`
	Table      TableKind `json:"table"`
	RowCount   int       `json:"row_count"`
}

// NewTemplateRulesChangedEvent creates a new TemplateRulesChangedEvent
func NewTemplateRulesChangedEvent(t *Template, kind TableKind) *TemplateRulesChangedEvent {
	return &TemplateRulesChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTemplateRulesChanged, AggregateTypeTemplate, t.ID, t.TenantID),
		TemplateID:      t.ID,
		Table:           kind,
		RowCount:        len(t.Rules[kind]),
	}
}

// VariantCreatedEvent is published when a variant is added to a template
type VariantCreatedEvent struct {
	shared.BaseDomainEvent
	VariantID  uuid.UUID `json:"variant_id"`
	TemplateID uuid.UUID `json:"template_id"`
	Code       string    `json:"code"`
}

// NewVariantCreatedEvent creates a new VariantCreatedEvent
func NewVariantCreatedEvent(v *Variant) *VariantCreatedEvent {
	return &VariantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVariantCreated, AggregateTypeVariant, v.ID, v.TenantID),
		VariantID:       v.ID,
		TemplateID:      v.TemplateID,
		Code:            v.Code,
	}
}

// VariantPricingOverriddenEvent is published when a direct edit opts a variant out of sync
type VariantPricingOverriddenEvent struct {
	shared.BaseDomainEvent
	VariantID  uuid.UUID `json:"variant_id"`
	TemplateID uuid.UUID `json:"template_id"`
}

// NewVariantPricingOverriddenEvent creates a new VariantPricingOverriddenEvent
func NewVariantPricingOverriddenEvent(v *Variant) *VariantPricingOverriddenEvent {
	return &VariantPricingOverriddenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVariantPricingOverridden, AggregateTypeVariant, v.ID, v.TenantID),
		VariantID:       v.ID,
		TemplateID:      v.TemplateID,
	}
}

// VariantResetToTemplateEvent is published when a variant's override is cleared
type VariantResetToTemplateEvent struct {
	shared.BaseDomainEvent
	VariantID  uuid.UUID `json:"variant_id"`
	TemplateID uuid.UUID `json:"template_id"`
}

// NewVariantResetToTemplateEvent creates a new VariantResetToTemplateEvent
func NewVariantResetToTemplateEvent(v *Variant) *VariantResetToTemplateEvent {
	return &VariantResetToTemplateEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVariantResetToTemplate, AggregateTypeVariant, v.ID, v.TenantID),
		VariantID:       v.ID,
		TemplateID:      v.TemplateID,
	}
}

// VariantsSyncedEvent is published after a template was propagated to its variants
type VariantsSyncedEvent struct {
	shared.BaseDomainEvent
	TemplateID uuid.UUID   `json:"template_id"`
	VariantIDs []uuid.UUID `json:"variant_ids"`
	Tables     []TableKind `json:"tables"`
	Scalars    bool        `json:"scalars"`
}

// NewVariantsSyncedEvent creates a new VariantsSyncedEvent
func NewVariantsSyncedEvent(t *Template, result SyncResult) *VariantsSyncedEvent {
	return &VariantsSyncedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVariantsSynced, AggregateTypeTemplate, t.ID, t.TenantID),
		TemplateID:      t.ID,
		VariantIDs:      result.Synced,
		Tables:          result.Scope.Tables(),
		Scalars:         result.Scope.Scalars,
	}
}

// PartnerPricingChangedEvent is published when a partner's pricing mode changes
type PartnerPricingChangedEvent struct {
	shared.BaseDomainEvent
	PartnerID      uuid.UUID   `json:"partner_id"`
	PricingMode    PricingMode `json:"pricing_mode"`
	CustomerTypeID *uuid.UUID  `json:"customer_type_id,omitempty"`
}

// NewPartnerPricingChangedEvent creates a new PartnerPricingChangedEvent
func NewPartnerPricingChangedEvent(p *Partner) *PartnerPricingChangedEvent {
	return &PartnerPricingChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerPricingChanged, AggregateTypePartner, p.ID, p.TenantID),
		PartnerID:       p.ID,
		PricingMode:     p.PricingMode,
		CustomerTypeID:  p.CustomerTypeID,
	}
}

// VendorBillLine is one posted vendor bill line
type VendorBillLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// UnitCost returns subtotal / quantity, and false for lines that carry no cost
func (l VendorBillLine) UnitCost() (decimal.Decimal, bool) {
	if l.ProductID == uuid.Nil || !l.Quantity.IsPositive() {
		return decimal.Zero, false
	}
	return l.Subtotal.Div(l.Quantity), true
}

// VendorBillPostedEvent is delivered by purchasing when a vendor bill is posted
type VendorBillPostedEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID        `json:"bill_id"`
	BillNumber string           `json:"bill_number"`
	Lines      []VendorBillLine `json:"lines"`
}

// NewVendorBillPostedEvent creates a new VendorBillPostedEvent
func NewVendorBillPostedEvent(tenantID, billID uuid.UUID, billNumber string, lines []VendorBillLine) *VendorBillPostedEvent {
	base := shared.NewBaseDomainEvent(EventTypeVendorBillPosted, AggregateTypeVendorBill, billID, tenantID)
	// A bill is posted once; redeliveries share the id and are deduplicated downstream.
	base.ID = billID
	return &VendorBillPostedEvent{
		BaseDomainEvent: base,
		BillID:          billID,
		BillNumber:      billNumber,
		Lines:           lines,
	}
}
