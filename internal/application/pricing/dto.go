package pricing

import (
	"time"

	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleRowRequest is one rule row as supplied by a caller
type RuleRowRequest struct {
	MinQty         *decimal.Decimal `json:"min_qty"`
	MaxQty         *decimal.Decimal `json:"max_qty"`
	CustomerTypeID *uuid.UUID       `json:"customer_type_id"`
	Percent        decimal.Decimal  `json:"percent"`
}

func (r RuleRowRequest) toSpec() pricing.RuleSpec {
	return pricing.RuleSpec{
		MinQty:         r.MinQty,
		MaxQty:         r.MaxQty,
		CustomerTypeID: r.CustomerTypeID,
		Percent:        r.Percent,
	}
}

// ReplaceRulesRequest replaces every row of one rule table
type ReplaceRulesRequest struct {
	Rows []RuleRowRequest `json:"rows" binding:"dive"`
}

func (r ReplaceRulesRequest) toSpecs() []pricing.RuleSpec {
	specs := make([]pricing.RuleSpec, len(r.Rows))
	for i, row := range r.Rows {
		specs[i] = row.toSpec()
	}
	return specs
}

// PricingFieldsRequest carries pricing scalars; nil fields are left unchanged
type PricingFieldsRequest struct {
	Strategy                 *string          `json:"strategy" binding:"omitempty,oneof=regular list_price_based purchase_list_price_based"`
	LastAcquisitionCost      *decimal.Decimal `json:"last_acquisition_cost"`
	OperationalMarginPercent *decimal.Decimal `json:"operational_margin_percent"`
	ListPrice                *decimal.Decimal `json:"list_price"`
	BaseAcquisitionPrice     *decimal.Decimal `json:"base_acquisition_price"`
}

func (r PricingFieldsRequest) toInput() pricing.PricingInput {
	in := pricing.PricingInput{
		LastAcquisitionCost:      r.LastAcquisitionCost,
		OperationalMarginPercent: r.OperationalMarginPercent,
		ListPrice:                r.ListPrice,
		BaseAcquisitionPrice:     r.BaseAcquisitionPrice,
	}
	if r.Strategy != nil {
		s := pricing.Strategy(*r.Strategy)
		in.Strategy = &s
	}
	return in
}

// touchesSyncFields reports whether the request writes a field that is copied to variants
func (r PricingFieldsRequest) touchesSyncFields() bool {
	return r.Strategy != nil || r.LastAcquisitionCost != nil || r.OperationalMarginPercent != nil || r.ListPrice != nil
}

// CreateTemplateRequest creates a product template with optional pricing and rules
type CreateTemplateRequest struct {
	Code            string `json:"code" binding:"required,min=1,max=50"`
	Name            string `json:"name" binding:"required,min=1,max=200"`
	AutoSyncEnabled *bool  `json:"auto_sync_enabled"`
	PricingFieldsRequest
	Rules map[string][]RuleRowRequest `json:"rules" binding:"omitempty,dive,dive"`
}

// UpdateTemplatePricingRequest writes template pricing scalars
type UpdateTemplatePricingRequest struct {
	PricingFieldsRequest
	AutoSyncEnabled *bool `json:"auto_sync_enabled"`
}

// CreateVariantRequest adds a variant to a template
type CreateVariantRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// UpdateVariantPricingRequest writes variant pricing scalars
type UpdateVariantPricingRequest struct {
	PricingFieldsRequest
}

// RecordAcquisitionCostRequest feeds a new unit cost for a product
type RecordAcquisitionCostRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Source    string          `json:"source" binding:"max=100"`
}

// ResolvePriceRequest asks for the rule price of a product for a partner
type ResolvePriceRequest struct {
	PartnerID uuid.UUID       `json:"partner_id" binding:"required"`
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// PriceOrderLineRequest is raised when an order line's partner, product or quantity changes
type PriceOrderLineRequest struct {
	PartnerID        uuid.UUID       `json:"partner_id" binding:"required"`
	ProductID        uuid.UUID       `json:"product_id" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity"`
	CurrentUnitPrice decimal.Decimal `json:"current_unit_price"`
}

// PriceDetailsRequest asks for the rule table that prices an order line
type PriceDetailsRequest struct {
	PartnerID uuid.UUID       `json:"partner_id" binding:"required"`
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// VendorBillLineRequest is one line of a posted vendor bill
type VendorBillLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PostVendorBillRequest notifies that a vendor bill was posted
type PostVendorBillRequest struct {
	BillID     uuid.UUID               `json:"bill_id" binding:"required"`
	BillNumber string                  `json:"bill_number" binding:"max=100"`
	Lines      []VendorBillLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CreateCustomerTypeRequest creates a customer type
type CreateCustomerTypeRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreatePartnerRequest creates a partner
type CreatePartnerRequest struct {
	Code           string     `json:"code" binding:"required,min=1,max=50"`
	Name           string     `json:"name" binding:"required,min=1,max=200"`
	PricingMode    string     `json:"pricing_mode" binding:"omitempty,oneof=quantity fixed"`
	CustomerTypeID *uuid.UUID `json:"customer_type_id"`
}

// SetPartnerPricingRequest changes how a partner is priced
type SetPartnerPricingRequest struct {
	PricingMode    string     `json:"pricing_mode" binding:"required,oneof=quantity fixed"`
	CustomerTypeID *uuid.UUID `json:"customer_type_id"`
}

// RuleRowResponse represents a rule row in API responses
type RuleRowResponse struct {
	ID             uuid.UUID        `json:"id"`
	Table          string           `json:"table"`
	OwnerKind      string           `json:"owner_kind"`
	OwnerID        uuid.UUID        `json:"owner_id"`
	Sequence       int              `json:"sequence"`
	MinQty         *decimal.Decimal `json:"min_qty,omitempty"`
	MaxQty         *decimal.Decimal `json:"max_qty,omitempty"`
	CustomerTypeID *uuid.UUID       `json:"customer_type_id,omitempty"`
	Percent        decimal.Decimal  `json:"percent"`
	Amount         decimal.Decimal  `json:"amount"`
	Margin         decimal.Decimal  `json:"margin"`
}

// PricingResponse represents the pricing surface of a template or variant
type PricingResponse struct {
	Strategy                 string                       `json:"strategy"`
	LastAcquisitionCost      decimal.Decimal              `json:"last_acquisition_cost"`
	OperationalMarginPercent decimal.Decimal              `json:"operational_margin_percent"`
	LandingPrice             decimal.Decimal              `json:"landing_price"`
	ListPrice                decimal.Decimal              `json:"list_price"`
	BaseAcquisitionPrice     decimal.Decimal              `json:"base_acquisition_price"`
	Rules                    map[string][]RuleRowResponse `json:"rules"`
}

// TemplateResponse represents a product template in API responses
type TemplateResponse struct {
	ID              uuid.UUID `json:"id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	AutoSyncEnabled bool      `json:"auto_sync_enabled"`
	PricingResponse
	SyncedVariants int       `json:"synced_variants"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// VariantResponse represents a product variant in API responses
type VariantResponse struct {
	ID               uuid.UUID `json:"id"`
	TenantID         uuid.UUID `json:"tenant_id"`
	TemplateID       uuid.UUID `json:"template_id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	HasCustomPricing bool      `json:"has_custom_pricing"`
	SyncState        string    `json:"sync_state"`
	PricingResponse
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncResponse reports a manual propagation
type SyncResponse struct {
	TemplateID        uuid.UUID   `json:"template_id"`
	SyncedCount       int         `json:"synced_count"`
	SyncedVariantIDs  []uuid.UUID `json:"synced_variant_ids"`
	SkippedVariantIDs []uuid.UUID `json:"skipped_variant_ids"`
}

// RuleUpdateResponse reports a single row edit and what it propagated
type RuleUpdateResponse struct {
	Rule           RuleRowResponse `json:"rule"`
	SyncedVariants int             `json:"synced_variants"`
}

// AcquisitionCostResponse reports the effect of a new acquisition cost
type AcquisitionCostResponse struct {
	TemplateID     uuid.UUID       `json:"template_id"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	LandingPrice   decimal.Decimal `json:"landing_price"`
	SyncedVariants int             `json:"synced_variants"`
}

// PriceResolutionResponse is the result of a price lookup
type PriceResolutionResponse struct {
	Matched bool             `json:"matched"`
	Table   string           `json:"table,omitempty"`
	RuleID  *uuid.UUID       `json:"rule_id,omitempty"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Margin  *decimal.Decimal `json:"margin,omitempty"`
}

// OrderLinePriceResponse carries the unit price an order line should use
type OrderLinePriceResponse struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Applied   bool            `json:"applied"`
	PriceResolutionResponse
}

// PriceDetailRow is one row of a price details listing
type PriceDetailRow struct {
	RuleRowResponse
	Selected bool `json:"selected"`
}

// PriceDetailsResponse lists the rule table that prices an order line
type PriceDetailsResponse struct {
	Strategy string           `json:"strategy"`
	Selector string           `json:"selector"`
	Table    string           `json:"table"`
	Rows     []PriceDetailRow `json:"rows"`
	PriceResolutionResponse
}

// CustomerTypeResponse represents a customer type
type CustomerTypeResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PartnerResponse represents a partner's pricing settings
type PartnerResponse struct {
	ID             uuid.UUID  `json:"id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	PricingMode    string     `json:"pricing_mode"`
	CustomerTypeID *uuid.UUID `json:"customer_type_id,omitempty"`
	Version        int        `json:"version"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToRuleRowResponse converts a rule row
func ToRuleRowResponse(r pricing.RuleRow) RuleRowResponse {
	return RuleRowResponse{
		ID:             r.ID,
		Table:          string(r.Table),
		OwnerKind:      string(r.Owner.Kind),
		OwnerID:        r.Owner.ID,
		Sequence:       r.Sequence,
		MinQty:         r.MinQty,
		MaxQty:         r.MaxQty,
		CustomerTypeID: r.CustomerTypeID,
		Percent:        r.Percent,
		Amount:         r.Amount,
		Margin:         r.Margin,
	}
}

func toPricingResponse(p *pricing.PricingProfile) PricingResponse {
	rules := make(map[string][]RuleRowResponse, len(pricing.TableKinds()))
	for _, kind := range pricing.TableKinds() {
		rows := p.Table(kind)
		out := make([]RuleRowResponse, len(rows))
		for i, r := range rows {
			out[i] = ToRuleRowResponse(r)
		}
		rules[string(kind)] = out
	}
	return PricingResponse{
		Strategy:                 string(p.Strategy),
		LastAcquisitionCost:      p.LastAcquisitionCost,
		OperationalMarginPercent: p.OperationalMarginPercent,
		LandingPrice:             p.LandingPrice,
		ListPrice:                p.ListPrice,
		BaseAcquisitionPrice:     p.BaseAcquisitionPrice,
		Rules:                    rules,
	}
}

// ToTemplateResponse converts a template
func ToTemplateResponse(t *pricing.Template) TemplateResponse {
	return TemplateResponse{
		ID:              t.ID,
		TenantID:        t.TenantID,
		Code:            t.Code,
		Name:            t.Name,
		AutoSyncEnabled: t.AutoSyncEnabled,
		PricingResponse: toPricingResponse(&t.PricingProfile),
		Version:         t.Version,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// ToVariantResponse converts a variant; templateAutoSync drives the reported state
func ToVariantResponse(v *pricing.Variant, templateAutoSync bool) VariantResponse {
	return VariantResponse{
		ID:               v.ID,
		TenantID:         v.TenantID,
		TemplateID:       v.TemplateID,
		Code:             v.Code,
		Name:             v.Name,
		HasCustomPricing: v.HasCustomPricing,
		SyncState:        string(v.State(templateAutoSync)),
		PricingResponse:  toPricingResponse(&v.PricingProfile),
		Version:          v.Version,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

func toResolutionResponse(res pricing.Resolution) PriceResolutionResponse {
	if !res.Matched {
		return PriceResolutionResponse{}
	}
	ruleID := res.RuleID
	amount := res.Amount
	margin := res.Margin
	return PriceResolutionResponse{
		Matched: true,
		Table:   string(res.Table),
		RuleID:  &ruleID,
		Amount:  &amount,
		Margin:  &margin,
	}
}

// ToCustomerTypeResponse converts a customer type
func ToCustomerTypeResponse(ct *pricing.CustomerType) CustomerTypeResponse {
	return CustomerTypeResponse{
		ID:        ct.ID,
		Code:      ct.Code,
		Name:      ct.Name,
		CreatedAt: ct.CreatedAt,
	}
}

// ToPartnerResponse converts a partner
func ToPartnerResponse(p *pricing.Partner) PartnerResponse {
	return PartnerResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		PricingMode:    string(p.PricingMode),
		CustomerTypeID: p.CustomerTypeID,
		Version:        p.Version,
		UpdatedAt:      p.UpdatedAt,
	}
}
