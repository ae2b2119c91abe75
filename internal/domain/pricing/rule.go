package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OwnerKind tags which kind of product owns a rule row
type OwnerKind string

const (
	OwnerTemplate OwnerKind = "template"
	OwnerVariant  OwnerKind = "variant"
)

// OwnerRef points at the single product entity owning a rule row
type OwnerRef struct {
	Kind OwnerKind
	ID   uuid.UUID
}

// TemplateOwner returns an owner reference to a template
func TemplateOwner(id uuid.UUID) OwnerRef {
	return OwnerRef{Kind: OwnerTemplate, ID: id}
}

// VariantOwner returns an owner reference to a variant
func VariantOwner(id uuid.UUID) OwnerRef {
	return OwnerRef{Kind: OwnerVariant, ID: id}
}

// Validate checks that the reference names exactly one owner
func (o OwnerRef) Validate() error {
	if o.Kind != OwnerTemplate && o.Kind != OwnerVariant {
		return newValidationError(CodeInvalidRule, "Rule owner must be a template or a variant")
	}
	if o.ID == uuid.Nil {
		return newValidationError(CodeInvalidRule, "Rule owner id is required")
	}
	return nil
}

// RuleSpec is the caller-supplied part of a rule row: its key and percent
type RuleSpec struct {
	MinQty         *decimal.Decimal
	MaxQty         *decimal.Decimal
	CustomerTypeID *uuid.UUID
	Percent        decimal.Decimal
}

func (s RuleSpec) clone() RuleSpec {
	c := RuleSpec{
		MinQty:  cloneDecimal(s.MinQty),
		MaxQty:  cloneDecimal(s.MaxQty),
		Percent: s.Percent,
	}
	if s.CustomerTypeID != nil {
		id := *s.CustomerTypeID
		c.CustomerTypeID = &id
	}
	return c
}

func (s RuleSpec) validate(kind TableKind) error {
	switch kind.Selector() {
	case SelectorQuantity:
		if s.CustomerTypeID != nil {
			return newValidationError(CodeInvalidRule, "Quantity rules cannot reference a customer type")
		}
		if s.MinQty != nil && s.MinQty.IsNegative() {
			return newValidationError(CodeInvalidQuantityRange, "Minimum quantity cannot be negative")
		}
		if s.MaxQty != nil && s.MaxQty.IsNegative() {
			return newValidationError(CodeInvalidQuantityRange, "Maximum quantity cannot be negative")
		}
		if s.MinQty != nil && s.MaxQty != nil && s.MinQty.GreaterThan(*s.MaxQty) {
			return newValidationError(CodeInvalidQuantityRange, "Minimum quantity cannot exceed maximum quantity")
		}
	case SelectorCustomerType:
		if s.CustomerTypeID == nil || *s.CustomerTypeID == uuid.Nil {
			return newValidationError(CodeCustomerTypeRequired, "Customer rules require a customer type")
		}
		if s.MinQty != nil || s.MaxQty != nil {
			return newValidationError(CodeInvalidRule, "Customer rules cannot carry quantity bounds")
		}
	default:
		return newValidationError(CodeInvalidTable, "Unknown rule table: "+string(kind))
	}
	return nil
}

// RuleRow is one row of a rule table. Amount and Margin are derived from
// Percent and the owner's base prices and are never set by callers.
type RuleRow struct {
	ID             uuid.UUID
	Table          TableKind
	Owner          OwnerRef
	Sequence       int
	MinQty         *decimal.Decimal
	MaxQty         *decimal.Decimal
	CustomerTypeID *uuid.UUID
	Percent        decimal.Decimal
	Amount         decimal.Decimal
	Margin         decimal.Decimal
}

func newRuleRow(kind TableKind, owner OwnerRef, sequence int, spec RuleSpec, bases BasePrices) (RuleRow, error) {
	if !kind.IsValid() {
		return RuleRow{}, newValidationError(CodeInvalidTable, "Unknown rule table: "+string(kind))
	}
	if err := owner.Validate(); err != nil {
		return RuleRow{}, err
	}
	if err := spec.validate(kind); err != nil {
		return RuleRow{}, err
	}
	spec = spec.clone()
	row := RuleRow{
		ID:             uuid.New(),
		Table:          kind,
		Owner:          owner,
		Sequence:       sequence,
		MinQty:         spec.MinQty,
		MaxQty:         spec.MaxQty,
		CustomerTypeID: spec.CustomerTypeID,
		Percent:        spec.Percent,
	}
	row.recompute(bases)
	return row, nil
}

// RestoreRuleRow rebuilds a persisted row without re-deriving its amounts
func RestoreRuleRow(id uuid.UUID, kind TableKind, owner OwnerRef, sequence int, spec RuleSpec, amount, margin decimal.Decimal) RuleRow {
	return RuleRow{
		ID:             id,
		Table:          kind,
		Owner:          owner,
		Sequence:       sequence,
		MinQty:         spec.MinQty,
		MaxQty:         spec.MaxQty,
		CustomerTypeID: spec.CustomerTypeID,
		Percent:        spec.Percent,
		Amount:         amount,
		Margin:         margin,
	}
}

// Spec returns a copy of the row's key and percent
func (r RuleRow) Spec() RuleSpec {
	return RuleSpec{
		MinQty:         r.MinQty,
		MaxQty:         r.MaxQty,
		CustomerTypeID: r.CustomerTypeID,
		Percent:        r.Percent,
	}.clone()
}

// MatchesQuantity reports whether q falls inside the row's quantity bounds.
// A missing bound is open on that side.
func (r RuleRow) MatchesQuantity(q decimal.Decimal) bool {
	if r.MinQty != nil && q.LessThan(*r.MinQty) {
		return false
	}
	if r.MaxQty != nil && q.GreaterThan(*r.MaxQty) {
		return false
	}
	return true
}

// MatchesCustomerType reports whether the row is keyed by the given customer type
func (r RuleRow) MatchesCustomerType(id uuid.UUID) bool {
	return r.CustomerTypeID != nil && *r.CustomerTypeID == id
}

func (r *RuleRow) recompute(bases BasePrices) {
	r.Amount, r.Margin = r.Table.Descriptor().Evaluate(r.Percent, bases)
}
