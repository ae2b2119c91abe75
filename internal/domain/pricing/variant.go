package pricing

import (
	"strings"

	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/google/uuid"
)

// SyncState is a variant's position relative to its template's propagation
type SyncState string

const (
	// SyncStateSynced variants receive every propagation from their template
	SyncStateSynced SyncState = "synced"
	// SyncStateOverridden variants were edited directly and are skipped until reset
	SyncStateOverridden SyncState = "overridden"
	// SyncStateDetached variants are not customized but their template has auto sync off
	SyncStateDetached SyncState = "detached"
)

// Variant is a concrete product under a template. Its pricing mirrors the
// template until it is edited directly.
type Variant struct {
	shared.TenantAggregateRoot
	TemplateID       uuid.UUID
	Code             string
	Name             string
	HasCustomPricing bool
	PricingProfile
}

// NewVariant creates a variant of the given template with empty pricing
func NewVariant(template *Template, code, name string) (*Variant, error) {
	if template == nil {
		return nil, newValidationError(CodeValidation, "Variant requires a template")
	}
	if err := validateProductIdentity(code, name); err != nil {
		return nil, err
	}

	v := &Variant{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(template.TenantID),
		TemplateID:          template.ID,
		Code:                strings.ToUpper(code),
		Name:                name,
		PricingProfile:      newPricingProfile(template.Strategy),
	}
	v.AddDomainEvent(NewVariantCreatedEvent(v))
	return v, nil
}

// Owner returns the owner reference used by this variant's rule rows
func (v *Variant) Owner() OwnerRef {
	return VariantOwner(v.ID)
}

// State reports the sync state given the owning template's auto sync flag
func (v *Variant) State(templateAutoSync bool) SyncState {
	switch {
	case v.HasCustomPricing:
		return SyncStateOverridden
	case templateAutoSync:
		return SyncStateSynced
	default:
		return SyncStateDetached
	}
}

// UpdatePricing writes pricing scalars. A direct write marks the variant overridden.
func (v *Variant) UpdatePricing(in PricingInput, origin WriteOrigin) (bool, error) {
	changed, err := v.applyInput(in)
	if err != nil {
		return false, err
	}
	if !in.IsEmpty() {
		v.recordWrite(origin)
	}
	return changed, nil
}

// ReplaceRules replaces a whole rule table
func (v *Variant) ReplaceRules(kind TableKind, specs []RuleSpec, origin WriteOrigin) error {
	if err := v.replaceTable(kind, v.Owner(), specs); err != nil {
		return err
	}
	v.recordWrite(origin)
	return nil
}

// AddRule appends a row to a rule table
func (v *Variant) AddRule(kind TableKind, spec RuleSpec, origin WriteOrigin) (RuleRow, error) {
	row, err := v.addRule(kind, v.Owner(), spec)
	if err != nil {
		return RuleRow{}, err
	}
	v.recordWrite(origin)
	return row, nil
}

// UpdateRule rewrites one row's key and percent
func (v *Variant) UpdateRule(id uuid.UUID, spec RuleSpec, origin WriteOrigin) (RuleRow, error) {
	row, err := v.updateRule(id, spec)
	if err != nil {
		return RuleRow{}, err
	}
	v.recordWrite(origin)
	return row, nil
}

// RemoveRule deletes one row of the given table
func (v *Variant) RemoveRule(kind TableKind, id uuid.UUID, origin WriteOrigin) error {
	if err := v.removeRule(kind, id); err != nil {
		return err
	}
	v.recordWrite(origin)
	return nil
}

// ResetToTemplate clears the override flag. The caller must propagate the
// template into the variant afterwards. Reports whether the flag was set.
func (v *Variant) ResetToTemplate() bool {
	wasOverridden := v.HasCustomPricing
	v.HasCustomPricing = false
	v.IncrementVersion()
	v.AddDomainEvent(NewVariantResetToTemplateEvent(v))
	return wasOverridden
}

func (v *Variant) recordWrite(origin WriteOrigin) {
	v.IncrementVersion()
	if origin == OriginSync || v.HasCustomPricing {
		return
	}
	v.HasCustomPricing = true
	v.AddDomainEvent(NewVariantPricingOverriddenEvent(v))
}

// applyTemplate copies template pricing into the variant as a sync-originated write.
// Variant rows in the covered tables are replaced by fresh rows with new ids.
func (v *Variant) applyTemplate(t *Template, scope SyncScope) {
	if scope.Scalars {
		v.Strategy = t.Strategy
		v.LastAcquisitionCost = t.LastAcquisitionCost
		v.OperationalMarginPercent = t.OperationalMarginPercent
		v.LandingPrice = t.LandingPrice
		v.ListPrice = t.ListPrice
	}

	v.ensureRules()
	owner := v.Owner()
	for _, kind := range scope.Tables() {
		src := t.Rules[kind]
		rows := make([]RuleRow, 0, len(src))
		for i, r := range src {
			spec := r.Spec()
			rows = append(rows, RuleRow{
				ID:             uuid.New(),
				Table:          kind,
				Owner:          owner,
				Sequence:       i + 1,
				MinQty:         spec.MinQty,
				MaxQty:         spec.MaxQty,
				CustomerTypeID: spec.CustomerTypeID,
				Percent:        spec.Percent,
			})
		}
		v.Rules[kind] = rows
	}
	v.recomputeRules()
	v.recordWrite(OriginSync)
}
