package pricing

import (
	"strings"

	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/google/uuid"
)

// Template is a product template: the source of pricing data for its variants
type Template struct {
	shared.TenantAggregateRoot
	Code            string
	Name            string
	AutoSyncEnabled bool
	PricingProfile
}

// NewTemplate creates a new product template
func NewTemplate(tenantID uuid.UUID, code, name string, strategy Strategy, autoSync bool) (*Template, error) {
	if err := validateProductIdentity(code, name); err != nil {
		return nil, err
	}
	if strategy == "" {
		strategy = StrategyRegular
	}
	if !strategy.IsValid() {
		return nil, newValidationError(CodeInvalidStrategy, "Unknown pricing strategy: "+string(strategy))
	}

	t := &Template{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		AutoSyncEnabled:     autoSync,
		PricingProfile:      newPricingProfile(strategy),
	}
	t.AddDomainEvent(NewTemplateCreatedEvent(t))
	return t, nil
}

// Owner returns the owner reference used by this template's rule rows
func (t *Template) Owner() OwnerRef {
	return TemplateOwner(t.ID)
}

// UpdatePricing writes pricing scalars and recomputes landing price and rule amounts.
// It reports whether a sync-relevant value changed.
func (t *Template) UpdatePricing(in PricingInput) (bool, error) {
	changed, err := t.applyInput(in)
	if err != nil {
		return false, err
	}
	if changed {
		t.IncrementVersion()
		t.AddDomainEvent(NewTemplatePricingChangedEvent(t))
	}
	return changed, nil
}

// SetAutoSync toggles propagation to variants and reports whether it changed
func (t *Template) SetAutoSync(enabled bool) bool {
	if t.AutoSyncEnabled == enabled {
		return false
	}
	t.AutoSyncEnabled = enabled
	t.IncrementVersion()
	return true
}

// ReplaceRules replaces a whole rule table
func (t *Template) ReplaceRules(kind TableKind, specs []RuleSpec) error {
	if err := t.replaceTable(kind, t.Owner(), specs); err != nil {
		return err
	}
	t.rulesChanged(kind)
	return nil
}

// AddRule appends a row to a rule table
func (t *Template) AddRule(kind TableKind, spec RuleSpec) (RuleRow, error) {
	row, err := t.addRule(kind, t.Owner(), spec)
	if err != nil {
		return RuleRow{}, err
	}
	t.rulesChanged(kind)
	return row, nil
}

// UpdateRule rewrites one row's key and percent in place
func (t *Template) UpdateRule(id uuid.UUID, spec RuleSpec) (RuleRow, error) {
	row, err := t.updateRule(id, spec)
	if err != nil {
		return RuleRow{}, err
	}
	t.rulesChanged(row.Table)
	return row, nil
}

// RemoveRule deletes one row of the given table
func (t *Template) RemoveRule(kind TableKind, id uuid.UUID) error {
	if err := t.removeRule(kind, id); err != nil {
		return err
	}
	t.rulesChanged(kind)
	return nil
}

func (t *Template) rulesChanged(kind TableKind) {
	t.IncrementVersion()
	t.AddDomainEvent(NewTemplateRulesChangedEvent(t, kind))
}

func validateProductIdentity(code, name string) error {
	if strings.TrimSpace(code) == "" {
		return newValidationError(CodeValidation, "Product code cannot be empty")
	}
	if len(code) > 50 {
		return newValidationError(CodeValidation, "Product code cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return newValidationError(CodeValidation, "Product name cannot be empty")
	}
	if len(name) > 200 {
		return newValidationError(CodeValidation, "Product name cannot exceed 200 characters")
	}
	return nil
}
