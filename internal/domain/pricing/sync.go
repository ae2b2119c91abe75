package pricing

import (
	"github.com/google/uuid"
)

// SyncScope selects what a propagation copies from a template
type SyncScope struct {
	Scalars  bool
	Families []Selector
}

// FullSync copies the pricing scalars and all six tables
var FullSync = SyncScope{Scalars: true, Families: []Selector{SelectorQuantity, SelectorCustomerType}}

// FamilySync copies only the three tables of one selector family
func FamilySync(selector Selector) SyncScope {
	return SyncScope{Families: []Selector{selector}}
}

// Tables returns the tables covered by the scope in canonical order
func (s SyncScope) Tables() []TableKind {
	var kinds []TableKind
	for _, kind := range TableKinds() {
		for _, f := range s.Families {
			if kind.Selector() == f {
				kinds = append(kinds, kind)
				break
			}
		}
	}
	return kinds
}

// SyncResult lists which variants a propagation touched
type SyncResult struct {
	TemplateID uuid.UUID
	Scope      SyncScope
	Synced     []uuid.UUID
	Skipped    []uuid.UUID
}

// Count returns the number of variants that were updated
func (r SyncResult) Count() int {
	return len(r.Synced)
}

// EligibleVariants returns the variants of t that have not been customized
func EligibleVariants(t *Template, variants []*Variant) []*Variant {
	var eligible []*Variant
	for _, v := range variants {
		if v != nil && v.TemplateID == t.ID && !v.HasCustomPricing {
			eligible = append(eligible, v)
		}
	}
	return eligible
}

// SyncTemplateToVariants copies the template's pricing scalars and all rule
// tables onto every non-customized variant. Customized variants are untouched.
func SyncTemplateToVariants(t *Template, variants []*Variant) SyncResult {
	return Propagate(t, variants, FullSync)
}

// SyncRuleFamily copies only one family of rule tables, used after a direct
// edit of a single template row.
func SyncRuleFamily(t *Template, variants []*Variant, selector Selector) SyncResult {
	return Propagate(t, variants, FamilySync(selector))
}

// Propagate applies the template to its eligible variants within the given scope
func Propagate(t *Template, variants []*Variant, scope SyncScope) SyncResult {
	result := SyncResult{TemplateID: t.ID, Scope: scope}
	for _, v := range variants {
		if v == nil || v.TemplateID != t.ID {
			continue
		}
		if v.HasCustomPricing {
			result.Skipped = append(result.Skipped, v.ID)
			continue
		}
		v.applyTemplate(t, scope)
		result.Synced = append(result.Synced, v.ID)
	}
	if result.Count() > 0 {
		t.AddDomainEvent(NewVariantsSyncedEvent(t, result))
	}
	return result
}
