package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleTables holds the ordered rows of each rule table
type RuleTables map[TableKind][]RuleRow

// PricingProfile is the pricing surface shared by templates and variants
type PricingProfile struct {
	Strategy                 Strategy
	LastAcquisitionCost      decimal.Decimal
	OperationalMarginPercent decimal.Decimal
	LandingPrice             decimal.Decimal
	ListPrice                decimal.Decimal
	BaseAcquisitionPrice     decimal.Decimal
	Rules                    RuleTables
}

func newPricingProfile(strategy Strategy) PricingProfile {
	if strategy == "" {
		strategy = StrategyRegular
	}
	return PricingProfile{
		Strategy:                 strategy,
		LastAcquisitionCost:      decimal.Zero,
		OperationalMarginPercent: decimal.Zero,
		LandingPrice:             decimal.Zero,
		ListPrice:                decimal.Zero,
		BaseAcquisitionPrice:     decimal.Zero,
		Rules:                    make(RuleTables),
	}
}

// PricingInput is a partial update of pricing scalars; nil fields are left unchanged
type PricingInput struct {
	Strategy                 *Strategy
	LastAcquisitionCost      *decimal.Decimal
	OperationalMarginPercent *decimal.Decimal
	ListPrice                *decimal.Decimal
	BaseAcquisitionPrice     *decimal.Decimal
}

// IsEmpty reports whether the input sets nothing
func (in PricingInput) IsEmpty() bool {
	return in.Strategy == nil && in.LastAcquisitionCost == nil && in.OperationalMarginPercent == nil &&
		in.ListPrice == nil && in.BaseAcquisitionPrice == nil
}

func (in PricingInput) validate() error {
	if in.Strategy != nil && !in.Strategy.IsValid() {
		return newValidationError(CodeInvalidStrategy, "Unknown pricing strategy: "+string(*in.Strategy))
	}
	if in.LastAcquisitionCost != nil && in.LastAcquisitionCost.IsNegative() {
		return newValidationError(CodeNegativePrice, "Last acquisition cost cannot be negative")
	}
	if in.ListPrice != nil && in.ListPrice.IsNegative() {
		return newValidationError(CodeNegativePrice, "List price cannot be negative")
	}
	if in.BaseAcquisitionPrice != nil && in.BaseAcquisitionPrice.IsNegative() {
		return newValidationError(CodeNegativePrice, "Base acquisition price cannot be negative")
	}
	return nil
}

// Bases returns the prices rule formulas read from
func (p *PricingProfile) Bases() BasePrices {
	return BasePrices{
		LandingPrice:         p.LandingPrice,
		ListPrice:            p.ListPrice,
		BaseAcquisitionPrice: p.BaseAcquisitionPrice,
	}
}

// Table returns the rows of one table in order
func (p *PricingProfile) Table(kind TableKind) []RuleRow {
	return p.Rules[kind]
}

// AllRules returns every row across the six tables in canonical order
func (p *PricingProfile) AllRules() []RuleRow {
	var rows []RuleRow
	for _, kind := range TableKinds() {
		rows = append(rows, p.Rules[kind]...)
	}
	return rows
}

// FindRule locates a row by id
func (p *PricingProfile) FindRule(id uuid.UUID) (RuleRow, bool) {
	kind, idx, ok := p.locateRule(id)
	if !ok {
		return RuleRow{}, false
	}
	return p.Rules[kind][idx], true
}

func (p *PricingProfile) locateRule(id uuid.UUID) (TableKind, int, bool) {
	for kind, rows := range p.Rules {
		for i := range rows {
			if rows[i].ID == id {
				return kind, i, true
			}
		}
	}
	return "", 0, false
}

// applyInput writes the given scalars and recomputes everything derived from them.
// It reports whether any stored value changed.
func (p *PricingProfile) applyInput(in PricingInput) (bool, error) {
	if err := in.validate(); err != nil {
		return false, err
	}
	changed := false
	if in.Strategy != nil && *in.Strategy != p.Strategy {
		p.Strategy = *in.Strategy
		changed = true
	}
	changed = setDecimal(&p.LastAcquisitionCost, in.LastAcquisitionCost) || changed
	changed = setDecimal(&p.OperationalMarginPercent, in.OperationalMarginPercent) || changed
	changed = setDecimal(&p.ListPrice, in.ListPrice) || changed
	changed = setDecimal(&p.BaseAcquisitionPrice, in.BaseAcquisitionPrice) || changed

	p.recomputeLanding()
	p.recomputeRules()
	return changed, nil
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) bool {
	if v == nil || dst.Equal(*v) {
		return false
	}
	*dst = *v
	return true
}

func (p *PricingProfile) recomputeLanding() {
	p.LandingPrice = ComputeLandingPrice(p.LastAcquisitionCost, p.OperationalMarginPercent)
}

func (p *PricingProfile) recomputeRules() {
	bases := p.Bases()
	for kind, rows := range p.Rules {
		for i := range rows {
			rows[i].recompute(bases)
		}
		p.Rules[kind] = rows
	}
}

func (p *PricingProfile) ensureRules() {
	if p.Rules == nil {
		p.Rules = make(RuleTables)
	}
}

// replaceTable swaps a whole table; nothing changes if any spec is invalid
func (p *PricingProfile) replaceTable(kind TableKind, owner OwnerRef, specs []RuleSpec) error {
	if !kind.IsValid() {
		return newValidationError(CodeInvalidTable, "Unknown rule table: "+string(kind))
	}
	bases := p.Bases()
	rows := make([]RuleRow, 0, len(specs))
	for i, spec := range specs {
		row, err := newRuleRow(kind, owner, i+1, spec, bases)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	p.ensureRules()
	p.Rules[kind] = rows
	return nil
}

func (p *PricingProfile) addRule(kind TableKind, owner OwnerRef, spec RuleSpec) (RuleRow, error) {
	p.ensureRules()
	row, err := newRuleRow(kind, owner, len(p.Rules[kind])+1, spec, p.Bases())
	if err != nil {
		return RuleRow{}, err
	}
	p.Rules[kind] = append(p.Rules[kind], row)
	return row, nil
}

func (p *PricingProfile) updateRule(id uuid.UUID, spec RuleSpec) (RuleRow, error) {
	kind, idx, ok := p.locateRule(id)
	if !ok {
		return RuleRow{}, ErrRuleNotFound
	}
	if err := spec.validate(kind); err != nil {
		return RuleRow{}, err
	}
	spec = spec.clone()
	row := &p.Rules[kind][idx]
	row.MinQty = spec.MinQty
	row.MaxQty = spec.MaxQty
	row.CustomerTypeID = spec.CustomerTypeID
	row.Percent = spec.Percent
	row.recompute(p.Bases())
	return *row, nil
}

// removeRule deletes a row of the given table. A row that lives in another
// table is not found.
func (p *PricingProfile) removeRule(kind TableKind, id uuid.UUID) error {
	found, idx, ok := p.locateRule(id)
	if !ok || found != kind {
		return ErrRuleNotFound
	}
	rows := append(p.Rules[kind][:idx:idx], p.Rules[kind][idx+1:]...)
	for i := range rows {
		rows[i].Sequence = i + 1
	}
	p.Rules[kind] = rows
	return nil
}
