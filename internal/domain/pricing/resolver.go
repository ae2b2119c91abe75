package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Resolution is the outcome of a price lookup. Matched is false on a miss,
// which callers must treat as "keep the existing price".
type Resolution struct {
	Matched bool
	Table   TableKind
	RuleID  uuid.UUID
	Amount  decimal.Decimal
	Margin  decimal.Decimal
}

// Resolve finds the rule row that prices the partner's purchase of quantity
// units of product. It has no side effects and never fails: missing inputs
// resolve to a miss.
func Resolve(partner *Partner, product *PricingProfile, quantity decimal.Decimal) Resolution {
	kind, ok := applicableTable(partner, product)
	if !ok {
		return Resolution{}
	}
	idx := matchRow(partner, product.Rules[kind], quantity)
	if idx < 0 {
		return Resolution{}
	}
	row := product.Rules[kind][idx]
	return Resolution{
		Matched: true,
		Table:   kind,
		RuleID:  row.ID,
		Amount:  row.Amount,
		Margin:  row.Margin,
	}
}

// PriceDetails lists the table that prices a partner for a product, with the
// row that would be applied
type PriceDetails struct {
	Strategy   Strategy
	Selector   Selector
	Table      TableKind
	Rows       []RuleRow
	Resolution Resolution
}

// DescribePricing returns the applicable table and its rows; false when no table applies
func DescribePricing(partner *Partner, product *PricingProfile, quantity decimal.Decimal) (PriceDetails, bool) {
	kind, ok := applicableTable(partner, product)
	if !ok {
		return PriceDetails{}, false
	}
	rows := product.Rules[kind]
	return PriceDetails{
		Strategy:   product.Strategy,
		Selector:   kind.Selector(),
		Table:      kind,
		Rows:       append([]RuleRow(nil), rows...),
		Resolution: Resolve(partner, product, quantity),
	}, true
}

// NormalizeQuantity treats an unset or non-positive quantity as one unit
func NormalizeQuantity(q decimal.Decimal) decimal.Decimal {
	if !q.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return q
}

func applicableTable(partner *Partner, product *PricingProfile) (TableKind, bool) {
	if partner == nil || product == nil {
		return "", false
	}
	selector, ok := partner.PricingMode.Selector()
	if !ok {
		return "", false
	}
	return TableFor(product.Strategy, selector)
}

func matchRow(partner *Partner, rows []RuleRow, quantity decimal.Decimal) int {
	switch partner.PricingMode {
	case PricingModeFixed:
		if partner.CustomerTypeID == nil {
			return -1
		}
		for i, row := range rows {
			if row.MatchesCustomerType(*partner.CustomerTypeID) {
				return i
			}
		}
	case PricingModeQuantity:
		q := NormalizeQuantity(quantity)
		for i, row := range rows {
			if row.MatchesQuantity(q) {
				return i
			}
		}
	}
	return -1
}
