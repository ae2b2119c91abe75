package pricing

import (
	"github.com/shopspring/decimal"
)

// TableKind identifies one of the six rule tables
type TableKind string

const (
	TableQuantityRegular           TableKind = "quantity_regular"
	TableQuantityListBased         TableKind = "quantity_list_based"
	TableQuantityPurchaseListBased TableKind = "quantity_purchase_list_based"
	TableCustomerRegular           TableKind = "customer_regular"
	TableCustomerListBased         TableKind = "customer_list_based"
	TableCustomerPurchaseListBased TableKind = "customer_purchase_list_based"
)

// PriceBase names a product price a rule formula reads
type PriceBase string

const (
	BaseLandingPrice         PriceBase = "landing_price"
	BaseListPrice            PriceBase = "list_price"
	BaseBaseAcquisitionPrice PriceBase = "base_acquisition_price"
)

// Direction is whether the percent marks the base up or discounts it
type Direction int

const (
	DirectionMarkup Direction = iota
	DirectionDiscount
)

// TableDescriptor describes how one table derives amount and margin
type TableDescriptor struct {
	Kind       TableKind
	Strategy   Strategy
	Selector   Selector
	Direction  Direction
	AmountBase PriceBase
	MarginBase PriceBase
}

var tableDescriptors = []TableDescriptor{
	{TableQuantityRegular, StrategyRegular, SelectorQuantity, DirectionMarkup, BaseLandingPrice, BaseLandingPrice},
	{TableQuantityListBased, StrategyListPriceBased, SelectorQuantity, DirectionDiscount, BaseListPrice, BaseBaseAcquisitionPrice},
	{TableQuantityPurchaseListBased, StrategyPurchaseListPriceBased, SelectorQuantity, DirectionDiscount, BaseListPrice, BaseLandingPrice},
	{TableCustomerRegular, StrategyRegular, SelectorCustomerType, DirectionMarkup, BaseLandingPrice, BaseLandingPrice},
	{TableCustomerListBased, StrategyListPriceBased, SelectorCustomerType, DirectionDiscount, BaseListPrice, BaseBaseAcquisitionPrice},
	{TableCustomerPurchaseListBased, StrategyPurchaseListPriceBased, SelectorCustomerType, DirectionDiscount, BaseListPrice, BaseLandingPrice},
}

type tableKey struct {
	strategy Strategy
	selector Selector
}

var (
	descriptorByKind = make(map[TableKind]TableDescriptor, len(tableDescriptors))
	kindByKey        = make(map[tableKey]TableKind, len(tableDescriptors))
)

func init() {
	for _, d := range tableDescriptors {
		descriptorByKind[d.Kind] = d
		kindByKey[tableKey{d.Strategy, d.Selector}] = d.Kind
	}
}

// TableKinds returns all table kinds in canonical order
func TableKinds() []TableKind {
	kinds := make([]TableKind, len(tableDescriptors))
	for i, d := range tableDescriptors {
		kinds[i] = d.Kind
	}
	return kinds
}

// TablesOf returns the three tables of a selector family
func TablesOf(selector Selector) []TableKind {
	var kinds []TableKind
	for _, d := range tableDescriptors {
		if d.Selector == selector {
			kinds = append(kinds, d.Kind)
		}
	}
	return kinds
}

// TableFor returns the table used for a strategy and selector
func TableFor(strategy Strategy, selector Selector) (TableKind, bool) {
	kind, ok := kindByKey[tableKey{strategy, selector}]
	return kind, ok
}

// ParseTableKind validates a table name
func ParseTableKind(s string) (TableKind, error) {
	kind := TableKind(s)
	if _, ok := descriptorByKind[kind]; !ok {
		return "", newValidationError(CodeInvalidTable, "Unknown rule table: "+s)
	}
	return kind, nil
}

// Descriptor returns the formula descriptor of the table
func (k TableKind) Descriptor() TableDescriptor {
	return descriptorByKind[k]
}

// Selector returns the family of the table
func (k TableKind) Selector() Selector {
	return descriptorByKind[k].Selector
}

// IsValid reports whether the table kind is known
func (k TableKind) IsValid() bool {
	_, ok := descriptorByKind[k]
	return ok
}

// BasePrices holds the product prices rule formulas read from
type BasePrices struct {
	LandingPrice         decimal.Decimal
	ListPrice            decimal.Decimal
	BaseAcquisitionPrice decimal.Decimal
}

// Of returns the value of the named base
func (b BasePrices) Of(base PriceBase) decimal.Decimal {
	switch base {
	case BaseLandingPrice:
		return b.LandingPrice
	case BaseListPrice:
		return b.ListPrice
	case BaseBaseAcquisitionPrice:
		return b.BaseAcquisitionPrice
	}
	return decimal.Zero
}

// Evaluate computes a row's amount and margin for the given percent.
// A zero amount base yields zero for both; a zero margin base yields a zero margin.
// The margin is unsigned for markup and discount tables alike.
func (d TableDescriptor) Evaluate(pct decimal.Decimal, bases BasePrices) (amount, margin decimal.Decimal) {
	base := bases.Of(d.AmountBase)
	if base.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	amount = Round2(applyPercent(base, pct, d.Direction))

	ref := bases.Of(d.MarginBase)
	if ref.IsZero() {
		return amount, decimal.Zero
	}
	return amount, Round2(amount.Sub(ref).Abs())
}
