package pricing

// Strategy selects which pair of rule tables applies to a product
type Strategy string

const (
	StrategyRegular                Strategy = "regular"
	StrategyListPriceBased         Strategy = "list_price_based"
	StrategyPurchaseListPriceBased Strategy = "purchase_list_price_based"
)

// IsValid reports whether the strategy is one of the known strategies
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyRegular, StrategyListPriceBased, StrategyPurchaseListPriceBased:
		return true
	}
	return false
}

// ParseStrategy parses a strategy name, defaulting an empty value to regular
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return StrategyRegular, nil
	}
	strategy := Strategy(s)
	if !strategy.IsValid() {
		return "", newValidationError(CodeInvalidStrategy, "Unknown pricing strategy: "+s)
	}
	return strategy, nil
}

// Selector is the lookup key kind of a rule table
type Selector string

const (
	SelectorQuantity     Selector = "quantity"
	SelectorCustomerType Selector = "customer_type"
)

// Selectors lists the selector families in table order
func Selectors() []Selector {
	return []Selector{SelectorQuantity, SelectorCustomerType}
}

// PricingMode is how a partner is priced
type PricingMode string

const (
	PricingModeQuantity PricingMode = "quantity"
	PricingModeFixed    PricingMode = "fixed"
)

// IsValid reports whether the mode is known
func (m PricingMode) IsValid() bool {
	return m == PricingModeQuantity || m == PricingModeFixed
}

// Selector returns the rule family the mode resolves against
func (m PricingMode) Selector() (Selector, bool) {
	switch m {
	case PricingModeQuantity:
		return SelectorQuantity, true
	case PricingModeFixed:
		return SelectorCustomerType, true
	}
	return "", false
}

// WriteOrigin tags a pricing write so propagated writes are not mistaken for direct edits
type WriteOrigin int

const (
	OriginDirect WriteOrigin = iota
	OriginSync
)

func (o WriteOrigin) String() string {
	if o == OriginSync {
		return "sync"
	}
	return "direct"
}
