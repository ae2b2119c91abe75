package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds a derived monetary value to 2 decimal places, half away from zero
// (2.345 -> 2.35, -2.345 -> -2.35). Raw inputs and the landing price are never rounded.
func Round2(x decimal.Decimal) decimal.Decimal {
	return x.Round(2)
}

// ComputeLandingPrice derives the landing price from the last acquisition cost and
// the operational margin: cost × (1 + marginPercent/100), or zero when cost ≤ 0.
// The result keeps full precision.
func ComputeLandingPrice(cost, marginPercent decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return cost.Mul(hundred.Add(marginPercent)).Shift(-2)
}

// applyPercent returns base × (1 ± pct/100) without rounding
func applyPercent(base, pct decimal.Decimal, dir Direction) decimal.Decimal {
	factor := hundred.Add(pct)
	if dir == DirectionDiscount {
		factor = hundred.Sub(pct)
	}
	return base.Mul(factor).Shift(-2)
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
