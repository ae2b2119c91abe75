package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func qtySpec(minQty, maxQty *decimal.Decimal, pct string) RuleSpec {
	return RuleSpec{MinQty: minQty, MaxQty: maxQty, Percent: dec(pct)}
}

func customerSpec(customerTypeID uuid.UUID, pct string) RuleSpec {
	return RuleSpec{CustomerTypeID: &customerTypeID, Percent: dec(pct)}
}

func newTestTemplate(t *testing.T, strategy Strategy) *Template {
	t.Helper()
	tmpl, err := NewTemplate(testTenantID, "tmpl-001", "Test Template", strategy, true)
	require.NoError(t, err)
	return tmpl
}

func newTestVariant(t *testing.T, tmpl *Template, code string) *Variant {
	t.Helper()
	v, err := NewVariant(tmpl, code, "Variant "+code)
	require.NoError(t, err)
	return v
}

// rowKey is the comparable part of a rule row, ignoring ids and owner
type rowKey struct {
	Table    TableKind
	Sequence int
	MinQty   string
	MaxQty   string
	Customer string
	Percent  string
	Amount   string
	Margin   string
}

func keysOf(rows []RuleRow) []rowKey {
	keys := make([]rowKey, 0, len(rows))
	for _, r := range rows {
		k := rowKey{
			Table:    r.Table,
			Sequence: r.Sequence,
			Percent:  r.Percent.String(),
			Amount:   r.Amount.StringFixed(2),
			Margin:   r.Margin.StringFixed(2),
		}
		if r.MinQty != nil {
			k.MinQty = r.MinQty.String()
		}
		if r.MaxQty != nil {
			k.MaxQty = r.MaxQty.String()
		}
		if r.CustomerTypeID != nil {
			k.Customer = r.CustomerTypeID.String()
		}
		keys = append(keys, k)
	}
	return keys
}
