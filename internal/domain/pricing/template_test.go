package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplate(t *testing.T) {
	t.Run("creates template with defaults", func(t *testing.T) {
		tmpl, err := NewTemplate(testTenantID, "shirt", "Shirt", "", true)
		require.NoError(t, err)
		assert.Equal(t, "SHIRT", tmpl.Code)
		assert.Equal(t, StrategyRegular, tmpl.Strategy)
		assert.True(t, tmpl.AutoSyncEnabled)
		assert.True(t, tmpl.LandingPrice.IsZero())
		require.Len(t, tmpl.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeTemplateCreated, tmpl.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewTemplate(testTenantID, " ", "Shirt", StrategyRegular, true)
		assert.True(t, IsValidationError(err))
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		_, err := NewTemplate(testTenantID, "shirt", "Shirt", Strategy("auction"), true)
		assert.True(t, IsValidationError(err))
	})
}

func TestTemplate_UpdatePricing(t *testing.T) {
	t.Run("recomputes landing and rule amounts", func(t *testing.T) {
		tmpl := newTestTemplate(t, StrategyRegular)
		require.NoError(t, tmpl.ReplaceRules(TableQuantityRegular, []RuleSpec{qtySpec(nil, nil, "10")}))
		assert.True(t, tmpl.Table(TableQuantityRegular)[0].Amount.IsZero())

		changed, err := tmpl.UpdatePricing(PricingInput{LastAcquisitionCost: decPtr("80"), OperationalMarginPercent: decPtr("25")})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, tmpl.LandingPrice.Equal(dec("100")))
		assert.Equal(t, "110.00", tmpl.Table(TableQuantityRegular)[0].Amount.StringFixed(2))
	})

	t.Run("reports unchanged writes", func(t *testing.T) {
		tmpl := templateWithLanding(t, StrategyRegular, "80", "25")
		version := tmpl.GetVersion()
		changed, err := tmpl.UpdatePricing(PricingInput{LastAcquisitionCost: decPtr("80.00")})
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, version, tmpl.GetVersion())
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		tmpl := newTestTemplate(t, StrategyRegular)
		for _, in := range []PricingInput{
			{LastAcquisitionCost: decPtr("-1")},
			{ListPrice: decPtr("-0.01")},
			{BaseAcquisitionPrice: decPtr("-5")},
		} {
			_, err := tmpl.UpdatePricing(in)
			assert.True(t, IsValidationError(err))
		}
	})

	t.Run("negative margin is allowed", func(t *testing.T) {
		tmpl := templateWithLanding(t, StrategyRegular, "100", "-20")
		assert.True(t, tmpl.LandingPrice.Equal(dec("80")))
	})

	t.Run("list price change recomputes list based rows", func(t *testing.T) {
		tmpl := newTestTemplate(t, StrategyListPriceBased)
		require.NoError(t, tmpl.ReplaceRules(TableCustomerListBased, []RuleSpec{customerSpec(uuid.New(), "10")}))
		_, err := tmpl.UpdatePricing(PricingInput{ListPrice: decPtr("50")})
		require.NoError(t, err)
		assert.Equal(t, "45.00", tmpl.Table(TableCustomerListBased)[0].Amount.StringFixed(2))
	})
}

func TestTemplate_Rules(t *testing.T) {
	t.Run("invalid spec leaves table untouched", func(t *testing.T) {
		tmpl := newTestTemplate(t, StrategyRegular)
		require.NoError(t, tmpl.ReplaceRules(TableQuantityRegular, []RuleSpec{qtySpec(nil, nil, "10")}))
		err := tmpl.ReplaceRules(TableQuantityRegular, []RuleSpec{
			qtySpec(nil, nil, "5"),
			qtySpec(decPtr("9"), decPtr("1"), "5"),
		})
		require.Error(t, err)
		require.Len(t, tmpl.Table(TableQuantityRegular), 1)
		assert.True(t, tmpl.Table(TableQuantityRegular)[0].Percent.Equal(dec("10")))
	})

	t.Run("add and remove keep sequence contiguous", func(t *testing.T) {
		tmpl := newTestTemplate(t, StrategyRegular)
		first, err := tmpl.AddRule(TableQuantityRegular, qtySpec(nil, decPtr("10"), "10"))
		require.NoError(t, err)
		_, err = tmpl.AddRule(TableQuantityRegular, qtySpec(decPtr("10"), decPtr("20"), "8"))
		require.NoError(t, err)
		third, err := tmpl.AddRule(TableQuantityRegular, qtySpec(decPtr("20"), nil, "6"))
		require.NoError(t, err)
		assert.Equal(t, 3, third.Sequence)
		assert.Equal(t, tmpl.Owner(), first.Owner)

		require.NoError(t, tmpl.RemoveRule(TableQuantityRegular, first.ID))
		rows := tmpl.Table(TableQuantityRegular)
		require.Len(t, rows, 2)
		assert.Equal(t, 1, rows[0].Sequence)
		assert.Equal(t, 2, rows[1].Sequence)
	})

	t.Run("unknown rule id", func(t *testing.T) {
		tmpl := newTestTemplate(t, StrategyRegular)
		_, err := tmpl.UpdateRule(uuid.New(), qtySpec(nil, nil, "1"))
		assert.ErrorIs(t, err, ErrRuleNotFound)
		err = tmpl.RemoveRule(TableQuantityRegular, uuid.New())
		assert.ErrorIs(t, err, ErrRuleNotFound)
	})

	t.Run("remove under another table leaves the row", func(t *testing.T) {
		tmpl := newTestTemplate(t, StrategyRegular)
		row, err := tmpl.AddRule(TableQuantityRegular, qtySpec(nil, nil, "10"))
		require.NoError(t, err)
		version := tmpl.GetVersion()

		err = tmpl.RemoveRule(TableCustomerRegular, row.ID)
		assert.ErrorIs(t, err, ErrRuleNotFound)
		require.Len(t, tmpl.Table(TableQuantityRegular), 1)
		assert.Equal(t, version, tmpl.GetVersion())
	})

	t.Run("update keeps row id and recomputes", func(t *testing.T) {
		tmpl := templateWithLanding(t, StrategyRegular, "80", "25")
		row, err := tmpl.AddRule(TableQuantityRegular, qtySpec(nil, nil, "10"))
		require.NoError(t, err)
		updated, err := tmpl.UpdateRule(row.ID, qtySpec(decPtr("2"), nil, "12.5"))
		require.NoError(t, err)
		assert.Equal(t, row.ID, updated.ID)
		assert.Equal(t, "112.50", updated.Amount.StringFixed(2))
		assert.Equal(t, "12.50", updated.Margin.StringFixed(2))
	})
}

func TestTemplate_SetAutoSync(t *testing.T) {
	tmpl := newTestTemplate(t, StrategyRegular)
	assert.False(t, tmpl.SetAutoSync(true))
	assert.True(t, tmpl.SetAutoSync(false))
	assert.False(t, tmpl.AutoSyncEnabled)
}
