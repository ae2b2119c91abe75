package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.345", "2.35"},
		{"-2.345", "-2.35"},
		{"1.005", "1.01"},
		{"2.344", "2.34"},
		{"2.3449", "2.34"},
		{"110", "110.00"},
		{"0.125", "0.13"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Round2(dec(tt.in)).StringFixed(2))
		})
	}
}

func TestComputeLandingPrice(t *testing.T) {
	t.Run("zero cost yields zero regardless of margin", func(t *testing.T) {
		for _, margin := range []string{"0", "25", "-50", "1000"} {
			assert.True(t, ComputeLandingPrice(decimal.Zero, dec(margin)).IsZero(), "margin %s", margin)
		}
	})

	t.Run("negative cost yields zero", func(t *testing.T) {
		assert.True(t, ComputeLandingPrice(dec("-10"), dec("25")).IsZero())
	})

	t.Run("applies margin to cost", func(t *testing.T) {
		assert.True(t, ComputeLandingPrice(dec("80"), dec("25")).Equal(dec("100")))
	})

	t.Run("negative margin lowers the price", func(t *testing.T) {
		assert.True(t, ComputeLandingPrice(dec("200"), dec("-10")).Equal(dec("180")))
	})

	t.Run("keeps full precision", func(t *testing.T) {
		got := ComputeLandingPrice(dec("33.33"), dec("12.345"))
		assert.Equal(t, "37.4445885", got.String())
	})
}
