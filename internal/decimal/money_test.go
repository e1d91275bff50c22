package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rezonia/mydata-gateway/internal/decimal"
)

func TestRound(t *testing.T) {
	assert.True(t, decimal.Round(dec.RequireFromString("10.005")).Equal(dec.RequireFromString("10.01")))
	assert.True(t, decimal.Round(dec.RequireFromString("10.004")).Equal(dec.RequireFromString("10")))
}

func TestIsZero(t *testing.T) {
	zero := dec.Zero
	one := dec.NewFromInt(1)

	assert.True(t, decimal.IsZero(&zero))
	assert.False(t, decimal.IsZero(&one))
	assert.False(t, decimal.IsZero(nil))
}

func TestCalculateVAT(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		rate     string
		expected string
	}{
		{"24% standard", "100", "24", "24"},
		{"13% reduced", "19.99", "13", "2.6"},
		{"6% super reduced", "10", "6", "0.6"},
		{"zero rate", "100", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := decimal.CalculateVAT(dec.RequireFromString(tt.amount), dec.RequireFromString(tt.rate))
			assert.True(t, result.Equal(dec.RequireFromString(tt.expected)), "got %s", result)
		})
	}
}

func TestSumPresent(t *testing.T) {
	a := dec.RequireFromString("10.10")
	b := dec.RequireFromString("5.05")

	sum, ok := decimal.SumPresent([]*dec.Decimal{&a, &b})
	assert.True(t, ok)
	assert.True(t, sum.Equal(dec.RequireFromString("15.15")))

	_, ok = decimal.SumPresent([]*dec.Decimal{&a, nil})
	assert.False(t, ok)

	sum, ok = decimal.SumPresent(nil)
	assert.True(t, ok)
	assert.True(t, sum.IsZero())
}

func TestEqualCents(t *testing.T) {
	assert.True(t, decimal.EqualCents(dec.RequireFromString("10.001"), dec.RequireFromString("10")))
	assert.False(t, decimal.EqualCents(dec.RequireFromString("10.01"), dec.RequireFromString("10")))
}
