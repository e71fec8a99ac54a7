package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.True(t, Round(decimal.RequireFromString("10.005")).Equal(decimal.RequireFromString("10.01")))
	assert.True(t, Round(decimal.RequireFromString("-10.005")).Equal(decimal.RequireFromString("-10.01")))
	assert.True(t, Round(decimal.RequireFromString("3.333333")).Equal(decimal.RequireFromString("3.33")))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$12.50", Format(decimal.RequireFromString("12.5")))
	assert.Equal(t, "-$70.00", Format(decimal.NewFromInt(-70)))
	assert.Equal(t, "$0.00", Format(decimal.Zero))
}

func TestRatioZeroWhole(t *testing.T) {
	assert.True(t, Ratio(decimal.NewFromInt(5), decimal.Zero).IsZero())
	assert.True(t, Ratio(decimal.NewFromInt(1), decimal.NewFromInt(4)).Equal(decimal.RequireFromString("0.25")))
}

func TestSumAndNearlyEqual(t *testing.T) {
	third := Ratio(decimal.NewFromInt(100), decimal.NewFromInt(3))
	total := Sum(third, third, third)
	assert.False(t, total.Equal(decimal.NewFromInt(100)))
	assert.True(t, NearlyEqual(total, decimal.NewFromInt(100)))
	assert.False(t, NearlyEqual(decimal.RequireFromString("99.99"), decimal.NewFromInt(100)))
	assert.True(t, Sum().IsZero())
}
