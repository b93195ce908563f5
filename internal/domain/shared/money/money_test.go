package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	cur, err := ParseCurrency("eur")
	require.NoError(t, err)
	assert.Equal(t, EUR, cur)

	cur, err = ParseCurrency(" USD ")
	require.NoError(t, err)
	assert.Equal(t, USD, cur)

	_, err = ParseCurrency("CHF")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestRoundCentsUsesBankersRounding(t *testing.T) {
	assert.Equal(t, "0.12", RoundCents(decimal.RequireFromString("0.125")).StringFixed(2))
	assert.Equal(t, "0.14", RoundCents(decimal.RequireFromString("0.135")).StringFixed(2))
	assert.Equal(t, "1.00", RoundCents(decimal.RequireFromString("0.995")).StringFixed(2))
}

func TestToEUR(t *testing.T) {
	eur, err := ToEUR(decimal.RequireFromString("1000"), EUR, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", eur.StringFixed(2))

	eur, err = ToEUR(decimal.RequireFromString("1000"), USD, decimal.RequireFromString("0.92"))
	require.NoError(t, err)
	assert.Equal(t, "920.00", eur.StringFixed(2))

	_, err = ToEUR(decimal.RequireFromString("100"), USD, decimal.Zero)
	assert.ErrorIs(t, err, ErrExchangeRateRequired)

	_, err = ToEUR(decimal.RequireFromString("100"), Currency("CHF"), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestApplyDiscount(t *testing.T) {
	out, err := ApplyDiscount(decimal.RequireFromString("100"), decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.Equal(t, "90.00", out.StringFixed(2))

	out, err = ApplyDiscount(decimal.RequireFromString("100"), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "100.00", out.StringFixed(2))

	_, err = ApplyDiscount(decimal.RequireFromString("100"), decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrInvalidPercent)

	_, err = ApplyDiscount(decimal.RequireFromString("100"), decimal.RequireFromString("101"))
	assert.ErrorIs(t, err, ErrInvalidPercent)
}

func TestAdjustPercent(t *testing.T) {
	assert.Equal(t, "120.00", AdjustPercent(decimal.RequireFromString("100"), decimal.RequireFromString("20")).StringFixed(2))
	assert.Equal(t, "85.00", AdjustPercent(decimal.RequireFromString("100"), decimal.RequireFromString("-15")).StringFixed(2))
}

func TestFormatEUR(t *testing.T) {
	assert.Equal(t, "1.234,50", FormatEUR(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0,50", FormatEUR(decimal.RequireFromString("0.5")))
	assert.Equal(t, "-1.234.567,89", FormatEUR(decimal.RequireFromString("-1234567.891")))
	assert.Equal(t, "100,00", FormatEUR(decimal.RequireFromString("100")))
}
