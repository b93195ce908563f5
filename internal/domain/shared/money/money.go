package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCurrency      = errors.New("money: invalid currency code")
	ErrExchangeRateRequired = errors.New("money: positive exchange rate required for USD")
	ErrInvalidPercent       = errors.New("money: percent must be between 0 and 100")
)

// Currency is the set of currencies lenders pay in. Balances are always EUR.
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
)

// ParseCurrency validates a currency code from the boundary.
func ParseCurrency(code string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(code))) {
	case EUR:
		return EUR, nil
	case USD:
		return USD, nil
	default:
		return "", ErrInvalidCurrency
	}
}

// RoundCents rounds to two decimal places using banker's rounding.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// ToEUR converts an amount to euros. EUR amounts pass through unchanged
// apart from cent rounding; USD amounts are multiplied by the exchange rate
// before rounding so no precision is lost mid-computation.
func ToEUR(amount decimal.Decimal, currency Currency, rate decimal.Decimal) (decimal.Decimal, error) {
	switch currency {
	case EUR:
		return RoundCents(amount), nil
	case USD:
		if rate.Sign() <= 0 {
			return decimal.Zero, ErrExchangeRateRequired
		}
		return RoundCents(amount.Mul(rate)), nil
	default:
		return decimal.Zero, ErrInvalidCurrency
	}
}

// ApplyDiscount reduces amount by percent (0–100) and rounds to cents.
func ApplyDiscount(amount decimal.Decimal, percent decimal.Decimal) (decimal.Decimal, error) {
	if percent.Sign() < 0 || percent.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, ErrInvalidPercent
	}
	factor := decimal.NewFromInt(1).Sub(percent.Div(decimal.NewFromInt(100)))
	return RoundCents(amount.Mul(factor)), nil
}

// AdjustPercent applies a signed percentage adjustment (seasonal surcharges
// may be negative for off-season pricing) and rounds to cents.
func AdjustPercent(amount decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(percent.Div(decimal.NewFromInt(100)))
	return RoundCents(amount.Mul(factor))
}

// FormatEUR renders an amount in the German convention, e.g. 1234.5 -> "1.234,50".
func FormatEUR(d decimal.Decimal) string {
	fixed := RoundCents(d).StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
