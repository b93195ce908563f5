// Package ledger computes lender balances. Balances are safety-critical
// input to booking admission, so they are aggregated fresh from the raw
// payment and booking records on every call and never cached.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

// Rates bundles each apartment's seasonal rates for cost computation.
type Rates map[rental.ApartmentID][]*rental.SeasonalRate

// CurrentBalance is lifetime payments in EUR minus lifetime booking costs,
// rounded to cents. Empty payment or booking sets contribute zero.
func CurrentBalance(l *lender.Lender, payments []*lender.Payment, bookings []*booking.Booking, apartments map[rental.ApartmentID]*rental.Apartment, rates Rates) (decimal.Decimal, error) {
	totalPaid, err := TotalPaid(payments)
	if err != nil {
		return decimal.Zero, err
	}
	totalUsed, err := TotalUsed(l, bookings, apartments, rates)
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundCents(totalPaid.Sub(totalUsed)), nil
}

// TotalPaid sums the euro value of the given payments.
func TotalPaid(payments []*lender.Payment) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range payments {
		eur, err := p.AmountEUR()
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(eur)
	}
	return total, nil
}

// TotalUsed sums the cost of the given bookings.
func TotalUsed(l *lender.Lender, bookings []*booking.Booking, apartments map[rental.ApartmentID]*rental.Apartment, rates Rates) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range bookings {
		apartment, ok := apartments[b.ApartmentID]
		if !ok {
			return decimal.Zero, rental.ErrApartmentNotFound
		}
		cost, err := booking.TotalCost(b, apartment, rates[b.ApartmentID], l)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(cost)
	}
	return total, nil
}
