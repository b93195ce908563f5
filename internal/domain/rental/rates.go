package rental

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

// ResolveNightlyRate determines the effective nightly price for a stay.
// A seasonal rate applies when it covers every charged night of the range;
// when several apply, the one with the earliest start date wins.
// Overlapping rates are never summed or averaged.
func ResolveNightlyRate(apartment *Apartment, rates []*SeasonalRate, dr daterange.DateRange) decimal.Decimal {
	sorted := make([]*SeasonalRate, len(rates))
	copy(sorted, rates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	lastNight := dr.LastNight()
	for _, rate := range sorted {
		if rate.ApartmentID != apartment.ID {
			continue
		}
		if dr.Start.Before(rate.StartDate) || lastNight.After(rate.EndDate) {
			continue
		}
		if rate.PricePerNight != nil {
			return *rate.PricePerNight
		}
		if rate.PercentAdjust != nil {
			return money.AdjustPercent(apartment.PricePerNight, *rate.PercentAdjust)
		}
	}
	return apartment.PricePerNight
}

// PriceAfterDiscount is the nightly rate after the lender's personal
// discount, rounded to cents.
func PriceAfterDiscount(apartment *Apartment, rates []*SeasonalRate, l *lender.Lender, dr daterange.DateRange) (decimal.Decimal, error) {
	nightly := ResolveNightlyRate(apartment, rates, dr)
	return money.ApplyDiscount(nightly, l.DiscountPercent)
}
