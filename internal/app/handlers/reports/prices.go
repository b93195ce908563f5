package reports

import (
	"context"
	"time"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

const priceListKey = "reports.prices"

// PriceListQuery lists every apartment with its base price, the price in
// effect right now and all seasonal overrides.
type PriceListQuery struct {
	// Today overrides the reference date, mainly for tests. Zero means now.
	Today time.Time
}

func (q PriceListQuery) Key() string { return priceListKey }

type PriceListHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *PriceListHandler) Handle(ctx context.Context, q PriceListQuery) ([]dto.ApartmentPrice, error) {
	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if owned {
		defer unit.Rollback(ctx)
	}

	apartments, err := unit.Apartments().List(ctx)
	if err != nil {
		return nil, err
	}

	today := q.Today
	if today.IsZero() {
		today = time.Now().UTC()
	}
	today = today.Truncate(24 * time.Hour)
	// The current price is the resolved rate for a one night stay tonight.
	tonight := daterange.DateRange{Start: today, End: today.AddDate(0, 0, 1)}

	rows := make([]dto.ApartmentPrice, 0, len(apartments))
	for _, apartment := range apartments {
		rates, err := unit.SeasonalRates().ListByApartment(ctx, apartment.ID)
		if err != nil {
			return nil, err
		}
		row := dto.ApartmentPrice{
			ApartmentID:  string(apartment.ID),
			Name:         apartment.Name,
			BasePrice:    money.RoundCents(apartment.PricePerNight).StringFixed(2),
			CurrentPrice: money.RoundCents(domainrental.ResolveNightlyRate(apartment, rates, tonight)).StringFixed(2),
			IsActive:     apartment.IsActive,
			Color:        apartment.Color,
		}
		for _, rate := range rates {
			seasonal := dto.SeasonalRateRow{
				StartDate: rate.StartDate.Format(daterange.Layout),
				EndDate:   rate.EndDate.Format(daterange.Layout),
			}
			if rate.PricePerNight != nil {
				seasonal.PricePerNight = rate.PricePerNight.StringFixed(2)
			}
			if rate.PercentAdjust != nil {
				seasonal.PercentAdjust = rate.PercentAdjust.String()
			}
			row.SeasonalRates = append(row.SeasonalRates, seasonal)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var _ queries.Handler[PriceListQuery, []dto.ApartmentPrice] = (*PriceListHandler)(nil)
