package booking

import (
	"context"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
)

const listBookingsKey = "booking.list"

// ListBookingsQuery returns all bookings, optionally filtered to one lender.
type ListBookingsQuery struct {
	LenderID string
}

func (q ListBookingsQuery) Key() string { return listBookingsKey }

type ListBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) ([]dto.BookingView, error) {
	unit, ctx, owned, err := unitFromContext(ctx, h.UoWFactory, true)
	if err != nil {
		return nil, err
	}
	if owned {
		defer unit.Rollback(ctx)
	}

	var bookings []*domainbooking.Booking
	if q.LenderID != "" {
		bookings, err = unit.Bookings().ListByLender(ctx, domainlender.LenderID(q.LenderID))
	} else {
		bookings, err = unit.Bookings().List(ctx)
	}
	if err != nil {
		return nil, err
	}

	lenders := make(map[domainlender.LenderID]*domainlender.Lender)
	apartments := make(map[domainrental.ApartmentID]*domainrental.Apartment)
	rates := make(map[domainrental.ApartmentID][]*domainrental.SeasonalRate)

	views := make([]dto.BookingView, 0, len(bookings))
	for _, b := range bookings {
		l, ok := lenders[b.LenderID]
		if !ok {
			l, err = unit.Lenders().ByID(ctx, b.LenderID)
			if err != nil {
				return nil, err
			}
			lenders[b.LenderID] = l
		}
		apartment, ok := apartments[b.ApartmentID]
		if !ok {
			apartment, err = unit.Apartments().ByID(ctx, b.ApartmentID)
			if err != nil {
				return nil, err
			}
			apartments[b.ApartmentID] = apartment
			rates[b.ApartmentID], err = unit.SeasonalRates().ListByApartment(ctx, b.ApartmentID)
			if err != nil {
				return nil, err
			}
		}
		cost, err := domainbooking.TotalCost(b, apartment, rates[b.ApartmentID], l)
		if err != nil {
			return nil, err
		}
		view := dto.BookingView{
			ID:          string(b.ID),
			LenderID:    string(b.LenderID),
			ApartmentID: string(b.ApartmentID),
			StartDate:   b.Range.Start.Format(daterange.Layout),
			EndDate:     b.Range.End.Format(daterange.Layout),
			Nights:      b.Nights(),
			TotalCost:   cost.StringFixed(2),
		}
		if b.CustomTotalPrice != nil {
			view.CustomTotalPrice = b.CustomTotalPrice.StringFixed(2)
		}
		views = append(views, view)
	}
	return views, nil
}

var _ queries.Handler[ListBookingsQuery, []dto.BookingView] = (*ListBookingsHandler)(nil)
