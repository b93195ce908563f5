package booking

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainledger "github.com/KarlGo0815/cbvgoodwill/internal/domain/ledger"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
)

// BalanceFor aggregates the lender's balance from raw records inside the
// current transaction. The payment handler shares it for receipt balances.
func BalanceFor(ctx context.Context, unit uow.UnitOfWork, l *domainlender.Lender) (decimal.Decimal, error) {
	payments, err := unit.Payments().ListByLender(ctx, l.ID)
	if err != nil {
		return decimal.Zero, err
	}
	bookings, err := unit.Bookings().ListByLender(ctx, l.ID)
	if err != nil {
		return decimal.Zero, err
	}
	apartments := make(map[domainrental.ApartmentID]*domainrental.Apartment)
	rates := make(domainledger.Rates)
	for _, b := range bookings {
		if _, ok := apartments[b.ApartmentID]; ok {
			continue
		}
		apartment, err := unit.Apartments().ByID(ctx, b.ApartmentID)
		if err != nil {
			return decimal.Zero, err
		}
		apartments[b.ApartmentID] = apartment
		rates[b.ApartmentID], err = unit.SeasonalRates().ListByApartment(ctx, b.ApartmentID)
		if err != nil {
			return decimal.Zero, err
		}
	}
	return domainledger.CurrentBalance(l, payments, bookings, apartments, rates)
}

// assembleSnapshot loads everything admission needs in one consistent read:
// the lender, the apartment with its seasonal rates, competing bookings and,
// for the whole-property unit, every other active apartment's occupancy.
func assembleSnapshot(ctx context.Context, unit uow.UnitOfWork, proposed *domainbooking.Booking) (domainbooking.Snapshot, error) {
	l, err := unit.Lenders().ByID(ctx, proposed.LenderID)
	if err != nil {
		return domainbooking.Snapshot{}, err
	}
	apartment, err := unit.Apartments().ByID(ctx, proposed.ApartmentID)
	if err != nil {
		return domainbooking.Snapshot{}, err
	}
	rates, err := unit.SeasonalRates().ListByApartment(ctx, apartment.ID)
	if err != nil {
		return domainbooking.Snapshot{}, err
	}
	same, err := unit.Bookings().ListByApartment(ctx, apartment.ID)
	if err != nil {
		return domainbooking.Snapshot{}, err
	}
	balance, err := BalanceFor(ctx, unit, l)
	if err != nil {
		return domainbooking.Snapshot{}, err
	}

	snapshot := domainbooking.Snapshot{
		Proposed:      proposed,
		Lender:        l,
		Apartment:     apartment,
		SeasonalRates: rates,
		SameApartment: same,
		Balance:       balance,
	}

	if apartment.WholeProperty {
		actives, err := unit.Apartments().ListActive(ctx)
		if err != nil {
			return domainbooking.Snapshot{}, err
		}
		for _, other := range actives {
			if other.ID == apartment.ID || other.WholeProperty {
				continue
			}
			occupied, err := unit.Bookings().ListByApartment(ctx, other.ID)
			if err != nil {
				return domainbooking.Snapshot{}, err
			}
			snapshot.OtherActive = append(snapshot.OtherActive, domainbooking.ApartmentBookings{
				Apartment: other,
				Bookings:  occupied,
			})
		}
	}
	return snapshot, nil
}

// unitFromContext returns the ambient unit of work or starts one from the
// factory, reporting whether the caller owns its lifecycle.
func unitFromContext(ctx context.Context, factory uow.UoWFactory, readOnly bool) (uow.UnitOfWork, context.Context, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, false, nil
	}
	if factory == nil {
		return nil, ctx, false, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return nil, ctx, false, err
	}
	return unit, uow.ContextWithUnitOfWork(ctx, unit), true, nil
}
