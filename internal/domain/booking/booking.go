package booking

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/events"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

var (
	ErrBookingNotFound  = errors.New("booking: not found")
	ErrInvalidDateRange = errors.New("booking: end date must be after start date")
)

type BookingID string

// Booking is a lender's stay in one apartment over a half-open date range.
// CustomTotalPrice is a flat override used for the whole-property unit;
// OverrideConfirm is the operator's acknowledgment of the whole-property
// warning. Financial fields only change through an explicit edit, which
// re-enters admission.
type Booking struct {
	ID               BookingID
	LenderID         lender.LenderID
	ApartmentID      rental.ApartmentID
	Range            daterange.DateRange
	CustomTotalPrice *decimal.Decimal
	OverrideConfirm  bool
	CreatedAt        time.Time
	Version          int64
	events.EventRecorder
}

// Nights is the number of charged nights; checkout day is free.
func (b *Booking) Nights() int {
	return b.Range.Nights()
}

// TotalCost prices a booking. The flat override short-circuits nightly
// pricing entirely for the whole-property unit; everything else is
// nights x discounted nightly rate. Non-positive nights is a caller error,
// never clamped.
func TotalCost(b *Booking, apartment *rental.Apartment, rates []*rental.SeasonalRate, l *lender.Lender) (decimal.Decimal, error) {
	if err := b.Range.Validate(); err != nil {
		return decimal.Zero, ErrInvalidDateRange
	}
	if apartment.WholeProperty && b.CustomTotalPrice != nil {
		return money.RoundCents(*b.CustomTotalPrice), nil
	}
	nightly, err := rental.PriceAfterDiscount(apartment, rates, l, b.Range)
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundCents(nightly.Mul(decimal.NewFromInt(int64(b.Nights())))), nil
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	ListByLender(ctx context.Context, id lender.LenderID) ([]*Booking, error)
	ListByApartment(ctx context.Context, id rental.ApartmentID) ([]*Booking, error)
	List(ctx context.Context) ([]*Booking, error)
}
