package booking

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
)

const checkBookingKey = "booking.check"

// CheckBookingQuery is the live pre-check the admin form polls while the
// operator is still editing. All fields arrive as strings.
type CheckBookingQuery struct {
	LenderID         string
	ApartmentID      string
	StartDate        string
	EndDate          string
	CustomTotalPrice string
	OverrideConfirm  bool
	ExcludeBookingID string
}

func (q CheckBookingQuery) Key() string { return checkBookingKey }

type CheckBookingHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle never fails the bus call: anything unexpected degrades to the
// "error" status with the message attached, so a broken record shows up in
// the form instead of silently disabling the check.
func (h *CheckBookingHandler) Handle(ctx context.Context, q CheckBookingQuery) (dto.BookingCheck, error) {
	if q.LenderID == "" || q.ApartmentID == "" || q.StartDate == "" || q.EndDate == "" {
		return dto.BookingCheck{Status: dto.CheckStatusIncomplete}, nil
	}

	dr, err := daterange.FromStrings(q.StartDate, q.EndDate)
	if errors.Is(err, daterange.ErrInvalidRange) {
		return dto.BookingCheck{Status: dto.CheckStatusInvalidDates}, nil
	}
	if err != nil {
		return dto.BookingCheck{Status: dto.CheckStatusError, Message: err.Error()}, nil
	}

	proposed := &domainbooking.Booking{
		ID:              domainbooking.BookingID(q.ExcludeBookingID),
		LenderID:        domainlender.LenderID(q.LenderID),
		ApartmentID:     domainrental.ApartmentID(q.ApartmentID),
		Range:           dr,
		OverrideConfirm: q.OverrideConfirm,
	}
	if q.CustomTotalPrice != "" {
		price, err := decimal.NewFromString(q.CustomTotalPrice)
		if err != nil {
			return dto.BookingCheck{Status: dto.CheckStatusError, Message: err.Error()}, nil
		}
		proposed.CustomTotalPrice = &price
	}

	unit, ctx, owned, err := unitFromContext(ctx, h.UoWFactory, true)
	if err != nil {
		return dto.BookingCheck{Status: dto.CheckStatusError, Message: err.Error()}, nil
	}
	if owned {
		defer unit.Rollback(ctx)
	}

	snapshot, err := assembleSnapshot(ctx, unit, proposed)
	if err != nil {
		return dto.BookingCheck{Status: dto.CheckStatusError, Message: err.Error()}, nil
	}
	result, err := domainbooking.Validate(snapshot)
	if err != nil {
		return dto.BookingCheck{Status: dto.CheckStatusError, Message: err.Error()}, nil
	}
	return mapCheck(result), nil
}

// mapCheck flattens the admission verdict into the form's status enum. A
// whole-property block surfaces as a warning here: the pre-check advises,
// only the persist path enforces.
func mapCheck(result domainbooking.Result) dto.BookingCheck {
	out := dto.BookingCheck{Status: dto.CheckStatusOK}
	for _, w := range result.Warnings {
		out.Warnings = append(out.Warnings, w.Message)
		if w.Code == domainbooking.WarnInsufficientBalance {
			out.Saldo = w.Balance.StringFixed(2)
			out.Kosten = w.Cost.StringFixed(2)
		}
	}
	if len(out.Warnings) > 0 {
		out.Status = dto.CheckStatusWarning
	}
	for _, e := range result.Errors {
		switch e.Code {
		case domainbooking.ErrCodeIncompleteInput:
			return dto.BookingCheck{Status: dto.CheckStatusIncomplete}
		case domainbooking.ErrCodeInvalidDateRange:
			return dto.BookingCheck{Status: dto.CheckStatusInvalidDates}
		case domainbooking.ErrCodeWholePropertyBlocked:
			out.Status = dto.CheckStatusWarning
			out.Warnings = append(out.Warnings, e.Message)
		default:
			return dto.BookingCheck{Status: dto.CheckStatusError, Message: e.Message}
		}
	}
	return out
}

var _ queries.Handler[CheckBookingQuery, dto.BookingCheck] = (*CheckBookingHandler)(nil)
