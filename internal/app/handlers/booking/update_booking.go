package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
)

const updateBookingKey = "booking.update"

// UpdateBookingCommand re-enters admission for an existing booking. The
// stored booking keeps its lender and apartment; dates, flat price and the
// override flag may change.
type UpdateBookingCommand struct {
	BookingID        string
	StartDate        string
	EndDate          string
	CustomTotalPrice string
	ClearCustomPrice bool
	OverrideConfirm  bool
}

func (c UpdateBookingCommand) Key() string { return updateBookingKey }

type UpdateBookingHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle excludes the booking's own id from the overlap scan and emits no
// confirmation event: mails go out for new records only.
func (h *UpdateBookingHandler) Handle(ctx context.Context, cmd UpdateBookingCommand) (*BookingResult, error) {
	unit, ctx, owned, err := unitFromContext(ctx, h.UoWFactory, false)
	if err != nil {
		return nil, err
	}
	committed := false
	if owned {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	existing, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if cmd.StartDate != "" && cmd.EndDate != "" {
		start, err := time.Parse(daterange.Layout, cmd.StartDate)
		if err != nil {
			return nil, daterange.ErrBadFormat
		}
		end, err := time.Parse(daterange.Layout, cmd.EndDate)
		if err != nil {
			return nil, daterange.ErrBadFormat
		}
		existing.Range = daterange.DateRange{Start: start, End: end}
	}
	if cmd.ClearCustomPrice {
		existing.CustomTotalPrice = nil
	} else if cmd.CustomTotalPrice != "" {
		price, err := decimal.NewFromString(cmd.CustomTotalPrice)
		if err != nil {
			return nil, err
		}
		existing.CustomTotalPrice = &price
	}
	existing.OverrideConfirm = cmd.OverrideConfirm

	snapshot, err := assembleSnapshot(ctx, unit, existing)
	if err != nil {
		return nil, err
	}
	result, err := domainbooking.Validate(snapshot)
	if err != nil {
		return nil, err
	}
	if result.Rejected() {
		return &BookingResult{BookingID: cmd.BookingID, Admission: dto.MapAdmission(result)}, nil
	}

	if err := unit.Bookings().Save(ctx, existing); err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &BookingResult{
		BookingID: cmd.BookingID,
		Admission: dto.MapAdmission(result),
		Persisted: true,
	}, nil
}

var _ commands.Handler[UpdateBookingCommand, *BookingResult] = (*UpdateBookingHandler)(nil)
