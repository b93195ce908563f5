package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/outbox"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	BookingID        string
	LenderID         string
	ApartmentID      string
	StartDate        string
	EndDate          string
	CustomTotalPrice string
	OverrideConfirm  bool
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

// BookingResult reports the admission verdict; Persisted is false whenever
// the verdict rejected the proposal.
type BookingResult struct {
	BookingID string        `json:"booking_id,omitempty"`
	Admission dto.Admission `json:"admission"`
	Persisted bool          `json:"persisted"`
}

type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

// Handle runs admission as the hard gate inside the surrounding transaction
// and persists only on acceptance. The overlap scan and the insert share the
// unit of work, so a concurrent second committer fails at commit time.
func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*BookingResult, error) {
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

	proposed, err := buildProposal(cmd)
	if err != nil {
		return nil, err
	}

	snapshot, err := assembleSnapshot(ctx, unit, proposed)
	if err != nil {
		return nil, err
	}
	result, err := domainbooking.Validate(snapshot)
	if err != nil {
		return nil, err
	}
	if result.Rejected() {
		return &BookingResult{Admission: dto.MapAdmission(result)}, nil
	}

	if err := unit.Bookings().Save(ctx, proposed); err != nil {
		return nil, err
	}
	proposed.Record(domainbooking.BookingConfirmed{
		BookingID: proposed.ID,
		LenderID:  snapshot.Lender.ID,
		Language:  snapshot.Lender.Language,
		Recipient: snapshot.Lender.Email,
		At:        proposed.CreatedAt,
	})
	pending := proposed.PendingEvents()
	proposed.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &BookingResult{
		BookingID: string(proposed.ID),
		Admission: dto.MapAdmission(result),
		Persisted: true,
	}, nil
}

// buildProposal maps boundary strings to a domain booking. Missing fields
// stay zero so admission can answer "incomplete" instead of erroring.
func buildProposal(cmd CreateBookingCommand) (*domainbooking.Booking, error) {
	proposed := &domainbooking.Booking{
		ID:              domainbooking.BookingID(cmd.BookingID),
		LenderID:        domainlender.LenderID(cmd.LenderID),
		ApartmentID:     domainrental.ApartmentID(cmd.ApartmentID),
		OverrideConfirm: cmd.OverrideConfirm,
		CreatedAt:       time.Now().UTC(),
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
		// Deliberately unvalidated: admission turns a reversed range into
		// its own invalid_date_range rejection.
		proposed.Range = daterange.DateRange{Start: start, End: end}
	}
	if cmd.CustomTotalPrice != "" {
		price, err := decimal.NewFromString(cmd.CustomTotalPrice)
		if err != nil {
			return nil, err
		}
		proposed.CustomTotalPrice = &price
	}
	return proposed, nil
}

var _ commands.Handler[CreateBookingCommand, *BookingResult] = (*CreateBookingHandler)(nil)
