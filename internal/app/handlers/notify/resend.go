package notify

import (
	"context"
	"time"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/outbox"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainnotify "github.com/KarlGo0815/cbvgoodwill/internal/domain/notify"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/events"
)

const (
	resendKey   = "notify.resend"
	sentListKey = "notify.sent"
)

// ResendCommand re-queues the confirmation mail for an already persisted
// payment or booking. The dispatcher writes a fresh audit record on each
// successful send, so resends are visible in the log.
type ResendCommand struct {
	Kind      string
	SubjectID string
}

func (c ResendCommand) Key() string { return resendKey }

type ResendHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ResendHandler) Handle(ctx context.Context, cmd ResendCommand) (struct{}, error) {
	kind, err := domainnotify.ParseKind(cmd.Kind)
	if err != nil {
		return struct{}{}, err
	}

	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory, false)
	if err != nil {
		return struct{}{}, err
	}
	committed := false
	if owned {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	event, err := h.eventFor(ctx, unit, kind, cmd.SubjectID)
	if err != nil {
		return struct{}{}, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{event}); err != nil {
		return struct{}{}, err
	}

	if owned {
		if err := unit.Commit(ctx); err != nil {
			return struct{}{}, err
		}
		committed = true
	}
	return struct{}{}, nil
}

func (h *ResendHandler) eventFor(ctx context.Context, unit uow.UnitOfWork, kind domainnotify.Kind, subjectID string) (events.DomainEvent, error) {
	switch kind {
	case domainnotify.KindPayment:
		p, err := unit.Payments().ByID(ctx, domainlender.PaymentID(subjectID))
		if err != nil {
			return nil, err
		}
		l, err := unit.Lenders().ByID(ctx, p.LenderID)
		if err != nil {
			return nil, err
		}
		return domainlender.PaymentRecorded{
			PaymentID: p.ID,
			LenderID:  l.ID,
			Language:  l.Language,
			Recipient: l.Email,
			At:        time.Now().UTC(),
		}, nil
	case domainnotify.KindBooking:
		b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(subjectID))
		if err != nil {
			return nil, err
		}
		l, err := unit.Lenders().ByID(ctx, b.LenderID)
		if err != nil {
			return nil, err
		}
		return domainbooking.BookingConfirmed{
			BookingID: b.ID,
			LenderID:  l.ID,
			Language:  l.Language,
			Recipient: l.Email,
			At:        time.Now().UTC(),
		}, nil
	default:
		return nil, domainnotify.ErrUnknownKind
	}
}

// SentListQuery returns the audit log of confirmation mails.
type SentListQuery struct{}

func (q SentListQuery) Key() string { return sentListKey }

type SentListHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SentListHandler) Handle(ctx context.Context, _ SentListQuery) ([]dto.SentConfirmation, error) {
	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory, true)
	if err != nil {
		return nil, err
	}
	if owned {
		defer unit.Rollback(ctx)
	}

	sent, err := unit.Confirmations().List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.SentConfirmation, 0, len(sent))
	for _, c := range sent {
		rows = append(rows, dto.SentConfirmation{
			ID:        c.ID,
			LenderID:  string(c.LenderID),
			Kind:      string(c.Kind),
			SubjectID: c.SubjectID,
			Language:  string(c.Language),
			Recipient: c.Recipient,
			SentAt:    c.SentAt.UTC().Format(time.RFC3339),
		})
	}
	return rows, nil
}

func unitFrom(ctx context.Context, factory uow.UoWFactory, readOnly bool) (uow.UnitOfWork, context.Context, bool, error) {
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

var (
	_ commands.Handler[ResendCommand, struct{}]              = (*ResendHandler)(nil)
	_ queries.Handler[SentListQuery, []dto.SentConfirmation] = (*SentListHandler)(nil)
)
