package notify

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "github.com/KarlGo0815/cbvgoodwill/internal/app/outbox"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainnotify "github.com/KarlGo0815/cbvgoodwill/internal/domain/notify"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/storage/memory"
)

func seedRecords(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)

	require.NoError(t, unit.Lenders().Save(ctx, &domainlender.Lender{
		ID: "lender-1", FirstName: "Anna", LastName: "Berger",
		Email: "anna@example.com", Language: domainlender.LanguageDE,
	}))
	require.NoError(t, unit.Payments().Save(ctx, &domainlender.Payment{
		ID: "pay-1", LenderID: "lender-1",
		Date:           time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		OriginalAmount: decimal.RequireFromString("1000"),
		Currency:       money.EUR, ExchangeRate: decimal.NewFromInt(1),
	}))
	dr, err := daterange.FromStrings("2026-03-01", "2026-03-05")
	require.NoError(t, err)
	require.NoError(t, unit.Bookings().Save(ctx, &domainbooking.Booking{
		ID: "bkg-1", LenderID: "lender-1", ApartmentID: "apt-sea", Range: dr,
	}))

	require.NoError(t, unit.Commit(ctx))
	return store
}

func TestResendPaymentConfirmation(t *testing.T) {
	ctx := context.Background()
	box := memory.NewOutbox()
	h := &ResendHandler{UoWFactory: seedRecords(t), Outbox: box, Encoder: appoutbox.JSONEventEncoder{}}

	_, err := h.Handle(ctx, ResendCommand{Kind: "payment", SubjectID: "pay-1"})
	require.NoError(t, err)

	doc, err := box.Claim(ctx, "worker-test")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "payment.recorded", doc.Name)
	assert.Equal(t, "pay-1", doc.Aggregate)
}

func TestResendBookingConfirmation(t *testing.T) {
	ctx := context.Background()
	box := memory.NewOutbox()
	h := &ResendHandler{UoWFactory: seedRecords(t), Outbox: box, Encoder: appoutbox.JSONEventEncoder{}}

	_, err := h.Handle(ctx, ResendCommand{Kind: "booking", SubjectID: "bkg-1"})
	require.NoError(t, err)

	doc, err := box.Claim(ctx, "worker-test")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "booking.confirmed", doc.Name)
}

func TestResendRejectsBadInput(t *testing.T) {
	box := memory.NewOutbox()
	h := &ResendHandler{UoWFactory: seedRecords(t), Outbox: box, Encoder: appoutbox.JSONEventEncoder{}}

	_, err := h.Handle(context.Background(), ResendCommand{Kind: "fax", SubjectID: "pay-1"})
	assert.ErrorIs(t, err, domainnotify.ErrUnknownKind)

	_, err = h.Handle(context.Background(), ResendCommand{Kind: "payment", SubjectID: "pay-missing"})
	assert.ErrorIs(t, err, domainlender.ErrPaymentNotFound)

	doc, err := box.Claim(context.Background(), "worker-test")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestSentList(t *testing.T) {
	ctx := context.Background()
	store := seedRecords(t)

	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Confirmations().Save(ctx, &domainnotify.SentConfirmation{
		ID:        "conf-1",
		LenderID:  "lender-1",
		Kind:      domainnotify.KindPayment,
		SubjectID: "pay-1",
		Language:  domainlender.LanguageDE,
		Recipient: "anna@example.com",
		SentAt:    time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, unit.Commit(ctx))

	rows, err := (&SentListHandler{UoWFactory: store}).Handle(ctx, SentListQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "payment", rows[0].Kind)
	assert.Equal(t, "pay-1", rows[0].SubjectID)
	assert.Equal(t, "2026-01-10T12:00:00Z", rows[0].SentAt)
}
