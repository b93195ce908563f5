package booking

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "github.com/KarlGo0815/cbvgoodwill/internal/app/outbox"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/storage/memory"
)

func TestCreateBookingPersistsAndQueuesConfirmation(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	seedPayment(t, store, "pay-1", "1000")
	box := memory.NewOutbox()
	h := &CreateBookingHandler{UoWFactory: store, Outbox: box, Encoder: appoutbox.JSONEventEncoder{}}

	result, err := h.Handle(ctx, CreateBookingCommand{
		BookingID:   "bkg-1",
		LenderID:    "lender-1",
		ApartmentID: "apt-sea",
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-05",
	})
	require.NoError(t, err)
	assert.True(t, result.Persisted)
	assert.Equal(t, "bkg-1", result.BookingID)
	assert.Equal(t, string(domainbooking.VerdictAccepted), result.Admission.Verdict)
	assert.Equal(t, "400.00", result.Admission.Cost)

	stored := storedBooking(t, store, "bkg-1")
	assert.Equal(t, 4, stored.Nights())

	doc, err := box.Claim(ctx, "worker-test")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "booking.confirmed", doc.Name)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(doc.Payload, &payload))
	assert.Equal(t, "bkg-1", payload["booking_id"])
	assert.Equal(t, "anna@example.com", payload["recipient"])
}

func TestCreateBookingRejectsOverlapWithoutPersisting(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	seedBooking(t, store, "bkg-existing", "2026-03-03", "2026-03-08")
	box := memory.NewOutbox()
	h := &CreateBookingHandler{UoWFactory: store, Outbox: box, Encoder: appoutbox.JSONEventEncoder{}}

	result, err := h.Handle(ctx, CreateBookingCommand{
		BookingID:   "bkg-new",
		LenderID:    "lender-1",
		ApartmentID: "apt-sea",
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-05",
	})
	require.NoError(t, err)
	assert.False(t, result.Persisted)
	assert.Equal(t, string(domainbooking.VerdictRejected), result.Admission.Verdict)
	require.Len(t, result.Admission.Errors, 1)
	assert.Equal(t, string(domainbooking.ErrCodeOverlapConflict), result.Admission.Errors[0].Code)
	assert.Equal(t, "bkg-existing", result.Admission.Errors[0].ConflictsWith)

	unit, err := store.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(ctx)
	_, err = unit.Bookings().ByID(ctx, "bkg-new")
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)

	doc, err := box.Claim(ctx, "worker-test")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestCreateBookingWarnsButPersistsOnLowBalance(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	box := memory.NewOutbox()
	h := &CreateBookingHandler{UoWFactory: store, Outbox: box, Encoder: appoutbox.JSONEventEncoder{}}

	result, err := h.Handle(ctx, CreateBookingCommand{
		BookingID:   "bkg-1",
		LenderID:    "lender-1",
		ApartmentID: "apt-sea",
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-05",
	})
	require.NoError(t, err)
	assert.True(t, result.Persisted)
	assert.Equal(t, string(domainbooking.VerdictAcceptedWithWarnings), result.Admission.Verdict)
	require.Len(t, result.Admission.Warnings, 1)
	assert.Equal(t, string(domainbooking.WarnInsufficientBalance), result.Admission.Warnings[0].Code)
}

func TestUpdateBookingMovesDates(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	seedPayment(t, store, "pay-1", "1000")
	seedBooking(t, store, "bkg-1", "2026-03-01", "2026-03-05")
	h := &UpdateBookingHandler{UoWFactory: store}

	result, err := h.Handle(ctx, UpdateBookingCommand{
		BookingID: "bkg-1",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-04",
	})
	require.NoError(t, err)
	assert.True(t, result.Persisted)

	stored := storedBooking(t, store, "bkg-1")
	assert.Equal(t, 3, stored.Nights())
	assert.Equal(t, "2026-04-01", stored.Range.Start.Format("2006-01-02"))
}

func TestUpdateBookingRejectedEditLeavesStoredDates(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	seedPayment(t, store, "pay-1", "1000")
	seedBooking(t, store, "bkg-1", "2026-03-01", "2026-03-05")
	seedBooking(t, store, "bkg-2", "2026-04-01", "2026-04-05")
	h := &UpdateBookingHandler{UoWFactory: store}

	result, err := h.Handle(ctx, UpdateBookingCommand{
		BookingID: "bkg-1",
		StartDate: "2026-04-02",
		EndDate:   "2026-04-06",
	})
	require.NoError(t, err)
	assert.False(t, result.Persisted)

	stored := storedBooking(t, store, "bkg-1")
	assert.Equal(t, "2026-03-01", stored.Range.Start.Format("2006-01-02"))
}

func TestUpdateBookingUnknown(t *testing.T) {
	h := &UpdateBookingHandler{UoWFactory: seededStore(t)}
	_, err := h.Handle(context.Background(), UpdateBookingCommand{BookingID: "bkg-missing"})
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)
}
