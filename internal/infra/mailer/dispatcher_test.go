package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/policies"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
	infraoutbox "github.com/KarlGo0815/cbvgoodwill/internal/infra/outbox"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/storage/memory"
)

type capturingMailer struct {
	sent []policies.ConfirmationMail
	err  error
}

func (m *capturingMailer) Send(ctx context.Context, mail policies.ConfirmationMail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func seedMailWorld(t *testing.T, language domainlender.Language) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)

	require.NoError(t, unit.Lenders().Save(ctx, &domainlender.Lender{
		ID: "lender-1", FirstName: "Anna", LastName: "Berger",
		Email: "anna@example.com", Language: language,
	}))
	require.NoError(t, unit.Payments().Save(ctx, &domainlender.Payment{
		ID: "pay-1", LenderID: "lender-1",
		Date:           time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		OriginalAmount: decimal.RequireFromString("1234.5"),
		Currency:       money.EUR, ExchangeRate: decimal.NewFromInt(1),
	}))
	require.NoError(t, unit.Apartments().Save(ctx, &domainrental.Apartment{
		ID: "apt-sea", Name: "Sea View", PricePerNight: decimal.RequireFromString("100"),
		IsActive: true,
	}))
	dr, err := daterange.FromStrings("2026-03-01", "2026-03-05")
	require.NoError(t, err)
	require.NoError(t, unit.Bookings().Save(ctx, &domainbooking.Booking{
		ID: "bkg-1", LenderID: "lender-1", ApartmentID: "apt-sea", Range: dr,
	}))

	require.NoError(t, unit.Commit(ctx))
	return store
}

func paymentEvent(language string) *infraoutbox.EventDocument {
	return &infraoutbox.EventDocument{
		ID:      "evt-1",
		Name:    "payment.recorded",
		Payload: []byte(`{"payment_id":"pay-1","lender_id":"lender-1","language":"` + language + `","recipient":"anna@example.com"}`),
	}
}

func bookingEvent(language string) *infraoutbox.EventDocument {
	return &infraoutbox.EventDocument{
		ID:      "evt-2",
		Name:    "booking.confirmed",
		Payload: []byte(`{"booking_id":"bkg-1","lender_id":"lender-1","language":"` + language + `","recipient":"anna@example.com"}`),
	}
}

func sentConfirmations(t *testing.T, store *memory.Store) []string {
	t.Helper()
	ctx := context.Background()
	unit, err := store.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(ctx)
	listed, err := unit.Confirmations().List(ctx)
	require.NoError(t, err)
	out := make([]string, 0, len(listed))
	for _, c := range listed {
		out = append(out, string(c.Kind)+"/"+c.SubjectID)
	}
	return out
}

func TestDispatchGermanPaymentMail(t *testing.T) {
	store := seedMailWorld(t, domainlender.LanguageDE)
	m := &capturingMailer{}
	d := &Dispatcher{Mailer: m, UoWFactory: store}

	require.NoError(t, d.Dispatch(context.Background(), paymentEvent("de")))

	require.Len(t, m.sent, 1)
	mail := m.sent[0]
	assert.Equal(t, "anna@example.com", mail.Recipient)
	assert.Equal(t, "Zahlungsbestätigung – Casa Bella Vista", mail.Subject)
	assert.Contains(t, mail.TextBody, "Hallo Anna")
	assert.Contains(t, mail.TextBody, "1.234,50 EUR")
	assert.Contains(t, mail.TextBody, "10.01.2026")

	assert.Equal(t, []string{"payment/pay-1"}, sentConfirmations(t, store))
}

func TestDispatchEnglishBookingMail(t *testing.T) {
	store := seedMailWorld(t, domainlender.LanguageEN)
	m := &capturingMailer{}
	d := &Dispatcher{Mailer: m, UoWFactory: store}

	require.NoError(t, d.Dispatch(context.Background(), bookingEvent("en")))

	require.Len(t, m.sent, 1)
	mail := m.sent[0]
	assert.Equal(t, "Booking Confirmation – Casa Bella Vista", mail.Subject)
	assert.Contains(t, mail.TextBody, "Dear Anna")
	assert.Contains(t, mail.TextBody, "Sea View")
	assert.Contains(t, mail.TextBody, "from 2026-03-01 to 2026-03-05")
	assert.Contains(t, mail.TextBody, "Total: 400.00 EUR")

	assert.Equal(t, []string{"booking/bkg-1"}, sentConfirmations(t, store))
}

func TestDispatchSendFailureWritesNoAuditRecord(t *testing.T) {
	store := seedMailWorld(t, domainlender.LanguageDE)
	m := &capturingMailer{err: errors.New("smtp down")}
	d := &Dispatcher{Mailer: m, UoWFactory: store}

	err := d.Dispatch(context.Background(), paymentEvent("de"))
	require.Error(t, err)
	assert.Empty(t, sentConfirmations(t, store))
}

func TestDispatchIgnoresForeignEvents(t *testing.T) {
	store := seedMailWorld(t, domainlender.LanguageDE)
	m := &capturingMailer{}
	d := &Dispatcher{Mailer: m, UoWFactory: store}

	require.NoError(t, d.Dispatch(context.Background(), &infraoutbox.EventDocument{
		ID: "evt-3", Name: "apartment.renamed", Payload: []byte(`{}`),
	}))
	assert.Empty(t, m.sent)
	assert.Empty(t, sentConfirmations(t, store))
}
