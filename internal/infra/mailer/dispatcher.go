package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/policies"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainnotify "github.com/KarlGo0815/cbvgoodwill/internal/domain/notify"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
	infraoutbox "github.com/KarlGo0815/cbvgoodwill/internal/infra/outbox"
)

const propertyName = "Casa Bella Vista"

// Dispatcher renders and sends confirmation mails for outbox events. The
// audit record is written only after the transport accepted the message, so
// a crash between send and record can at worst duplicate a mail, never
// fabricate an audit entry.
type Dispatcher struct {
	Mailer     policies.Mailer
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

type confirmationEvent struct {
	PaymentID string `json:"payment_id"`
	BookingID string `json:"booking_id"`
	LenderID  string `json:"lender_id"`
	Language  string `json:"language"`
	Recipient string `json:"recipient"`
}

func (d *Dispatcher) Dispatch(ctx context.Context, doc *infraoutbox.EventDocument) error {
	var ev confirmationEvent
	if err := json.Unmarshal(doc.Payload, &ev); err != nil {
		return err
	}
	language, err := domainlender.ParseLanguage(ev.Language)
	if err != nil {
		return err
	}

	var mail policies.ConfirmationMail
	var kind domainnotify.Kind
	var subjectID string
	switch doc.Name {
	case "payment.recorded":
		kind = domainnotify.KindPayment
		subjectID = ev.PaymentID
		mail, err = d.paymentMail(ctx, ev, language)
	case "booking.confirmed":
		kind = domainnotify.KindBooking
		subjectID = ev.BookingID
		mail, err = d.bookingMail(ctx, ev, language)
	default:
		// Not a mail-bearing event; nothing to do here.
		return nil
	}
	if err != nil {
		return err
	}

	if err := d.Mailer.Send(ctx, mail); err != nil {
		return err
	}
	if d.Logger != nil {
		d.Logger.Info("confirmation sent", "kind", kind, "subject", subjectID, "recipient", ev.Recipient, "language", language)
	}
	return d.recordSent(ctx, &domainnotify.SentConfirmation{
		ID:        uuid.NewString(),
		LenderID:  domainlender.LenderID(ev.LenderID),
		Kind:      kind,
		SubjectID: subjectID,
		Language:  language,
		Recipient: ev.Recipient,
		SentAt:    time.Now().UTC(),
	})
}

func (d *Dispatcher) paymentMail(ctx context.Context, ev confirmationEvent, language domainlender.Language) (policies.ConfirmationMail, error) {
	unit, err := d.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return policies.ConfirmationMail{}, err
	}
	defer unit.Rollback(ctx)

	l, err := unit.Lenders().ByID(ctx, domainlender.LenderID(ev.LenderID))
	if err != nil {
		return policies.ConfirmationMail{}, err
	}
	p, err := unit.Payments().ByID(ctx, domainlender.PaymentID(ev.PaymentID))
	if err != nil {
		return policies.ConfirmationMail{}, err
	}
	eur, err := p.AmountEUR()
	if err != nil {
		return policies.ConfirmationMail{}, err
	}

	mail := policies.ConfirmationMail{Recipient: ev.Recipient, Language: language}
	date := p.Date.Format("02.01.2006")
	if language == domainlender.LanguageEN {
		date = p.Date.Format(daterange.Layout)
		mail.Subject = "Payment Confirmation – " + propertyName
		mail.TextBody = fmt.Sprintf(
			"Dear %s,\n\nthank you very much! We received your payment of %s EUR on %s.\n\nBest regards\n%s",
			l.FirstName, eur.StringFixed(2), date, propertyName)
		return mail, nil
	}
	mail.Subject = "Zahlungsbestätigung – " + propertyName
	mail.TextBody = fmt.Sprintf(
		"Hallo %s,\n\nherzlichen Dank! Wir haben Ihre Zahlung über %s EUR am %s erhalten.\n\nViele Grüße\n%s",
		l.FirstName, money.FormatEUR(eur), date, propertyName)
	return mail, nil
}

func (d *Dispatcher) bookingMail(ctx context.Context, ev confirmationEvent, language domainlender.Language) (policies.ConfirmationMail, error) {
	unit, err := d.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return policies.ConfirmationMail{}, err
	}
	defer unit.Rollback(ctx)

	l, err := unit.Lenders().ByID(ctx, domainlender.LenderID(ev.LenderID))
	if err != nil {
		return policies.ConfirmationMail{}, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(ev.BookingID))
	if err != nil {
		return policies.ConfirmationMail{}, err
	}
	apartment, err := unit.Apartments().ByID(ctx, b.ApartmentID)
	if err != nil {
		return policies.ConfirmationMail{}, err
	}
	rates, err := unit.SeasonalRates().ListByApartment(ctx, b.ApartmentID)
	if err != nil {
		return policies.ConfirmationMail{}, err
	}
	cost, err := domainbooking.TotalCost(b, apartment, rates, l)
	if err != nil {
		return policies.ConfirmationMail{}, err
	}

	mail := policies.ConfirmationMail{Recipient: ev.Recipient, Language: language}
	if language == domainlender.LanguageEN {
		mail.Subject = "Booking Confirmation – " + propertyName
		mail.TextBody = fmt.Sprintf(
			"Dear %s,\n\nyour booking of %s from %s to %s is confirmed.\nTotal: %s EUR\n\nBest regards\n%s",
			l.FirstName, apartment.Name,
			b.Range.Start.Format(daterange.Layout), b.Range.End.Format(daterange.Layout),
			cost.StringFixed(2), propertyName)
		return mail, nil
	}
	mail.Subject = "Buchungsbestätigung – " + propertyName
	mail.TextBody = fmt.Sprintf(
		"Hallo %s,\n\nIhre Buchung von %s vom %s bis %s ist bestätigt.\nGesamtkosten: %s EUR\n\nViele Grüße\n%s",
		l.FirstName, apartment.Name,
		b.Range.Start.Format("02.01.2006"), b.Range.End.Format("02.01.2006"),
		money.FormatEUR(cost), propertyName)
	return mail, nil
}

func (d *Dispatcher) recordSent(ctx context.Context, c *domainnotify.SentConfirmation) error {
	unit, err := d.UoWFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	if err := unit.Confirmations().Save(ctx, c); err != nil {
		_ = unit.Rollback(ctx)
		return err
	}
	return unit.Commit(ctx)
}

var _ infraoutbox.Dispatcher = (*Dispatcher)(nil)
