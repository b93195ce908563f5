package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/outbox"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/events"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

const recordPaymentKey = "payment.record"

// RecordPaymentCommand captures a lender's advance. Amount and rate arrive
// as strings and are parsed as exact decimals; a float never sees the money.
type RecordPaymentCommand struct {
	PaymentID    string
	LenderID     string
	Date         string
	Amount       string
	Currency     string
	ExchangeRate string
	LoanID       string
}

func (c RecordPaymentCommand) Key() string { return recordPaymentKey }

type RecordPaymentHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Balance    func(ctx context.Context, unit uow.UnitOfWork, l *domainlender.Lender) (decimal.Decimal, error)
}

// Handle validates and persists the payment, parks it in the lender's
// flexible loan when none was named, and queues the confirmation event.
func (h *RecordPaymentHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*dto.PaymentReceipt, error) {
	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory)
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

	l, err := unit.Lenders().ByID(ctx, domainlender.LenderID(cmd.LenderID))
	if err != nil {
		return nil, err
	}

	p, err := buildPayment(cmd, l.ID)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if p.LoanID == "" {
		loan, err := ensureFlexibleLoan(ctx, unit, l.ID, p.Date)
		if err != nil {
			return nil, err
		}
		p.LoanID = loan.ID
	}

	if err := unit.Payments().Save(ctx, p); err != nil {
		return nil, err
	}

	recorded := domainlender.PaymentRecorded{
		PaymentID: p.ID,
		LenderID:  l.ID,
		Language:  l.Language,
		Recipient: l.Email,
		At:        time.Now().UTC(),
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{recorded}); err != nil {
		return nil, err
	}

	balance := decimal.Zero
	if h.Balance != nil {
		balance, err = h.Balance(ctx, unit, l)
		if err != nil {
			return nil, err
		}
	}

	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	eur, err := p.AmountEUR()
	if err != nil {
		return nil, err
	}
	return &dto.PaymentReceipt{
		PaymentID: string(p.ID),
		AmountEUR: eur.StringFixed(2),
		Balance:   balance.StringFixed(2),
		LoanID:    string(p.LoanID),
	}, nil
}

func buildPayment(cmd RecordPaymentCommand, lenderID domainlender.LenderID) (*domainlender.Payment, error) {
	date, err := time.Parse(daterange.Layout, cmd.Date)
	if err != nil {
		return nil, daterange.ErrBadFormat
	}
	amount, err := decimal.NewFromString(cmd.Amount)
	if err != nil {
		return nil, domainlender.ErrNonPositiveAmount
	}
	currency, err := money.ParseCurrency(cmd.Currency)
	if err != nil {
		return nil, err
	}
	// EUR needs no rate and gets the identity; anything else must name one.
	rate := decimal.NewFromInt(1)
	if cmd.ExchangeRate != "" {
		rate, err = decimal.NewFromString(cmd.ExchangeRate)
		if err != nil {
			return nil, money.ErrExchangeRateRequired
		}
	} else if currency != money.EUR {
		return nil, money.ErrExchangeRateRequired
	}
	id := cmd.PaymentID
	if id == "" {
		id = uuid.NewString()
	}
	return &domainlender.Payment{
		ID:             domainlender.PaymentID(id),
		LenderID:       lenderID,
		Date:           date,
		OriginalAmount: amount,
		Currency:       currency,
		ExchangeRate:   rate,
		LoanID:         domainlender.LoanID(cmd.LoanID),
	}, nil
}

// ensureFlexibleLoan is the get-or-create bucket every unassigned payment
// lands in.
func ensureFlexibleLoan(ctx context.Context, unit uow.UnitOfWork, id domainlender.LenderID, date time.Time) (*domainlender.Loan, error) {
	loan, err := unit.Loans().FlexibleByLender(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan != nil {
		return loan, nil
	}
	loan = &domainlender.Loan{
		ID:        domainlender.LoanID(uuid.NewString()),
		LenderID:  id,
		Type:      domainlender.LoanFlexible,
		CreatedAt: date,
	}
	if err := unit.Loans().Save(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

func unitFrom(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, false, nil
	}
	if factory == nil {
		return nil, ctx, false, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, false, err
	}
	return unit, uow.ContextWithUnitOfWork(ctx, unit), true, nil
}

var _ commands.Handler[RecordPaymentCommand, *dto.PaymentReceipt] = (*RecordPaymentHandler)(nil)
