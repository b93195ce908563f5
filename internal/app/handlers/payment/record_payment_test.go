package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/booking"
	appoutbox "github.com/KarlGo0815/cbvgoodwill/internal/app/outbox"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/storage/memory"
)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Lenders().Save(ctx, &domainlender.Lender{
		ID:        "lender-1",
		FirstName: "Anna",
		LastName:  "Berger",
		Email:     "anna@example.com",
		Language:  domainlender.LanguageDE,
	}))
	require.NoError(t, unit.Commit(ctx))
	return store
}

func newHandler(store *memory.Store, box *memory.Outbox) *RecordPaymentHandler {
	return &RecordPaymentHandler{
		UoWFactory: store,
		Outbox:     box,
		Encoder:    appoutbox.JSONEventEncoder{},
		Balance:    booking.BalanceFor,
	}
}

func TestRecordPaymentEUR(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	box := memory.NewOutbox()
	h := newHandler(store, box)

	receipt, err := h.Handle(ctx, RecordPaymentCommand{
		PaymentID: "pay-1",
		LenderID:  "lender-1",
		Date:      "2026-01-10",
		Amount:    "1000",
		Currency:  "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, "pay-1", receipt.PaymentID)
	assert.Equal(t, "1000.00", receipt.AmountEUR)
	assert.Equal(t, "1000.00", receipt.Balance)
	assert.NotEmpty(t, receipt.LoanID)

	doc, err := box.Claim(ctx, "worker-test")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "payment.recorded", doc.Name)
}

func TestRecordPaymentUSDConversion(t *testing.T) {
	ctx := context.Background()
	h := newHandler(seededStore(t), memory.NewOutbox())

	receipt, err := h.Handle(ctx, RecordPaymentCommand{
		LenderID:     "lender-1",
		Date:         "2026-01-10",
		Amount:       "500",
		Currency:     "usd",
		ExchangeRate: "0.92",
	})
	require.NoError(t, err)
	assert.Equal(t, "460.00", receipt.AmountEUR)
	assert.Equal(t, "460.00", receipt.Balance)
}

func TestRecordPaymentReusesFlexibleLoan(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	h := newHandler(store, memory.NewOutbox())

	first, err := h.Handle(ctx, RecordPaymentCommand{
		LenderID: "lender-1", Date: "2026-01-10", Amount: "500", Currency: "EUR",
	})
	require.NoError(t, err)

	second, err := h.Handle(ctx, RecordPaymentCommand{
		LenderID: "lender-1", Date: "2026-02-10", Amount: "300", Currency: "EUR",
	})
	require.NoError(t, err)

	assert.Equal(t, first.LoanID, second.LoanID)
	assert.Equal(t, "800.00", second.Balance)
}

func TestRecordPaymentExplicitLoanKept(t *testing.T) {
	ctx := context.Background()
	h := newHandler(seededStore(t), memory.NewOutbox())

	receipt, err := h.Handle(ctx, RecordPaymentCommand{
		LenderID: "lender-1", Date: "2026-01-10", Amount: "500", Currency: "EUR", LoanID: "loan-fixed",
	})
	require.NoError(t, err)
	assert.Equal(t, "loan-fixed", receipt.LoanID)
}

func TestRecordPaymentRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	h := newHandler(seededStore(t), memory.NewOutbox())

	_, err := h.Handle(ctx, RecordPaymentCommand{
		LenderID: "lender-unknown", Date: "2026-01-10", Amount: "500", Currency: "EUR",
	})
	assert.ErrorIs(t, err, domainlender.ErrLenderNotFound)

	_, err = h.Handle(ctx, RecordPaymentCommand{
		LenderID: "lender-1", Date: "10.01.2026", Amount: "500", Currency: "EUR",
	})
	assert.ErrorIs(t, err, daterange.ErrBadFormat)

	_, err = h.Handle(ctx, RecordPaymentCommand{
		LenderID: "lender-1", Date: "2026-01-10", Amount: "-5", Currency: "EUR",
	})
	assert.ErrorIs(t, err, domainlender.ErrNonPositiveAmount)

	_, err = h.Handle(ctx, RecordPaymentCommand{
		LenderID: "lender-1", Date: "2026-01-10", Amount: "500", Currency: "CHF",
	})
	assert.ErrorIs(t, err, money.ErrInvalidCurrency)

	_, err = h.Handle(ctx, RecordPaymentCommand{
		LenderID: "lender-1", Date: "2026-01-10", Amount: "500", Currency: "USD", ExchangeRate: "0",
	})
	assert.ErrorIs(t, err, money.ErrExchangeRateRequired)

	_, err = h.Handle(ctx, RecordPaymentCommand{
		LenderID: "lender-1", Date: "2026-01-10", Amount: "500", Currency: "USD",
	})
	assert.ErrorIs(t, err, money.ErrExchangeRateRequired)
}

func TestRecordPaymentRollbackQueuesNoEvent(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	box := memory.NewOutbox()
	h := newHandler(store, box)
	h.Balance = func(ctx context.Context, unit uow.UnitOfWork, l *domainlender.Lender) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("aggregation failed")
	}

	_, err := h.Handle(ctx, RecordPaymentCommand{
		PaymentID: "pay-1", LenderID: "lender-1", Date: "2026-01-10", Amount: "1000", Currency: "EUR",
	})
	require.Error(t, err)

	unit, err := store.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	_, err = unit.Payments().ByID(ctx, "pay-1")
	assert.ErrorIs(t, err, domainlender.ErrPaymentNotFound)
	require.NoError(t, unit.Rollback(ctx))

	doc, err := box.Claim(ctx, "worker-test")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestRecordPaymentLoanCreatedAtPaymentDate(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	h := newHandler(store, memory.NewOutbox())

	receipt, err := h.Handle(ctx, RecordPaymentCommand{
		LenderID: "lender-1", Date: "2026-01-10", Amount: "500", Currency: "EUR",
	})
	require.NoError(t, err)

	unit, err := store.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(ctx)

	loan, err := unit.Loans().FlexibleByLender(ctx, "lender-1")
	require.NoError(t, err)
	require.NotNil(t, loan)
	assert.Equal(t, domainlender.LoanID(receipt.LoanID), loan.ID)
	assert.Equal(t, domainlender.LoanFlexible, loan.Type)
	assert.Equal(t, "2026-01-10", loan.CreatedAt.Format(daterange.Layout))
}
