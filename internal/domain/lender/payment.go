package lender

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

var (
	ErrPaymentNotFound   = errors.New("lender: payment not found")
	ErrNonPositiveAmount = errors.New("lender: payment amount must be positive")
)

type PaymentID string

type LoanID string

type LoanType string

const (
	LoanFlexible LoanType = "flexible"
	LoanFixed    LoanType = "fixed"
)

// Loan is bookkeeping metadata grouping payments. It never enters balance
// math; payments without an explicit loan land in the lender's flexible one.
type Loan struct {
	ID           LoanID
	LenderID     LenderID
	Type         LoanType
	TargetAmount *decimal.Decimal
	CreatedAt    time.Time
}

// Payment is an advance by a lender, converted to EUR at recording time.
type Payment struct {
	ID             PaymentID
	LenderID       LenderID
	Date           time.Time
	OriginalAmount decimal.Decimal
	Currency       money.Currency
	ExchangeRate   decimal.Decimal
	LoanID         LoanID
}

func (p *Payment) Validate() error {
	if p.OriginalAmount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	// Surfaces ErrInvalidCurrency / ErrExchangeRateRequired early.
	_, err := p.AmountEUR()
	return err
}

// AmountEUR is the payment's euro value: identity for EUR, multiplied by the
// exchange rate and banker-rounded to cents for USD.
func (p *Payment) AmountEUR() (decimal.Decimal, error) {
	return money.ToEUR(p.OriginalAmount, p.Currency, p.ExchangeRate)
}

type PaymentRepository interface {
	ByID(ctx context.Context, id PaymentID) (*Payment, error)
	Save(ctx context.Context, p *Payment) error
	ListByLender(ctx context.Context, id LenderID) ([]*Payment, error)
	// List returns every payment ordered by lender last name, then date.
	List(ctx context.Context) ([]*Payment, error)
}

type LoanRepository interface {
	Save(ctx context.Context, l *Loan) error
	// FlexibleByLender returns the lender's flexible loan or nil when absent.
	FlexibleByLender(ctx context.Context, id LenderID) (*Loan, error)
}
