package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

func beginWrite(t *testing.T, s *Store) uow.UnitOfWork {
	t.Helper()
	unit, err := s.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	return unit
}

func TestCommitPersistsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	unit := beginWrite(t, s)
	require.NoError(t, unit.Lenders().Save(ctx, &domainlender.Lender{
		ID: "lender-1", FirstName: "Anna", LastName: "Berger",
		Email: "anna@example.com", Language: domainlender.LanguageDE,
	}))
	require.NoError(t, unit.Commit(ctx))

	unit, err := s.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(ctx)

	l, err := unit.Lenders().ByID(ctx, "lender-1")
	require.NoError(t, err)
	assert.Equal(t, "Anna Berger", l.FullName())
}

func TestRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	unit := beginWrite(t, s)
	require.NoError(t, unit.Lenders().Save(ctx, &domainlender.Lender{
		ID: "lender-1", FirstName: "Anna", LastName: "Berger",
		Email: "anna@example.com", Language: domainlender.LanguageDE,
	}))
	require.NoError(t, unit.Rollback(ctx))

	unit, err := s.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(ctx)

	_, err = unit.Lenders().ByID(ctx, "lender-1")
	assert.ErrorIs(t, err, domainlender.ErrLenderNotFound)
}

func TestUnitReadsItsOwnPendingWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	unit := beginWrite(t, s)
	defer unit.Rollback(ctx)

	dr, err := daterange.FromStrings("2026-03-01", "2026-03-05")
	require.NoError(t, err)
	require.NoError(t, unit.Bookings().Save(ctx, &domainbooking.Booking{
		ID: "bkg-1", LenderID: "lender-1", ApartmentID: "apt-sea", Range: dr,
	}))

	listed, err := unit.Bookings().ListByApartment(ctx, "apt-sea")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, domainbooking.BookingID("bkg-1"), listed[0].ID)
}

func TestBookingSaveBumpsVersion(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	dr, err := daterange.FromStrings("2026-03-01", "2026-03-05")
	require.NoError(t, err)
	b := &domainbooking.Booking{ID: "bkg-1", LenderID: "lender-1", ApartmentID: "apt-sea", Range: dr}

	unit := beginWrite(t, s)
	require.NoError(t, unit.Bookings().Save(ctx, b))
	require.NoError(t, unit.Commit(ctx))
	assert.Equal(t, int64(1), b.Version)

	unit = beginWrite(t, s)
	require.NoError(t, unit.Bookings().Save(ctx, b))
	require.NoError(t, unit.Commit(ctx))
	assert.Equal(t, int64(2), b.Version)
}

func TestPaymentListOrdersByLenderNameThenDate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	unit := beginWrite(t, s)
	require.NoError(t, unit.Lenders().Save(ctx, &domainlender.Lender{
		ID: "lender-z", FirstName: "Zoe", LastName: "Ziegler",
		Email: "zoe@example.com", Language: domainlender.LanguageDE,
	}))
	require.NoError(t, unit.Lenders().Save(ctx, &domainlender.Lender{
		ID: "lender-a", FirstName: "Anna", LastName: "Berger",
		Email: "anna@example.com", Language: domainlender.LanguageDE,
	}))
	pay := func(id string, lender domainlender.LenderID, day int) *domainlender.Payment {
		return &domainlender.Payment{
			ID:             domainlender.PaymentID(id),
			LenderID:       lender,
			Date:           time.Date(2026, time.January, day, 0, 0, 0, 0, time.UTC),
			OriginalAmount: decimal.RequireFromString("100"),
			Currency:       money.EUR,
			ExchangeRate:   decimal.NewFromInt(1),
		}
	}
	require.NoError(t, unit.Payments().Save(ctx, pay("pay-z", "lender-z", 1)))
	require.NoError(t, unit.Payments().Save(ctx, pay("pay-a2", "lender-a", 20)))
	require.NoError(t, unit.Payments().Save(ctx, pay("pay-a1", "lender-a", 5)))
	require.NoError(t, unit.Commit(ctx))

	unit, err := s.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(ctx)

	listed, err := unit.Payments().List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, domainlender.PaymentID("pay-a1"), listed[0].ID)
	assert.Equal(t, domainlender.PaymentID("pay-a2"), listed[1].ID)
	assert.Equal(t, domainlender.PaymentID("pay-z"), listed[2].ID)
}

func TestFlexibleLoanLookup(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	unit := beginWrite(t, s)
	loan, err := unit.Loans().FlexibleByLender(ctx, "lender-1")
	require.NoError(t, err)
	assert.Nil(t, loan)

	require.NoError(t, unit.Loans().Save(ctx, &domainlender.Loan{
		ID: "loan-1", LenderID: "lender-1", Type: domainlender.LoanFlexible,
	}))
	loan, err = unit.Loans().FlexibleByLender(ctx, "lender-1")
	require.NoError(t, err)
	require.NotNil(t, loan)
	assert.Equal(t, domainlender.LoanID("loan-1"), loan.ID)
	require.NoError(t, unit.Rollback(ctx))
}
