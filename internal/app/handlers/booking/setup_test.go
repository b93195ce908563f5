package booking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/storage/memory"
)

// seededStore builds a memory store with one lender and one apartment, the
// smallest world admission can run against.
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
	apt := &domainrental.Apartment{
		ID:            "apt-sea",
		Name:          "Sea View",
		PricePerNight: decimal.RequireFromString("100"),
		IsActive:      true,
		Color:         "#ff6666",
	}
	apt.Normalize()
	require.NoError(t, unit.Apartments().Save(ctx, apt))
	require.NoError(t, unit.Commit(ctx))
	return store
}

func seedPayment(t *testing.T, store *memory.Store, id, amount string) {
	t.Helper()
	ctx := context.Background()
	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Payments().Save(ctx, &domainlender.Payment{
		ID:             domainlender.PaymentID(id),
		LenderID:       "lender-1",
		Date:           time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		OriginalAmount: decimal.RequireFromString(amount),
		Currency:       money.EUR,
		ExchangeRate:   decimal.NewFromInt(1),
	}))
	require.NoError(t, unit.Commit(ctx))
}

func seedBooking(t *testing.T, store *memory.Store, id, start, end string) {
	t.Helper()
	ctx := context.Background()
	dr, err := daterange.FromStrings(start, end)
	require.NoError(t, err)
	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Bookings().Save(ctx, &domainbooking.Booking{
		ID:          domainbooking.BookingID(id),
		LenderID:    "lender-1",
		ApartmentID: "apt-sea",
		Range:       dr,
		CreatedAt:   time.Now().UTC(),
	}))
	require.NoError(t, unit.Commit(ctx))
}

func storedBooking(t *testing.T, store *memory.Store, id string) *domainbooking.Booking {
	t.Helper()
	ctx := context.Background()
	unit, err := store.Begin(ctx, uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(ctx)
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(id))
	require.NoError(t, err)
	return b
}
