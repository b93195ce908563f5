package reports

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
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/storage/memory"
)

func seedReportWorld(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)

	require.NoError(t, unit.Lenders().Save(ctx, &domainlender.Lender{
		ID: "lender-1", FirstName: "Anna", LastName: "Berger",
		Email: "anna@example.com", Language: domainlender.LanguageDE,
	}))
	require.NoError(t, unit.Apartments().Save(ctx, &domainrental.Apartment{
		ID: "apt-sea", Name: "Sea View", PricePerNight: decimal.RequireFromString("100"),
		IsActive: true, Color: "#ff6666",
	}))

	require.NoError(t, unit.Payments().Save(ctx, &domainlender.Payment{
		ID: "pay-1", LenderID: "lender-1",
		Date:           time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		OriginalAmount: decimal.RequireFromString("1000"),
		Currency:       money.EUR, ExchangeRate: decimal.NewFromInt(1),
	}))
	require.NoError(t, unit.Payments().Save(ctx, &domainlender.Payment{
		ID: "pay-2", LenderID: "lender-1",
		Date:           time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		OriginalAmount: decimal.RequireFromString("500"),
		Currency:       money.USD, ExchangeRate: decimal.RequireFromString("0.92"),
	}))

	dr, err := daterange.FromStrings("2026-03-01", "2026-03-05")
	require.NoError(t, err)
	require.NoError(t, unit.Bookings().Save(ctx, &domainbooking.Booking{
		ID: "bkg-1", LenderID: "lender-1", ApartmentID: "apt-sea", Range: dr,
	}))

	require.NoError(t, unit.Commit(ctx))
	return store
}

func TestPaymentListReport(t *testing.T) {
	h := &PaymentListHandler{UoWFactory: seedReportWorld(t)}

	rows, err := h.Handle(context.Background(), PaymentListQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	eur := rows[0]
	assert.Equal(t, "pay-1", eur.PaymentID)
	assert.Equal(t, "Anna Berger", eur.Lender)
	assert.Equal(t, "2026-01-10", eur.Date)
	assert.Equal(t, "1000.00", eur.AmountEUR)
	assert.Empty(t, eur.ExchangeRate)

	usd := rows[1]
	assert.Equal(t, "USD", usd.Currency)
	assert.Equal(t, "0.92", usd.ExchangeRate)
	assert.Equal(t, "460.00", usd.AmountEUR)
}

func TestLenderUsageReport(t *testing.T) {
	h := &LenderUsageHandler{UoWFactory: seedReportWorld(t)}

	rows, err := h.Handle(context.Background(), LenderUsageQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Anna Berger", row.Name)
	assert.Equal(t, "1460.00", row.TotalPayments)
	assert.Equal(t, "400.00", row.TotalUsed)
	assert.Equal(t, "1060.00", row.Balance)
}

func TestPriceListReport(t *testing.T) {
	ctx := context.Background()
	store := seedReportWorld(t)

	july := decimal.RequireFromString("20")
	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.SeasonalRates().Save(ctx, &domainrental.SeasonalRate{
		ID: "rate-jul", ApartmentID: "apt-sea",
		StartDate:     time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC),
		PercentAdjust: &july,
	}))
	require.NoError(t, unit.Commit(ctx))

	h := &PriceListHandler{UoWFactory: store}

	rows, err := h.Handle(ctx, PriceListQuery{Today: time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Sea View", row.Name)
	assert.Equal(t, "100.00", row.BasePrice)
	assert.Equal(t, "120.00", row.CurrentPrice)
	require.Len(t, row.SeasonalRates, 1)
	assert.Equal(t, "2026-07-01", row.SeasonalRates[0].StartDate)
	assert.Equal(t, "20", row.SeasonalRates[0].PercentAdjust)

	// Outside the season the current price falls back to the base price.
	rows, err = h.Handle(ctx, PriceListQuery{Today: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "100.00", rows[0].CurrentPrice)
}
