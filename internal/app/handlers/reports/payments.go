package reports

import (
	"context"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainledger "github.com/KarlGo0815/cbvgoodwill/internal/domain/ledger"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

const (
	paymentListKey = "reports.payments"
	lenderUsageKey = "reports.lender_usage"
)

// PaymentListQuery lists every payment, ordered by lender last name and
// date, with original and converted amounts side by side.
type PaymentListQuery struct{}

func (q PaymentListQuery) Key() string { return paymentListKey }

type PaymentListHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *PaymentListHandler) Handle(ctx context.Context, _ PaymentListQuery) ([]dto.PaymentRow, error) {
	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if owned {
		defer unit.Rollback(ctx)
	}

	payments, err := unit.Payments().List(ctx)
	if err != nil {
		return nil, err
	}

	lenders := make(map[domainlender.LenderID]*domainlender.Lender)
	rows := make([]dto.PaymentRow, 0, len(payments))
	for _, p := range payments {
		l, ok := lenders[p.LenderID]
		if !ok {
			l, err = unit.Lenders().ByID(ctx, p.LenderID)
			if err != nil {
				return nil, err
			}
			lenders[p.LenderID] = l
		}
		eur, err := p.AmountEUR()
		if err != nil {
			return nil, err
		}
		row := dto.PaymentRow{
			PaymentID:      string(p.ID),
			Lender:         l.FullName(),
			Date:           p.Date.Format(daterange.Layout),
			OriginalAmount: p.OriginalAmount.StringFixed(2),
			Currency:       string(p.Currency),
			AmountEUR:      eur.StringFixed(2),
		}
		if p.Currency != money.EUR {
			row.ExchangeRate = p.ExchangeRate.String()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LenderUsageQuery lists each lender with lifetime payments, lifetime
// booking costs and the resulting balance.
type LenderUsageQuery struct{}

func (q LenderUsageQuery) Key() string { return lenderUsageKey }

type LenderUsageHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *LenderUsageHandler) Handle(ctx context.Context, _ LenderUsageQuery) ([]dto.LenderUsage, error) {
	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if owned {
		defer unit.Rollback(ctx)
	}

	lenders, err := unit.Lenders().List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.LenderUsage, 0, len(lenders))
	for _, l := range lenders {
		payments, err := unit.Payments().ListByLender(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		bookings, err := unit.Bookings().ListByLender(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		apartments := make(map[domainrental.ApartmentID]*domainrental.Apartment)
		rates := make(domainledger.Rates)
		for _, b := range bookings {
			if _, ok := apartments[b.ApartmentID]; ok {
				continue
			}
			apartment, err := unit.Apartments().ByID(ctx, b.ApartmentID)
			if err != nil {
				return nil, err
			}
			apartments[b.ApartmentID] = apartment
			rates[b.ApartmentID], err = unit.SeasonalRates().ListByApartment(ctx, b.ApartmentID)
			if err != nil {
				return nil, err
			}
		}
		paid, err := domainledger.TotalPaid(payments)
		if err != nil {
			return nil, err
		}
		used, err := domainledger.TotalUsed(l, bookings, apartments, rates)
		if err != nil {
			return nil, err
		}
		rows = append(rows, dto.LenderUsage{
			LenderID:      string(l.ID),
			Name:          l.FullName(),
			TotalPayments: money.RoundCents(paid).StringFixed(2),
			TotalUsed:     money.RoundCents(used).StringFixed(2),
			Balance:       money.RoundCents(paid.Sub(used)).StringFixed(2),
		})
	}
	return rows, nil
}

func unitFrom(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, false, nil
	}
	if factory == nil {
		return nil, ctx, false, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, false, err
	}
	return unit, uow.ContextWithUnitOfWork(ctx, unit), true, nil
}

var (
	_ queries.Handler[PaymentListQuery, []dto.PaymentRow]  = (*PaymentListHandler)(nil)
	_ queries.Handler[LenderUsageQuery, []dto.LenderUsage] = (*LenderUsageHandler)(nil)
)
