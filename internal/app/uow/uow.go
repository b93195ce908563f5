package uow

import (
	"context"

	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainnotify "github.com/KarlGo0815/cbvgoodwill/internal/domain/notify"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
)

// UnitOfWork coordinates repositories inside one transaction boundary.
// Admission reads its snapshot and persists through the same unit, so the
// overlap check and the insert are atomic.
type UnitOfWork interface {
	Lenders() domainlender.Repository
	Payments() domainlender.PaymentRepository
	Loans() domainlender.LoanRepository
	Apartments() domainrental.Repository
	SeasonalRates() domainrental.SeasonalRateRepository
	Bookings() domainbooking.Repository
	Confirmations() domainnotify.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
