package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainnotify "github.com/KarlGo0815/cbvgoodwill/internal/domain/notify"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
// Repos receive the session through the context, via InjectContext.
type Factory struct {
	DB *mongo.Database

	LenderRepo       domainlender.Repository
	PaymentRepo      domainlender.PaymentRepository
	LoanRepo         domainlender.LoanRepository
	ApartmentRepo    domainrental.Repository
	SeasonalRateRepo domainrental.SeasonalRateRepository
	BookingRepo      domainbooking.Repository
	ConfirmationRepo domainnotify.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:            f.DB,
		session:       session,
		lenders:       f.LenderRepo,
		payments:      f.PaymentRepo,
		loans:         f.LoanRepo,
		apartments:    f.ApartmentRepo,
		rates:         f.SeasonalRateRepo,
		bookings:      f.BookingRepo,
		confirmations: f.ConfirmationRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	lenders       domainlender.Repository
	payments      domainlender.PaymentRepository
	loans         domainlender.LoanRepository
	apartments    domainrental.Repository
	rates         domainrental.SeasonalRateRepository
	bookings      domainbooking.Repository
	confirmations domainnotify.Repository
}

func (u *Unit) Lenders() domainlender.Repository { return u.lenders }

func (u *Unit) Payments() domainlender.PaymentRepository { return u.payments }

func (u *Unit) Loans() domainlender.LoanRepository { return u.loans }

func (u *Unit) Apartments() domainrental.Repository { return u.apartments }

func (u *Unit) SeasonalRates() domainrental.SeasonalRateRepository { return u.rates }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Confirmations() domainnotify.Repository { return u.confirmations }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for
// downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
