// Package memory backs the unit-of-work ports with in-process maps. It is
// the default storage mode for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainnotify "github.com/KarlGo0815/cbvgoodwill/internal/domain/notify"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
)

// Store owns all collections behind one lock. A writing unit holds the lock
// exclusively from Begin to Commit, so the overlap scan and the booking
// insert of one admission can never interleave with another.
type Store struct {
	mu            sync.RWMutex
	lenders       map[domainlender.LenderID]*domainlender.Lender
	payments      map[domainlender.PaymentID]*domainlender.Payment
	loans         map[domainlender.LoanID]*domainlender.Loan
	apartments    map[domainrental.ApartmentID]*domainrental.Apartment
	rates         map[domainrental.SeasonalRateID]*domainrental.SeasonalRate
	bookings      map[domainbooking.BookingID]*domainbooking.Booking
	confirmations map[string]*domainnotify.SentConfirmation
}

func NewStore() *Store {
	return &Store{
		lenders:       make(map[domainlender.LenderID]*domainlender.Lender),
		payments:      make(map[domainlender.PaymentID]*domainlender.Payment),
		loans:         make(map[domainlender.LoanID]*domainlender.Loan),
		apartments:    make(map[domainrental.ApartmentID]*domainrental.Apartment),
		rates:         make(map[domainrental.SeasonalRateID]*domainrental.SeasonalRate),
		bookings:      make(map[domainbooking.BookingID]*domainbooking.Booking),
		confirmations: make(map[string]*domainnotify.SentConfirmation),
	}
}

// Begin locks the store and hands out a unit buffering its writes. Commit
// applies the buffer, Rollback discards it; both release the lock exactly
// once.
func (s *Store) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if opts.ReadOnly {
		s.mu.RLock()
	} else {
		s.mu.Lock()
	}
	return &Unit{
		store:         s,
		readOnly:      opts.ReadOnly,
		lenders:       make(map[domainlender.LenderID]*domainlender.Lender),
		payments:      make(map[domainlender.PaymentID]*domainlender.Payment),
		loans:         make(map[domainlender.LoanID]*domainlender.Loan),
		apartments:    make(map[domainrental.ApartmentID]*domainrental.Apartment),
		rates:         make(map[domainrental.SeasonalRateID]*domainrental.SeasonalRate),
		bookings:      make(map[domainbooking.BookingID]*domainbooking.Booking),
		confirmations: make(map[string]*domainnotify.SentConfirmation),
	}, nil
}

// Unit is a uow.UnitOfWork over the store. Reads see committed state plus
// the unit's own pending writes.
type Unit struct {
	store    *Store
	readOnly bool
	finished bool
	onCommit []func()

	lenders       map[domainlender.LenderID]*domainlender.Lender
	payments      map[domainlender.PaymentID]*domainlender.Payment
	loans         map[domainlender.LoanID]*domainlender.Loan
	apartments    map[domainrental.ApartmentID]*domainrental.Apartment
	rates         map[domainrental.SeasonalRateID]*domainrental.SeasonalRate
	bookings      map[domainbooking.BookingID]*domainbooking.Booking
	confirmations map[string]*domainnotify.SentConfirmation
}

func (u *Unit) Lenders() domainlender.Repository { return lenderRepo{u} }

func (u *Unit) Payments() domainlender.PaymentRepository { return paymentRepo{u} }

func (u *Unit) Loans() domainlender.LoanRepository { return loanRepo{u} }

func (u *Unit) Apartments() domainrental.Repository { return apartmentRepo{u} }

func (u *Unit) SeasonalRates() domainrental.SeasonalRateRepository { return rateRepo{u} }

func (u *Unit) Bookings() domainbooking.Repository { return bookingRepo{u} }

func (u *Unit) Confirmations() domainnotify.Repository { return confirmationRepo{u} }

// deferOnCommit registers a side effect that runs only if the unit commits.
// The memory outbox uses it so queued events share the unit's fate.
func (u *Unit) deferOnCommit(fn func()) {
	u.onCommit = append(u.onCommit, fn)
}

func (u *Unit) Commit(ctx context.Context) error {
	if u.finished {
		return nil
	}
	u.finished = true
	if u.readOnly {
		u.store.mu.RUnlock()
		u.runCommitHooks()
		return nil
	}
	for id, l := range u.lenders {
		u.store.lenders[id] = l
	}
	for id, p := range u.payments {
		u.store.payments[id] = p
	}
	for id, l := range u.loans {
		u.store.loans[id] = l
	}
	for id, a := range u.apartments {
		u.store.apartments[id] = a
	}
	for id, r := range u.rates {
		u.store.rates[id] = r
	}
	for id, b := range u.bookings {
		u.store.bookings[id] = b
	}
	for id, c := range u.confirmations {
		u.store.confirmations[id] = c
	}
	u.store.mu.Unlock()
	u.runCommitHooks()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.finished {
		return nil
	}
	u.finished = true
	u.onCommit = nil
	if u.readOnly {
		u.store.mu.RUnlock()
	} else {
		u.store.mu.Unlock()
	}
	return nil
}

func (u *Unit) runCommitHooks() {
	for _, fn := range u.onCommit {
		fn()
	}
	u.onCommit = nil
}

var _ uow.UoWFactory = (*Store)(nil)
