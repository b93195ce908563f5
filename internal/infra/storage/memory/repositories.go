package memory

import (
	"context"
	"sort"
	"strings"

	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainnotify "github.com/KarlGo0815/cbvgoodwill/internal/domain/notify"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
)

type lenderRepo struct{ u *Unit }

func (r lenderRepo) ByID(ctx context.Context, id domainlender.LenderID) (*domainlender.Lender, error) {
	if l, ok := r.u.lenders[id]; ok {
		return l, nil
	}
	if l, ok := r.u.store.lenders[id]; ok {
		return l, nil
	}
	return nil, domainlender.ErrLenderNotFound
}

func (r lenderRepo) Save(ctx context.Context, l *domainlender.Lender) error {
	r.u.lenders[l.ID] = l
	return nil
}

func (r lenderRepo) List(ctx context.Context) ([]*domainlender.Lender, error) {
	merged := make(map[domainlender.LenderID]*domainlender.Lender, len(r.u.store.lenders))
	for id, l := range r.u.store.lenders {
		merged[id] = l
	}
	for id, l := range r.u.lenders {
		merged[id] = l
	}
	out := make([]*domainlender.Lender, 0, len(merged))
	for _, l := range merged {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !strings.EqualFold(out[i].LastName, out[j].LastName) {
			return strings.ToLower(out[i].LastName) < strings.ToLower(out[j].LastName)
		}
		return strings.ToLower(out[i].FirstName) < strings.ToLower(out[j].FirstName)
	})
	return out, nil
}

type paymentRepo struct{ u *Unit }

func (r paymentRepo) ByID(ctx context.Context, id domainlender.PaymentID) (*domainlender.Payment, error) {
	if p, ok := r.u.payments[id]; ok {
		return p, nil
	}
	if p, ok := r.u.store.payments[id]; ok {
		return p, nil
	}
	return nil, domainlender.ErrPaymentNotFound
}

func (r paymentRepo) Save(ctx context.Context, p *domainlender.Payment) error {
	r.u.payments[p.ID] = p
	return nil
}

func (r paymentRepo) ListByLender(ctx context.Context, id domainlender.LenderID) ([]*domainlender.Payment, error) {
	out := make([]*domainlender.Payment, 0)
	for _, p := range r.merged() {
		if p.LenderID == id {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r paymentRepo) List(ctx context.Context) ([]*domainlender.Payment, error) {
	out := r.merged()
	lastName := func(p *domainlender.Payment) string {
		if l, ok := r.u.lenders[p.LenderID]; ok {
			return strings.ToLower(l.LastName)
		}
		if l, ok := r.u.store.lenders[p.LenderID]; ok {
			return strings.ToLower(l.LastName)
		}
		return ""
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := lastName(out[i]), lastName(out[j])
		if ni != nj {
			return ni < nj
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r paymentRepo) merged() []*domainlender.Payment {
	merged := make(map[domainlender.PaymentID]*domainlender.Payment, len(r.u.store.payments))
	for id, p := range r.u.store.payments {
		merged[id] = p
	}
	for id, p := range r.u.payments {
		merged[id] = p
	}
	out := make([]*domainlender.Payment, 0, len(merged))
	for _, p := range merged {
		out = append(out, p)
	}
	return out
}

type loanRepo struct{ u *Unit }

func (r loanRepo) Save(ctx context.Context, l *domainlender.Loan) error {
	r.u.loans[l.ID] = l
	return nil
}

func (r loanRepo) FlexibleByLender(ctx context.Context, id domainlender.LenderID) (*domainlender.Loan, error) {
	for _, l := range r.u.loans {
		if l.LenderID == id && l.Type == domainlender.LoanFlexible {
			return l, nil
		}
	}
	for _, l := range r.u.store.loans {
		if l.LenderID == id && l.Type == domainlender.LoanFlexible {
			return l, nil
		}
	}
	return nil, nil
}

type apartmentRepo struct{ u *Unit }

func (r apartmentRepo) ByID(ctx context.Context, id domainrental.ApartmentID) (*domainrental.Apartment, error) {
	if a, ok := r.u.apartments[id]; ok {
		return a, nil
	}
	if a, ok := r.u.store.apartments[id]; ok {
		return a, nil
	}
	return nil, domainrental.ErrApartmentNotFound
}

func (r apartmentRepo) Save(ctx context.Context, a *domainrental.Apartment) error {
	r.u.apartments[a.ID] = a
	return nil
}

func (r apartmentRepo) List(ctx context.Context) ([]*domainrental.Apartment, error) {
	merged := make(map[domainrental.ApartmentID]*domainrental.Apartment, len(r.u.store.apartments))
	for id, a := range r.u.store.apartments {
		merged[id] = a
	}
	for id, a := range r.u.apartments {
		merged[id] = a
	}
	out := make([]*domainrental.Apartment, 0, len(merged))
	for _, a := range merged {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r apartmentRepo) ListActive(ctx context.Context) ([]*domainrental.Apartment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domainrental.Apartment, 0, len(all))
	for _, a := range all {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

type rateRepo struct{ u *Unit }

func (r rateRepo) Save(ctx context.Context, rate *domainrental.SeasonalRate) error {
	r.u.rates[rate.ID] = rate
	return nil
}

func (r rateRepo) ListByApartment(ctx context.Context, id domainrental.ApartmentID) ([]*domainrental.SeasonalRate, error) {
	merged := make(map[domainrental.SeasonalRateID]*domainrental.SeasonalRate)
	for rid, rate := range r.u.store.rates {
		if rate.ApartmentID == id {
			merged[rid] = rate
		}
	}
	for rid, rate := range r.u.rates {
		if rate.ApartmentID == id {
			merged[rid] = rate
		}
	}
	out := make([]*domainrental.SeasonalRate, 0, len(merged))
	for _, rate := range merged {
		out = append(out, rate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

type bookingRepo struct{ u *Unit }

// ByID hands out a copy: an edit mutates the aggregate before admission
// decides, and a rejected edit must not leak into committed state.
func (r bookingRepo) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	if b, ok := r.u.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	if b, ok := r.u.store.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, domainbooking.ErrBookingNotFound
}

func (r bookingRepo) Save(ctx context.Context, b *domainbooking.Booking) error {
	b.Version++
	r.u.bookings[b.ID] = b
	return nil
}

func (r bookingRepo) ListByLender(ctx context.Context, id domainlender.LenderID) ([]*domainbooking.Booking, error) {
	return r.filtered(func(b *domainbooking.Booking) bool { return b.LenderID == id }), nil
}

func (r bookingRepo) ListByApartment(ctx context.Context, id domainrental.ApartmentID) ([]*domainbooking.Booking, error) {
	return r.filtered(func(b *domainbooking.Booking) bool { return b.ApartmentID == id }), nil
}

func (r bookingRepo) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	return r.filtered(func(*domainbooking.Booking) bool { return true }), nil
}

func (r bookingRepo) filtered(keep func(*domainbooking.Booking) bool) []*domainbooking.Booking {
	merged := make(map[domainbooking.BookingID]*domainbooking.Booking)
	for id, b := range r.u.store.bookings {
		if keep(b) {
			merged[id] = b
		}
	}
	for id, b := range r.u.bookings {
		if keep(b) {
			merged[id] = b
		}
	}
	out := make([]*domainbooking.Booking, 0, len(merged))
	for _, b := range merged {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Range.Start.Equal(out[j].Range.Start) {
			return out[i].Range.Start.Before(out[j].Range.Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type confirmationRepo struct{ u *Unit }

func (r confirmationRepo) Save(ctx context.Context, c *domainnotify.SentConfirmation) error {
	r.u.confirmations[c.ID] = c
	return nil
}

func (r confirmationRepo) List(ctx context.Context) ([]*domainnotify.SentConfirmation, error) {
	merged := make(map[string]*domainnotify.SentConfirmation, len(r.u.store.confirmations))
	for id, c := range r.u.store.confirmations {
		merged[id] = c
	}
	for id, c := range r.u.confirmations {
		merged[id] = c
	}
	out := make([]*domainnotify.SentConfirmation, 0, len(merged))
	for _, c := range merged {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}
