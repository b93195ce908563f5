package calendar

import (
	"context"
	"sort"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
)

const feedKey = "calendar.feed"

// FeedQuery returns every booking as a calendar entry. There is no date
// window: the whole history is small enough to ship to the view at once.
type FeedQuery struct{}

func (q FeedQuery) Key() string { return feedKey }

type FeedHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *FeedHandler) Handle(ctx context.Context, _ FeedQuery) ([]dto.CalendarEntry, error) {
	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if owned {
		defer unit.Rollback(ctx)
	}

	bookings, err := unit.Bookings().List(ctx)
	if err != nil {
		return nil, err
	}

	lenders := make(map[domainlender.LenderID]*domainlender.Lender)
	apartments := make(map[domainrental.ApartmentID]*domainrental.Apartment)

	entries := make([]dto.CalendarEntry, 0, len(bookings))
	for _, b := range bookings {
		l, ok := lenders[b.LenderID]
		if !ok {
			l, err = unit.Lenders().ByID(ctx, b.LenderID)
			if err != nil {
				return nil, err
			}
			lenders[b.LenderID] = l
		}
		apartment, ok := apartments[b.ApartmentID]
		if !ok {
			apartment, err = unit.Apartments().ByID(ctx, b.ApartmentID)
			if err != nil {
				return nil, err
			}
			apartments[b.ApartmentID] = apartment
		}

		color := apartment.Color
		if color == "" {
			color = domainrental.DefaultColor
		}
		entries = append(entries, dto.CalendarEntry{
			Title:     l.FullName() + " – " + apartment.Name,
			Start:     b.Range.Start.Format(daterange.Layout),
			End:       b.Range.End.Format(daterange.Layout),
			Color:     color,
			TextColor: domainrental.TextColorFor(color),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Start != entries[j].Start {
			return entries[i].Start < entries[j].Start
		}
		return entries[i].Title < entries[j].Title
	})
	return entries, nil
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

var _ queries.Handler[FeedQuery, []dto.CalendarEntry] = (*FeedHandler)(nil)
