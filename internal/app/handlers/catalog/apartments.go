package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/daterange"
)

const (
	saveApartmentKey    = "catalog.apartment.save"
	listApartmentsKey   = "catalog.apartment.list"
	saveSeasonalRateKey = "catalog.seasonal_rate.save"
)

// SaveApartmentCommand creates or updates an apartment. An empty Color gets
// the first free palette color; a rename to or from the whole-property name
// flips the stored flag.
type SaveApartmentCommand struct {
	ApartmentID   string
	Name          string
	Description   string
	PricePerNight string
	IsActive      bool
	Color         string
}

func (c SaveApartmentCommand) Key() string { return saveApartmentKey }

type SaveApartmentHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SaveApartmentHandler) Handle(ctx context.Context, cmd SaveApartmentCommand) (*dto.ApartmentView, error) {
	price, err := decimal.NewFromString(cmd.PricePerNight)
	if err != nil {
		return nil, domainrental.ErrNonPositivePrice
	}

	id := cmd.ApartmentID
	if id == "" {
		id = uuid.NewString()
	}
	apartment := &domainrental.Apartment{
		ID:            domainrental.ApartmentID(id),
		Name:          cmd.Name,
		Description:   cmd.Description,
		PricePerNight: price,
		IsActive:      cmd.IsActive,
		Color:         cmd.Color,
	}
	if err := apartment.Validate(); err != nil {
		return nil, err
	}
	apartment.Normalize()

	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory, false)
	if err != nil {
		return nil, err
	}
	committed := false
	if owned {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	if apartment.Color == "" {
		existing, err := unit.Apartments().List(ctx)
		if err != nil {
			return nil, err
		}
		used := make([]string, 0, len(existing))
		for _, other := range existing {
			if other.ID == apartment.ID {
				continue
			}
			used = append(used, other.Color)
		}
		apartment.Color = domainrental.AssignColor(used)
	}

	if err := unit.Apartments().Save(ctx, apartment); err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	view := mapApartment(apartment)
	return &view, nil
}

// ListApartmentsQuery returns all apartments, inactive ones included.
type ListApartmentsQuery struct{}

func (q ListApartmentsQuery) Key() string { return listApartmentsKey }

type ListApartmentsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListApartmentsHandler) Handle(ctx context.Context, _ ListApartmentsQuery) ([]dto.ApartmentView, error) {
	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory, true)
	if err != nil {
		return nil, err
	}
	if owned {
		defer unit.Rollback(ctx)
	}
	apartments, err := unit.Apartments().List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]dto.ApartmentView, 0, len(apartments))
	for _, a := range apartments {
		views = append(views, mapApartment(a))
	}
	return views, nil
}

func mapApartment(a *domainrental.Apartment) dto.ApartmentView {
	return dto.ApartmentView{
		ID:            string(a.ID),
		Name:          a.Name,
		Description:   a.Description,
		PricePerNight: a.PricePerNight.StringFixed(2),
		IsActive:      a.IsActive,
		Color:         a.Color,
		WholeProperty: a.WholeProperty,
	}
}

// SaveSeasonalRateCommand attaches a seasonal price override to an
// apartment. The date span is inclusive on both ends.
type SaveSeasonalRateCommand struct {
	RateID        string
	ApartmentID   string
	StartDate     string
	EndDate       string
	PricePerNight string
	PercentAdjust string
}

func (c SaveSeasonalRateCommand) Key() string { return saveSeasonalRateKey }

type SaveSeasonalRateHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SaveSeasonalRateHandler) Handle(ctx context.Context, cmd SaveSeasonalRateCommand) (struct{}, error) {
	start, err := time.Parse(daterange.Layout, cmd.StartDate)
	if err != nil {
		return struct{}{}, daterange.ErrBadFormat
	}
	end, err := time.Parse(daterange.Layout, cmd.EndDate)
	if err != nil {
		return struct{}{}, daterange.ErrBadFormat
	}

	id := cmd.RateID
	if id == "" {
		id = uuid.NewString()
	}
	rate := &domainrental.SeasonalRate{
		ID:          domainrental.SeasonalRateID(id),
		ApartmentID: domainrental.ApartmentID(cmd.ApartmentID),
		StartDate:   start,
		EndDate:     end,
	}
	if cmd.PricePerNight != "" {
		price, err := decimal.NewFromString(cmd.PricePerNight)
		if err != nil {
			return struct{}{}, domainrental.ErrNonPositivePrice
		}
		rate.PricePerNight = &price
	}
	if cmd.PercentAdjust != "" {
		percent, err := decimal.NewFromString(cmd.PercentAdjust)
		if err != nil {
			return struct{}{}, err
		}
		rate.PercentAdjust = &percent
	}
	if err := rate.Validate(); err != nil {
		return struct{}{}, err
	}

	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory, false)
	if err != nil {
		return struct{}{}, err
	}
	committed := false
	if owned {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}
	if _, err := unit.Apartments().ByID(ctx, rate.ApartmentID); err != nil {
		return struct{}{}, err
	}
	if err := unit.SeasonalRates().Save(ctx, rate); err != nil {
		return struct{}{}, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return struct{}{}, err
		}
		committed = true
	}
	return struct{}{}, nil
}

var (
	_ commands.Handler[SaveApartmentCommand, *dto.ApartmentView] = (*SaveApartmentHandler)(nil)
	_ queries.Handler[ListApartmentsQuery, []dto.ApartmentView]  = (*ListApartmentsHandler)(nil)
	_ commands.Handler[SaveSeasonalRateCommand, struct{}]        = (*SaveSeasonalRateHandler)(nil)
)
