package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainlender "github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
)

const (
	saveLenderKey  = "catalog.lender.save"
	listLendersKey = "catalog.lender.list"
)

// SaveLenderCommand creates or updates a lender record.
type SaveLenderCommand struct {
	LenderID        string
	FirstName       string
	LastName        string
	Street          string
	HouseNumber     string
	PostalCode      string
	Country         string
	Email           string
	Mobile          string
	WhatsApp        string
	Language        string
	DiscountPercent string
}

func (c SaveLenderCommand) Key() string { return saveLenderKey }

type SaveLenderHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SaveLenderHandler) Handle(ctx context.Context, cmd SaveLenderCommand) (*dto.LenderView, error) {
	language, err := domainlender.ParseLanguage(cmd.Language)
	if err != nil {
		return nil, err
	}
	discount := decimal.Zero
	if cmd.DiscountPercent != "" {
		discount, err = decimal.NewFromString(cmd.DiscountPercent)
		if err != nil {
			return nil, domainlender.ErrInvalidDiscount
		}
	}

	id := cmd.LenderID
	if id == "" {
		id = uuid.NewString()
	}
	l := &domainlender.Lender{
		ID:              domainlender.LenderID(id),
		FirstName:       cmd.FirstName,
		LastName:        cmd.LastName,
		Street:          cmd.Street,
		HouseNumber:     cmd.HouseNumber,
		PostalCode:      cmd.PostalCode,
		Country:         cmd.Country,
		Email:           cmd.Email,
		Mobile:          cmd.Mobile,
		WhatsApp:        cmd.WhatsApp,
		Language:        language,
		DiscountPercent: discount,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

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
	if err := unit.Lenders().Save(ctx, l); err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	view := mapLender(l)
	return &view, nil
}

// ListLendersQuery returns all lenders.
type ListLendersQuery struct{}

func (q ListLendersQuery) Key() string { return listLendersKey }

type ListLendersHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListLendersHandler) Handle(ctx context.Context, _ ListLendersQuery) ([]dto.LenderView, error) {
	unit, ctx, owned, err := unitFrom(ctx, h.UoWFactory, true)
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
	views := make([]dto.LenderView, 0, len(lenders))
	for _, l := range lenders {
		views = append(views, mapLender(l))
	}
	return views, nil
}

func mapLender(l *domainlender.Lender) dto.LenderView {
	return dto.LenderView{
		ID:              string(l.ID),
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Street:          l.Street,
		HouseNumber:     l.HouseNumber,
		PostalCode:      l.PostalCode,
		Country:         l.Country,
		Email:           l.Email,
		Mobile:          l.Mobile,
		WhatsApp:        l.WhatsApp,
		Language:        string(l.Language),
		DiscountPercent: l.DiscountPercent.String(),
	}
}

func unitFrom(ctx context.Context, factory uow.UoWFactory, readOnly bool) (uow.UnitOfWork, context.Context, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, false, nil
	}
	if factory == nil {
		return nil, ctx, false, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return nil, ctx, false, err
	}
	return unit, uow.ContextWithUnitOfWork(ctx, unit), true, nil
}

var (
	_ commands.Handler[SaveLenderCommand, *dto.LenderView] = (*SaveLenderHandler)(nil)
	_ queries.Handler[ListLendersQuery, []dto.LenderView]  = (*ListLendersHandler)(nil)
)
