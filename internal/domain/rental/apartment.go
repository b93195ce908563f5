package rental

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrApartmentNotFound = errors.New("rental: apartment not found")
	ErrMissingName       = errors.New("rental: apartment name required")
	ErrNonPositivePrice  = errors.New("rental: price per night must be positive")
)

// DefaultWholePropertyName is the display name of the unit representing the
// entire premises. The match happens once, on save; everything downstream
// reads the typed WholeProperty flag instead of comparing names again.
const DefaultWholePropertyName = "La Villa Complete"

var wholePropertyName = DefaultWholePropertyName

// SetWholePropertyName overrides the matched name at startup. Empty input is
// ignored.
func SetWholePropertyName(name string) {
	if strings.TrimSpace(name) != "" {
		wholePropertyName = strings.TrimSpace(name)
	}
}

func IsWholePropertyName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), wholePropertyName)
}

type ApartmentID string

// Apartment is a rental unit. Color tags the unit in the calendar view and
// is assigned from the fixed palette when the operator does not pick one.
type Apartment struct {
	ID            ApartmentID
	Name          string
	Description   string
	PricePerNight decimal.Decimal
	IsActive      bool
	Color         string
	WholeProperty bool
}

func (a *Apartment) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrMissingName
	}
	if a.PricePerNight.Sign() <= 0 {
		return ErrNonPositivePrice
	}
	return nil
}

// Normalize derives the stored flag from the display name. Called on every
// save so a rename in either direction keeps the flag honest.
func (a *Apartment) Normalize() {
	a.WholeProperty = IsWholePropertyName(a.Name)
}

type SeasonalRateID string

// SeasonalRate overrides an apartment's nightly price for an inclusive date
// span, either with an absolute price or a signed percentage adjustment.
// Spans of the same apartment may overlap; the resolver picks one.
type SeasonalRate struct {
	ID            SeasonalRateID
	ApartmentID   ApartmentID
	StartDate     time.Time
	EndDate       time.Time
	PricePerNight *decimal.Decimal
	PercentAdjust *decimal.Decimal
}

func (r *SeasonalRate) Validate() error {
	if r.EndDate.Before(r.StartDate) {
		return errors.New("rental: seasonal rate end date before start date")
	}
	if r.PricePerNight == nil && r.PercentAdjust == nil {
		return errors.New("rental: seasonal rate needs a price or a percentage adjustment")
	}
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id ApartmentID) (*Apartment, error)
	Save(ctx context.Context, a *Apartment) error
	List(ctx context.Context) ([]*Apartment, error)
	ListActive(ctx context.Context) ([]*Apartment, error)
}

type SeasonalRateRepository interface {
	Save(ctx context.Context, r *SeasonalRate) error
	// ListByApartment returns rates ordered by start date ascending.
	ListByApartment(ctx context.Context, id ApartmentID) ([]*SeasonalRate, error)
}
