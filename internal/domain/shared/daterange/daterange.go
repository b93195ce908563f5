package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end date must be after start date")
	ErrBadFormat    = errors.New("daterange: dates must be formatted YYYY-MM-DD")
)

// Layout is the wire format for dates at the HTTP boundary.
const Layout = "2006-01-02"

// DateRange is a half-open interval [Start, End) of whole nights: End is the
// checkout day and is never charged.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// New normalizes both dates to midnight UTC and validates the range.
func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: truncate(start), End: truncate(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// FromStrings parses YYYY-MM-DD boundary values into a range.
func FromStrings(start, end string) (DateRange, error) {
	s, err := time.Parse(Layout, start)
	if err != nil {
		return DateRange{}, ErrBadFormat
	}
	e, err := time.Parse(Layout, end)
	if err != nil {
		return DateRange{}, ErrBadFormat
	}
	return New(s, e)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if !dr.End.After(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Nights is the number of charged nights.
func (dr DateRange) Nights() int {
	return int(dr.End.Sub(dr.Start).Hours() / 24)
}

// Overlaps reports whether two half-open ranges share at least one night.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Start.Before(other.End) && other.Start.Before(dr.End)
}

// LastNight is the final charged night, one day before checkout.
func (dr DateRange) LastNight() time.Time {
	return dr.End.AddDate(0, 0, -1)
}

func (dr DateRange) IsZero() bool {
	return dr.Start.IsZero() && dr.End.IsZero()
}

func truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
