package booking

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/domain/shared/money"
)

type Verdict string

const (
	VerdictAccepted             Verdict = "accepted"
	VerdictAcceptedWithWarnings Verdict = "accepted_with_warnings"
	VerdictRejected             Verdict = "rejected"
)

type WarningCode string

const (
	WarnInsufficientBalance     WarningCode = "insufficient_balance"
	WarnWholePropertyOverridden WarningCode = "whole_property_overridden"
)

type ErrorCode string

const (
	ErrCodeIncompleteInput      ErrorCode = "incomplete_input"
	ErrCodeInvalidDateRange     ErrorCode = "invalid_date_range"
	ErrCodeOverlapConflict      ErrorCode = "overlap_conflict"
	ErrCodeWholePropertyBlocked ErrorCode = "whole_property_blocked"
)

// Warning is advisory: the booking may still be persisted.
type Warning struct {
	Code    WarningCode
	Message string
	Balance decimal.Decimal
	Cost    decimal.Decimal
}

// Error blocks persistence. OverlapConflict carries the conflicting booking
// so the operator sees which stay is in the way.
type Error struct {
	Code          ErrorCode
	Message       string
	ConflictsWith BookingID
}

// Result is the admission verdict for a proposed booking. Balance and Cost
// are filled whenever the proposal got far enough to be priced.
type Result struct {
	Verdict  Verdict
	Warnings []Warning
	Errors   []Error
	Balance  decimal.Decimal
	Cost     decimal.Decimal
}

func (r Result) Rejected() bool {
	return r.Verdict == VerdictRejected
}

// ApartmentBookings pairs an apartment with its current bookings, for the
// whole-property availability scan.
type ApartmentBookings struct {
	Apartment *rental.Apartment
	Bookings  []*Booking
}

// Snapshot is the consistent read admission operates on. The caller
// assembles it inside one transaction so a concurrent writer cannot slip
// between the overlap check and the commit.
type Snapshot struct {
	Proposed      *Booking
	Lender        *lender.Lender
	Apartment     *rental.Apartment
	SeasonalRates []*rental.SeasonalRate
	// SameApartment holds existing bookings for the proposed apartment,
	// including the proposal's stored version during an edit.
	SameApartment []*Booking
	// OtherActive holds every other active apartment and its bookings.
	OtherActive []ApartmentBookings
	// Balance is the lender's balance before this booking.
	Balance decimal.Decimal
}

// Validate admits, warns about, or rejects a proposed booking. It is pure
// over the snapshot and is used both as the live pre-check and as the hard
// gate before persisting. The returned error is reserved for unexpected
// failures (broken pricing data); policy outcomes are values.
func Validate(s Snapshot) (Result, error) {
	b := s.Proposed

	// Field completeness first: nothing below is meaningful without it.
	if b == nil || s.Lender == nil || s.Apartment == nil || b.Range.IsZero() {
		return rejected(Error{
			Code:    ErrCodeIncompleteInput,
			Message: "lender, apartment, start date and end date are required",
		}), nil
	}
	if err := b.Range.Validate(); err != nil {
		return rejected(Error{
			Code:    ErrCodeInvalidDateRange,
			Message: "end date must be after start date",
		}), nil
	}

	// Overlap is a hard invariant and cannot be overridden.
	for _, existing := range s.SameApartment {
		if existing.ID == b.ID {
			continue
		}
		if existing.Range.Overlaps(b.Range) {
			return rejected(Error{
				Code:          ErrCodeOverlapConflict,
				Message:       fmt.Sprintf("dates collide with an existing booking of %s", s.Apartment.Name),
				ConflictsWith: existing.ID,
			}), nil
		}
	}

	cost, err := TotalCost(b, s.Apartment, s.SeasonalRates, s.Lender)
	if err != nil {
		return Result{}, err
	}

	result := Result{Verdict: VerdictAccepted, Balance: s.Balance, Cost: cost}

	// Balance is a soft trust signal: surface it, never block on it.
	if cost.GreaterThan(s.Balance) {
		result.Warnings = append(result.Warnings, Warning{
			Code: WarnInsufficientBalance,
			Message: fmt.Sprintf("current balance is %s EUR but the booking costs %s EUR",
				money.FormatEUR(s.Balance), money.FormatEUR(cost)),
			Balance: s.Balance,
			Cost:    cost,
		})
	}

	if s.Apartment.WholeProperty {
		if !anyOtherFree(s.OtherActive, b) {
			if !b.OverrideConfirm {
				return rejected(Error{
					Code:    ErrCodeWholePropertyBlocked,
					Message: "all other apartments are occupied in this period; booking the whole property requires explicit confirmation",
				}), nil
			}
			result.Warnings = append(result.Warnings, Warning{
				Code:    WarnWholePropertyOverridden,
				Message: "whole-property warning overridden by operator",
			})
		}
	}

	if len(result.Warnings) > 0 {
		result.Verdict = VerdictAcceptedWithWarnings
	}
	return result, nil
}

// anyOtherFree reports whether at least one other active apartment has no
// booking overlapping the proposed range.
func anyOtherFree(others []ApartmentBookings, proposed *Booking) bool {
	for _, other := range others {
		if other.Apartment == nil || !other.Apartment.IsActive || other.Apartment.WholeProperty {
			continue
		}
		free := true
		for _, existing := range other.Bookings {
			if existing.ID == proposed.ID {
				continue
			}
			if existing.Range.Overlaps(proposed.Range) {
				free = false
				break
			}
		}
		if free {
			return true
		}
	}
	return false
}

func rejected(errs ...Error) Result {
	return Result{Verdict: VerdictRejected, Errors: errs}
}
