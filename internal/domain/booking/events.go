package booking

import (
	"time"

	"github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
)

// BookingConfirmed is emitted once, when a new booking is persisted.
// The dispatcher turns it into a confirmation mail; edits never re-emit it.
type BookingConfirmed struct {
	BookingID BookingID       `json:"booking_id"`
	LenderID  lender.LenderID `json:"lender_id"`
	Language  lender.Language `json:"language"`
	Recipient string          `json:"recipient"`
	At        time.Time       `json:"at"`
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }
