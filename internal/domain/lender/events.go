package lender

import "time"

// PaymentRecorded is emitted once, when a new payment is persisted, so the
// dispatcher can send the payment confirmation in the lender's language.
type PaymentRecorded struct {
	PaymentID PaymentID `json:"payment_id"`
	LenderID  LenderID  `json:"lender_id"`
	Language  Language  `json:"language"`
	Recipient string    `json:"recipient"`
	At        time.Time `json:"at"`
}

func (e PaymentRecorded) EventName() string     { return "payment.recorded" }
func (e PaymentRecorded) AggregateID() string   { return string(e.PaymentID) }
func (e PaymentRecorded) OccurredAt() time.Time { return e.At }
