package dto

// BookingView is the read model of a persisted booking.
type BookingView struct {
	ID               string `json:"id"`
	LenderID         string `json:"lender_id"`
	ApartmentID      string `json:"apartment_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Nights           int    `json:"nights"`
	CustomTotalPrice string `json:"custom_total_price,omitempty"`
	TotalCost        string `json:"total_cost"`
}

// PaymentReceipt is returned after recording a payment.
type PaymentReceipt struct {
	PaymentID string `json:"payment_id"`
	AmountEUR string `json:"amount_eur"`
	Balance   string `json:"balance"`
	LoanID    string `json:"loan_id"`
}
