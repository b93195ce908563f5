package dto

// PaymentRow is one line of the raw payment report.
type PaymentRow struct {
	PaymentID      string `json:"payment_id"`
	Lender         string `json:"lender"`
	Date           string `json:"date"`
	OriginalAmount string `json:"original_amount"`
	Currency       string `json:"currency"`
	ExchangeRate   string `json:"exchange_rate,omitempty"`
	AmountEUR      string `json:"amount_eur"`
}

// LenderUsage is one line of the payment-with-usage report.
type LenderUsage struct {
	LenderID      string `json:"lender_id"`
	Name          string `json:"name"`
	TotalPayments string `json:"total_payments"`
	TotalUsed     string `json:"total_used"`
	Balance       string `json:"balance"`
}

// SeasonalRateRow describes one seasonal override in the price list.
type SeasonalRateRow struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	PricePerNight string `json:"price_per_night,omitempty"`
	PercentAdjust string `json:"percent_adjust,omitempty"`
}

// ApartmentPrice is one line of the apartment price list.
type ApartmentPrice struct {
	ApartmentID   string            `json:"apartment_id"`
	Name          string            `json:"name"`
	BasePrice     string            `json:"base_price"`
	CurrentPrice  string            `json:"current_price"`
	IsActive      bool              `json:"is_active"`
	Color         string            `json:"color"`
	SeasonalRates []SeasonalRateRow `json:"seasonal_rates,omitempty"`
}
