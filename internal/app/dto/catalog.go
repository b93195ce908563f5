package dto

// LenderView is the read model of a lender record.
type LenderView struct {
	ID              string `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Street          string `json:"street,omitempty"`
	HouseNumber     string `json:"house_number,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
	Country         string `json:"country,omitempty"`
	Email           string `json:"email"`
	Mobile          string `json:"mobile,omitempty"`
	WhatsApp        string `json:"whatsapp,omitempty"`
	Language        string `json:"language"`
	DiscountPercent string `json:"discount_percent"`
}

// ApartmentView is the read model of an apartment.
type ApartmentView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	PricePerNight string `json:"price_per_night"`
	IsActive      bool   `json:"is_active"`
	Color         string `json:"color"`
	WholeProperty bool   `json:"whole_property"`
}
