package lender

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrLenderNotFound  = errors.New("lender: not found")
	ErrMissingName     = errors.New("lender: first and last name required")
	ErrMissingEmail    = errors.New("lender: email required")
	ErrInvalidLanguage = errors.New("lender: language must be de or en")
	ErrInvalidDiscount = errors.New("lender: discount percent must be between 0 and 100")
)

type LenderID string

// Language selects the wording of confirmation mails. It is always passed
// explicitly; nothing in the engine reads an ambient locale.
type Language string

const (
	LanguageDE Language = "de"
	LanguageEN Language = "en"
)

func ParseLanguage(code string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(code))) {
	case LanguageDE, "":
		return LanguageDE, nil
	case LanguageEN:
		return LanguageEN, nil
	default:
		return "", ErrInvalidLanguage
	}
}

// Lender is an informal creditor drawing down a prepaid balance via
// bookings. The balance itself is never stored; see the ledger package.
type Lender struct {
	ID              LenderID
	FirstName       string
	LastName        string
	Street          string
	HouseNumber     string
	PostalCode      string
	Country         string
	Email           string
	Mobile          string
	WhatsApp        string
	Language        Language
	DiscountPercent decimal.Decimal
}

func (l *Lender) Validate() error {
	if strings.TrimSpace(l.FirstName) == "" || strings.TrimSpace(l.LastName) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(l.Email) == "" {
		return ErrMissingEmail
	}
	if l.Language != LanguageDE && l.Language != LanguageEN {
		return ErrInvalidLanguage
	}
	if l.DiscountPercent.Sign() < 0 || l.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidDiscount
	}
	return nil
}

func (l *Lender) FullName() string {
	return l.FirstName + " " + l.LastName
}

type Repository interface {
	ByID(ctx context.Context, id LenderID) (*Lender, error)
	Save(ctx context.Context, l *Lender) error
	List(ctx context.Context) ([]*Lender, error)
}
