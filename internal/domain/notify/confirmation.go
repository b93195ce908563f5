package notify

import (
	"context"
	"errors"
	"time"

	"github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
)

var ErrUnknownKind = errors.New("notify: unknown confirmation kind")

// Kind distinguishes what triggered a confirmation mail.
type Kind string

const (
	KindPayment Kind = "payment"
	KindBooking Kind = "booking"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPayment:
		return KindPayment, nil
	case KindBooking:
		return KindBooking, nil
	default:
		return "", ErrUnknownKind
	}
}

// SentConfirmation is the audit record written by the dispatcher after a
// successful send. The pricing engine never reads it; a missing record just
// means the mail can be re-sent.
type SentConfirmation struct {
	ID        string
	LenderID  lender.LenderID
	Kind      Kind
	SubjectID string
	Language  lender.Language
	Recipient string
	SentAt    time.Time
}

type Repository interface {
	Save(ctx context.Context, c *SentConfirmation) error
	List(ctx context.Context) ([]*SentConfirmation, error)
}
