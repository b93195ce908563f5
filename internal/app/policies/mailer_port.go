package policies

import (
	"context"

	"github.com/KarlGo0815/cbvgoodwill/internal/domain/lender"
)

// ConfirmationMail is the fully rendered message handed to the mailer.
// The engine supplies data; transport is the dispatcher's problem.
type ConfirmationMail struct {
	Recipient string
	Subject   string
	TextBody  string
	HTMLBody  string
	Language  lender.Language
}

// Mailer is the collaborator boundary to the external mail transport.
type Mailer interface {
	Send(ctx context.Context, mail ConfirmationMail) error
}
