package dto

// SentConfirmation is one line of the confirmation mail audit log.
type SentConfirmation struct {
	ID        string `json:"id"`
	LenderID  string `json:"lender_id"`
	Kind      string `json:"kind"`
	SubjectID string `json:"subject_id"`
	Language  string `json:"language"`
	Recipient string `json:"recipient"`
	SentAt    string `json:"sent_at"`
}
