package dto

import (
	domainbooking "github.com/KarlGo0815/cbvgoodwill/internal/domain/booking"
)

// Check statuses for the live pre-check endpoint. The contract mirrors the
// admin form's polling script: a flat status plus formatted saldo/kosten.
const (
	CheckStatusIncomplete   = "incomplete"
	CheckStatusInvalidDates = "invalid_dates"
	CheckStatusOK           = "ok"
	CheckStatusWarning      = "warning"
	CheckStatusError        = "error"
)

// BookingCheck is the pre-check response.
type BookingCheck struct {
	Status   string   `json:"status"`
	Saldo    string   `json:"saldo,omitempty"`
	Kosten   string   `json:"kosten,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Message  string   `json:"message,omitempty"`
}

type AdmissionWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Balance string `json:"balance,omitempty"`
	Cost    string `json:"cost,omitempty"`
}

type AdmissionError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	ConflictsWith string `json:"conflicts_with,omitempty"`
}

// Admission is the full verdict returned by the persistence path.
type Admission struct {
	Verdict  string             `json:"verdict"`
	Warnings []AdmissionWarning `json:"warnings,omitempty"`
	Errors   []AdmissionError   `json:"errors,omitempty"`
	Balance  string             `json:"balance,omitempty"`
	Cost     string             `json:"cost,omitempty"`
}

func MapAdmission(res domainbooking.Result) Admission {
	out := Admission{Verdict: string(res.Verdict)}
	for _, w := range res.Warnings {
		aw := AdmissionWarning{Code: string(w.Code), Message: w.Message}
		if w.Code == domainbooking.WarnInsufficientBalance {
			aw.Balance = w.Balance.StringFixed(2)
			aw.Cost = w.Cost.StringFixed(2)
		}
		out.Warnings = append(out.Warnings, aw)
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, AdmissionError{
			Code:          string(e.Code),
			Message:       e.Message,
			ConflictsWith: string(e.ConflictsWith),
		})
	}
	if !res.Rejected() {
		out.Balance = res.Balance.StringFixed(2)
		out.Cost = res.Cost.StringFixed(2)
	}
	return out
}
