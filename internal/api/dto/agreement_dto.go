package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// AgreementRequest payload for POST /agreements.
type AgreementRequest struct {
	ChargeID         string `json:"charge_id"`
	TotalCents       int64  `json:"total_cents"`
	InstallmentCount int    `json:"installment_count"`
	StartDate        string `json:"start_date"`
}

func (r AgreementRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ChargeID, validation.Required, is.UUID),
		validation.Field(&r.TotalCents, validation.Required, validation.Min(1)),
		validation.Field(&r.InstallmentCount, validation.Required, validation.Min(1), validation.Max(120)),
		validation.Field(&r.StartDate, validation.Required, validation.Date("2006-01-02")),
	)
}

// PayInstallmentRequest payload for paying one installment.
type PayInstallmentRequest struct {
	Method string `json:"method"`
}

// AgreementResponse is the agreement representation returned to the API.
type AgreementResponse struct {
	ID               string                `json:"id"`
	ChargeID         string                `json:"charge_id"`
	TotalCents       int64                 `json:"total_cents"`
	InstallmentCount int                   `json:"installment_count"`
	Status           string                `json:"status"`
	StartDate        string                `json:"start_date"`
	CreatedAt        time.Time             `json:"created_at"`
	Installments     []InstallmentResponse `json:"installments,omitempty"`
}

// InstallmentResponse is one schedule entry.
type InstallmentResponse struct {
	Number      int        `json:"number"`
	AmountCents int64      `json:"amount_cents"`
	DueDate     string     `json:"due_date"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}
