package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// RemittanceRequest closes a remittance batch over a period.
type RemittanceRequest struct {
	Reference  string `json:"reference"`
	PeriodFrom string `json:"period_from"`
	PeriodTo   string `json:"period_to"`
}

func (r RemittanceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PeriodFrom, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.PeriodTo, validation.Required, validation.Date("2006-01-02")),
	)
}

type CommissionResponse struct {
	ID          string     `json:"id"`
	CreditorID  string     `json:"creditor_id"`
	ChargeID    string     `json:"charge_id"`
	PaymentID   string     `json:"payment_id"`
	AmountCents int64      `json:"amount_cents"`
	RateBps      int32     `json:"rate_bps"`
	RemittanceID *string   `json:"remittance_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type RemittanceResponse struct {
	ID              string    `json:"id"`
	Reference       string    `json:"reference"`
	PeriodFrom      string    `json:"period_from"`
	PeriodTo        string    `json:"period_to"`
	TotalCents      int64     `json:"total_cents"`
	CommissionCount int       `json:"commission_count"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}
