package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ClientRequest payload for creating/updating a client.
type ClientRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

func (r ClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Document, validation.Required, validation.Length(4, 32)),
		validation.Field(&r.Email, is.Email),
	)
}

// ClientResponse is the client representation returned to the API.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreditorRequest payload for creating/updating a creditor.
type CreditorRequest struct {
	Name              string `json:"name"`
	Document          string `json:"document"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	CommissionRateBps int32  `json:"commission_rate_bps"`
}

func (r CreditorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Document, validation.Required, validation.Length(4, 32)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.CommissionRateBps, validation.Min(0), validation.Max(10000)),
	)
}

// CreditorResponse is the creditor representation returned to the API.
type CreditorResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Document          string    `json:"document"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	CommissionRateBps int32     `json:"commission_rate_bps"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ChargeRequest payload for creating/updating a charge.
type ChargeRequest struct {
	ClientID    string `json:"client_id"`
	CreditorID  string `json:"creditor_id"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	DueDate     string `json:"due_date"`
}

func (r ChargeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientID, validation.Required, is.UUID),
		validation.Field(&r.CreditorID, validation.Required, is.UUID),
		validation.Field(&r.AmountCents, validation.Required, validation.Min(1)),
		validation.Field(&r.DueDate, validation.Required, validation.Date("2006-01-02")),
	)
}

// PaymentRequest payload for POST /charges/:id/payments.
type PaymentRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	PaidAt      string `json:"paid_at"`
}

func (r PaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AmountCents, validation.Required, validation.Min(1)),
		validation.Field(&r.PaidAt, validation.Date(time.RFC3339)),
	)
}

// ChargeResponse is the charge representation returned to the API.
type ChargeResponse struct {
	ID               string    `json:"id"`
	ClientID         string    `json:"client_id"`
	CreditorID       string    `json:"creditor_id"`
	Description      string    `json:"description,omitempty"`
	AmountCents      int64     `json:"amount_cents"`
	PaidCents        int64     `json:"paid_cents"`
	OutstandingCents int64     `json:"outstanding_cents"`
	Status           string    `json:"status"`
	DueDate          string    `json:"due_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PaymentResponse is the payment representation returned to the API.
type PaymentResponse struct {
	ID          string    `json:"id"`
	ChargeID    string    `json:"charge_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method,omitempty"`
	RecordedBy  string    `json:"recorded_by"`
	PaidAt      time.Time `json:"paid_at"`
}
