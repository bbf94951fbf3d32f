package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// CompanyRequest payload for creating/updating a company.
type CompanyRequest struct {
	LegalName string `json:"legal_name"`
	TradeName string `json:"trade_name"`
	Document  string `json:"document"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (r CompanyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LegalName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Document, validation.Required, validation.Length(4, 32)),
		validation.Field(&r.Email, is.Email),
	)
}

type CompanyResponse struct {
	ID        string    `json:"id"`
	LegalName string    `json:"legal_name"`
	TradeName string    `json:"trade_name,omitempty"`
	Document  string    `json:"document"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingRequest upserts one configuration entry.
type SettingRequest struct {
	Value string `json:"value"`
}

func (r SettingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Value, validation.Required),
	)
}

type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
