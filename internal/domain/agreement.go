package domain

import "time"

// AgreementStatus tracks a payment plan negotiated over a charge.
type AgreementStatus string

const (
	AgreementStatusActive    AgreementStatus = "ACTIVE"
	AgreementStatusSettled   AgreementStatus = "SETTLED"
	AgreementStatusDefaulted AgreementStatus = "DEFAULTED"
)

// Agreement is a negotiated installment plan for a charge.
type Agreement struct {
	ID               string
	ChargeID         string
	TotalCents       int64
	InstallmentCount int
	Status           AgreementStatus
	StartDate        time.Time
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Installment is one scheduled payment within an agreement. Number is 1-based.
type Installment struct {
	ID          string
	AgreementID string
	Number      int
	AmountCents int64
	DueDate     time.Time
	PaidAt      *time.Time
	CreatedAt   time.Time
}
