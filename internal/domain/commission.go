package domain

import "time"

// Commission is the agency cut earned on a recorded payment.
// RemittanceID is nil until the commission is closed into a batch.
type Commission struct {
	ID           string
	PaymentID    string
	ChargeID     string
	CreditorID   string
	RemittanceID *string
	AmountCents  int64
	RateBps      int32
	CreatedAt    time.Time
}

// Remittance is a closed batch of commissions for a settlement period.
type Remittance struct {
	ID              string
	Reference       string
	PeriodFrom      time.Time
	PeriodTo        time.Time
	TotalCents      int64
	CommissionCount int
	CreatedBy       string
	CreatedAt       time.Time
}
