package domain

import "time"

// ChargeStatus tracks the collection lifecycle of a debt.
type ChargeStatus string

const (
	ChargeStatusOpen      ChargeStatus = "OPEN"
	ChargeStatusPartial   ChargeStatus = "PARTIAL"
	ChargeStatusPaid      ChargeStatus = "PAID"
	ChargeStatusCancelled ChargeStatus = "CANCELLED"
)

// Charge is a debt owed by a client to a creditor. Amounts are integer cents.
type Charge struct {
	ID          string
	ClientID    string
	CreditorID  string
	Description string
	AmountCents int64
	PaidCents   int64
	Status      ChargeStatus
	DueDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Outstanding returns the unpaid remainder.
func (c *Charge) Outstanding() int64 {
	return c.AmountCents - c.PaidCents
}

// Payment records money collected against a charge.
type Payment struct {
	ID          string
	ChargeID    string
	AmountCents int64
	Method      string
	RecordedBy  string
	PaidAt      time.Time
	CreatedAt   time.Time
}
