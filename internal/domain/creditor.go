package domain

import "time"

// Creditor models the company that owns the debts under collection.
// CommissionRateBps is the agency cut in basis points (250 = 2.5%).
type Creditor struct {
	ID                string
	Name              string
	Document          string
	Email             string
	Phone             string
	CommissionRateBps int32
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
