package domain

import "time"

// Company is a legal entity the agency operates under.
type Company struct {
	ID        string
	LegalName string
	TradeName string
	Document  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Setting is a single configuration entry. Values are free-form strings.
type Setting struct {
	Key       string
	Value     string
	UpdatedBy string
	UpdatedAt time.Time
}
