package domain

import "time"

// Client models a debtor managed by the agency.
type Client struct {
	ID        string
	Name      string
	Document  string
	Email     string
	Phone     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
