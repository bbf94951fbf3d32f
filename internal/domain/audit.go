package domain

import "time"

// AuditEntry is an append-only record of a mutating action.
// Detail is an opaque key/value payload; no schema is enforced.
type AuditEntry struct {
	ID         string
	ActorID    string
	ActorEmail string
	Action     string
	Entity     string
	EntityID   string
	Detail     map[string]any
	CreatedAt  time.Time
}
