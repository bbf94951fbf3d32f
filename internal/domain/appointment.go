package domain

import "time"

// AppointmentKind distinguishes in-person visits from phone contacts.
type AppointmentKind string

const (
	AppointmentKindVisit AppointmentKind = "VISIT"
	AppointmentKindCall  AppointmentKind = "CALL"
)

// AppointmentStatus tracks scheduling state.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusDone      AppointmentStatus = "DONE"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment is a collection contact scheduled with a client.
type Appointment struct {
	ID          string
	ClientID    string
	UserID      string
	Kind        AppointmentKind
	Status      AppointmentStatus
	ScheduledAt time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
