package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// AppointmentRequest payload for scheduling a visit or call.
type AppointmentRequest struct {
	ClientID    string `json:"client_id"`
	Kind        string `json:"kind"`
	ScheduledAt string `json:"scheduled_at"`
	Notes       string `json:"notes"`
}

func (r AppointmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClientID, validation.Required, is.UUID),
		validation.Field(&r.Kind, validation.Required, validation.In("VISIT", "CALL")),
		validation.Field(&r.ScheduledAt, validation.Required, validation.Date(time.RFC3339)),
	)
}

// AppointmentStatusRequest updates the outcome of an appointment.
type AppointmentStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (r AppointmentStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In("SCHEDULED", "DONE", "CANCELLED")),
	)
}

type AppointmentResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	UserID      string    `json:"user_id"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
