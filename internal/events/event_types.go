package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserLoggedIn      EventType = "user_logged_in"
	EventUserLoggedOut     EventType = "user_logged_out"
	EventRecoveryRequested EventType = "recovery_requested"
	EventPasswordReset     EventType = "password_reset"
	EventChargeCreated     EventType = "charge_created"
	EventPaymentRecorded   EventType = "payment_recorded"
	EventAgreementCreated  EventType = "agreement_created"
	EventInstallmentPaid   EventType = "installment_paid"
	EventReminderDue       EventType = "reminder_due"
	EventEntityMutated     EventType = "entity_mutated"
)

// Actor encapsulates the acting principal for an event. Both fields are
// empty for system-originated events such as reminders.
type Actor struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Event represents a domain event emitted by services. Payload is an opaque
// key/value mapping persisted verbatim by the audit sink.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id"`
	Actor     Actor          `json:"actor"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// PaymentRecordedPayload builds the payload for a recorded payment.
func PaymentRecordedPayload(chargeID string, amountCents, outstandingCents int64) map[string]any {
	return map[string]any{
		"charge_id":         chargeID,
		"amount_cents":      amountCents,
		"outstanding_cents": outstandingCents,
	}
}

// ReminderDuePayload builds the payload for an upcoming installment reminder.
func ReminderDuePayload(clientID, phone string, amountCents int64, dueDate time.Time) map[string]any {
	return map[string]any{
		"client_id":    clientID,
		"phone":        phone,
		"amount_cents": amountCents,
		"due_date":     dueDate.Format("2006-01-02"),
	}
}
