package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/events"
	"github.com/recupera/collections-service/internal/repository"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// ScheduleService manages client appointments.
type ScheduleService struct {
	appointments repository.AppointmentRepository
	clients      repository.ClientRepository
	dispatcher   events.Dispatcher
}

// NewScheduleService builds the service.
func NewScheduleService(appointments repository.AppointmentRepository, clients repository.ClientRepository, dispatcher events.Dispatcher) *ScheduleService {
	return &ScheduleService{appointments: appointments, clients: clients, dispatcher: dispatcher}
}

// Create schedules an appointment for the acting operator.
func (s *ScheduleService) Create(ctx context.Context, actor *auth.Principal, appointment *domain.Appointment) error {
	if _, err := s.clients.GetByID(ctx, appointment.ClientID); err != nil {
		return apperrors.NewNotFound("client", nil)
	}
	if appointment.ScheduledAt.Before(time.Now()) {
		return apperrors.NewValidationError("scheduled_at must be in the future", nil)
	}
	appointment.UserID = actor.SubjectID
	appointment.Status = domain.AppointmentStatusScheduled
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return err
	}
	s.mutated(ctx, actor, appointment.ID, map[string]any{"client_id": appointment.ClientID})
	return nil
}

// Update reschedules or closes an appointment.
func (s *ScheduleService) Update(ctx context.Context, actor *auth.Principal, appointment *domain.Appointment) error {
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return err
	}
	s.mutated(ctx, actor, appointment.ID, map[string]any{"status": string(appointment.Status)})
	return nil
}

// Delete removes an appointment.
func (s *ScheduleService) Delete(ctx context.Context, actor *auth.Principal, id string) error {
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, actor, id, map[string]any{"deleted": true})
	return nil
}

// Get returns one appointment.
func (s *ScheduleService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

// ListByDay pages over appointments for a calendar day (zero day: upcoming).
func (s *ScheduleService) ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]domain.Appointment, error) {
	return s.appointments.ListByDay(ctx, day, limit, offset)
}

func (s *ScheduleService) mutated(ctx context.Context, actor *auth.Principal, id string, detail map[string]any) {
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEntityMutated,
		Entity:    "appointment",
		EntityID:  id,
		Actor:     actorOf(actor),
		Timestamp: time.Now(),
		Payload:   detail,
	})
}
