package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/events"
	"github.com/recupera/collections-service/internal/repository"
)

// AuditService appends structured action records from domain events. It is
// strictly best-effort: a failed append is logged and never propagates to
// the operation that produced the event.
type AuditService struct {
	repo   repository.AuditRepository
	logger *zap.Logger
}

// NewAuditService builds the sink.
func NewAuditService(repo repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// RegisterHandlers subscribes the sink to every audited event type.
func (s *AuditService) RegisterHandlers(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventUserLoggedIn,
		events.EventUserLoggedOut,
		events.EventPasswordReset,
		events.EventChargeCreated,
		events.EventPaymentRecorded,
		events.EventAgreementCreated,
		events.EventInstallmentPaid,
		events.EventEntityMutated,
	} {
		dispatcher.Subscribe(eventType, s.handleEvent)
	}
}

func (s *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	entry := &domain.AuditEntry{
		ActorID:    event.Actor.UserID,
		ActorEmail: event.Actor.Email,
		Action:     string(event.Type),
		Entity:     event.Entity,
		EntityID:   event.EntityID,
		Detail:     event.Payload,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Warn("audit append failed",
			zap.String("action", entry.Action),
			zap.String("entity", entry.Entity),
			zap.Error(err))
	}
	return nil
}

// List reads the audit log with filters (admin surface).
func (s *AuditService) List(ctx context.Context, filter repository.AuditFilter) ([]domain.AuditEntry, error) {
	return s.repo.ListWithFilter(ctx, filter)
}
