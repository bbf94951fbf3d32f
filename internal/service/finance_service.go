package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/events"
	"github.com/recupera/collections-service/internal/repository"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// FinanceService reads commissions and closes remittance batches.
type FinanceService struct {
	commissions repository.CommissionRepository
	remittances repository.RemittanceRepository
	dispatcher  events.Dispatcher
}

// NewFinanceService builds the service.
func NewFinanceService(commissions repository.CommissionRepository, remittances repository.RemittanceRepository, dispatcher events.Dispatcher) *FinanceService {
	return &FinanceService{commissions: commissions, remittances: remittances, dispatcher: dispatcher}
}

// ListCommissions pages over commission rows.
func (s *FinanceService) ListCommissions(ctx context.Context, filter repository.CommissionFilter) ([]domain.Commission, error) {
	return s.commissions.ListWithFilter(ctx, filter)
}

// CommissionSummary aggregates the period.
func (s *FinanceService) CommissionSummary(ctx context.Context, from, to time.Time) (*repository.CommissionSummary, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("to must not precede from", nil)
	}
	return s.commissions.Summary(ctx, from, to)
}

// CloseRemittance batches every unremitted commission inside the period.
// The reference is generated from the period when not supplied.
func (s *FinanceService) CloseRemittance(ctx context.Context, actor *auth.Principal, reference string, from, to time.Time) (*domain.Remittance, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("period_to must not precede period_from", nil)
	}
	if reference == "" {
		reference = fmt.Sprintf("REM-%s-%s", from.Format("20060102"), to.Format("20060102"))
	}

	remittance := &domain.Remittance{
		Reference:  reference,
		PeriodFrom: from,
		PeriodTo:   to,
		CreatedBy:  actor.SubjectID,
	}
	if err := s.remittances.CloseBatch(ctx, remittance); err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEntityMutated,
		Entity:    "remittance",
		EntityID:  remittance.ID,
		Actor:     actorOf(actor),
		Timestamp: time.Now(),
		Payload: map[string]any{
			"reference":        remittance.Reference,
			"total_cents":      remittance.TotalCents,
			"commission_count": remittance.CommissionCount,
		},
	})
	return remittance, nil
}

// GetRemittance returns one batch.
func (s *FinanceService) GetRemittance(ctx context.Context, id string) (*domain.Remittance, error) {
	return s.remittances.GetByID(ctx, id)
}

// ListRemittances pages over closed batches.
func (s *FinanceService) ListRemittances(ctx context.Context, limit, offset int) ([]domain.Remittance, error) {
	return s.remittances.List(ctx, limit, offset)
}
