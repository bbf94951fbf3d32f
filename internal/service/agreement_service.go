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

// AgreementService negotiates installment plans over charges.
type AgreementService struct {
	agreements repository.AgreementRepository
	portfolio  *PortfolioService
	dispatcher events.Dispatcher
}

// NewAgreementService builds the service.
func NewAgreementService(agreements repository.AgreementRepository, portfolio *PortfolioService, dispatcher events.Dispatcher) *AgreementService {
	return &AgreementService{agreements: agreements, portfolio: portfolio, dispatcher: dispatcher}
}

// Create generates the agreement plus its installment schedule: amounts are
// split evenly with the remainder on the first installment, due dates step
// monthly from the start date.
func (s *AgreementService) Create(ctx context.Context, actor *auth.Principal, chargeID string, totalCents int64, count int, startDate time.Time) (*domain.Agreement, []domain.Installment, error) {
	charge, err := s.portfolio.GetCharge(ctx, chargeID)
	if err != nil {
		return nil, nil, err
	}
	if charge.Status == domain.ChargeStatusPaid || charge.Status == domain.ChargeStatusCancelled {
		return nil, nil, apperrors.NewConflict("charge is not open for negotiation", nil)
	}
	if count < 1 || count > 120 {
		return nil, nil, apperrors.NewValidationError("installment_count must be between 1 and 120", nil)
	}
	if totalCents <= 0 {
		return nil, nil, apperrors.NewValidationError("total_cents must be positive", nil)
	}

	agreement := &domain.Agreement{
		ChargeID:         chargeID,
		TotalCents:       totalCents,
		InstallmentCount: count,
		Status:           domain.AgreementStatusActive,
		StartDate:        startDate,
		CreatedBy:        actor.SubjectID,
	}
	installments := SplitInstallments(totalCents, count, startDate)

	if err := s.agreements.CreateWithInstallments(ctx, agreement, installments); err != nil {
		return nil, nil, err
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAgreementCreated,
		Entity:    "agreement",
		EntityID:  agreement.ID,
		Actor:     actorOf(actor),
		Timestamp: time.Now(),
		Payload:   map[string]any{"charge_id": chargeID, "installments": count, "total_cents": totalCents},
	})
	return agreement, installments, nil
}

// SplitInstallments divides totalCents into count monthly installments.
// The division remainder lands on the first installment so the sum is exact.
func SplitInstallments(totalCents int64, count int, startDate time.Time) []domain.Installment {
	base := totalCents / int64(count)
	remainder := totalCents - base*int64(count)

	installments := make([]domain.Installment, count)
	for i := 0; i < count; i++ {
		amount := base
		if i == 0 {
			amount += remainder
		}
		installments[i] = domain.Installment{
			Number:      i + 1,
			AmountCents: amount,
			DueDate:     startDate.AddDate(0, i, 0),
		}
	}
	return installments
}

// Get returns the agreement with its schedule.
func (s *AgreementService) Get(ctx context.Context, id string) (*domain.Agreement, []domain.Installment, error) {
	agreement, err := s.agreements.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	installments, err := s.agreements.ListInstallments(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return agreement, installments, nil
}

// List pages through all agreements, newest first.
func (s *AgreementService) List(ctx context.Context, limit, offset int) ([]domain.Agreement, error) {
	return s.agreements.List(ctx, limit, offset)
}

// ListByCharge returns the agreements negotiated over a charge.
func (s *AgreementService) ListByCharge(ctx context.Context, chargeID string) ([]domain.Agreement, error) {
	return s.agreements.ListByCharge(ctx, chargeID)
}

// PayInstallment marks installment n paid and records the amount against
// the underlying charge, so commission arithmetic runs exactly once. The
// agreement settles when its last installment is paid.
func (s *AgreementService) PayInstallment(ctx context.Context, actor *auth.Principal, agreementID string, number int, method string) (*domain.Installment, error) {
	agreement, err := s.agreements.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if agreement.Status != domain.AgreementStatusActive {
		return nil, apperrors.NewConflict("agreement is not active", nil)
	}

	installment, err := s.agreements.GetInstallment(ctx, agreementID, number)
	if err != nil {
		return nil, err
	}
	if installment.PaidAt != nil {
		return nil, apperrors.NewConflict("installment already paid", nil)
	}

	now := time.Now()
	if _, err := s.portfolio.RecordPayment(ctx, actor, agreement.ChargeID, installment.AmountCents, method, now); err != nil {
		return nil, err
	}
	if err := s.agreements.MarkInstallmentPaid(ctx, installment.ID, now); err != nil {
		return nil, err
	}
	installment.PaidAt = &now

	remaining, err := s.agreements.ListInstallments(ctx, agreementID)
	if err == nil {
		unpaid := 0
		for _, inst := range remaining {
			if inst.PaidAt == nil {
				unpaid++
			}
		}
		if unpaid == 0 {
			_ = s.agreements.SetStatus(ctx, agreementID, domain.AgreementStatusSettled)
		}
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventInstallmentPaid,
		Entity:    "agreement",
		EntityID:  agreementID,
		Actor:     actorOf(actor),
		Timestamp: now,
		Payload:   map[string]any{"number": number, "amount_cents": installment.AmountCents},
	})
	return installment, nil
}
