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

// PortfolioService manages clients, creditors and charges, and routes
// payments through the commission arithmetic.
type PortfolioService struct {
	clients    repository.ClientRepository
	creditors  repository.CreditorRepository
	charges    repository.ChargeRepository
	dispatcher events.Dispatcher
	notifier   *NotificationService
}

// NewPortfolioService builds the service.
func NewPortfolioService(
	clients repository.ClientRepository,
	creditors repository.CreditorRepository,
	charges repository.ChargeRepository,
	dispatcher events.Dispatcher,
	notifier *NotificationService,
) *PortfolioService {
	return &PortfolioService{
		clients:    clients,
		creditors:  creditors,
		charges:    charges,
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

// --- clients ---

func (s *PortfolioService) CreateClient(ctx context.Context, actor *auth.Principal, client *domain.Client) error {
	if err := s.clients.Create(ctx, client); err != nil {
		return err
	}
	s.audit(ctx, actor, "client", client.ID, map[string]any{"name": client.Name})
	return nil
}

func (s *PortfolioService) UpdateClient(ctx context.Context, actor *auth.Principal, client *domain.Client) error {
	if err := s.clients.Update(ctx, client); err != nil {
		return err
	}
	s.audit(ctx, actor, "client", client.ID, nil)
	return nil
}

func (s *PortfolioService) DeleteClient(ctx context.Context, actor *auth.Principal, id string) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "client", id, map[string]any{"deleted": true})
	return nil
}

func (s *PortfolioService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *PortfolioService) ListClients(ctx context.Context, search string, limit, offset int) ([]domain.Client, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.clients.List(ctx, search, limit, offset)
}

// ClientWhatsAppLink builds a prefilled collection message link for the
// client's phone.
func (s *PortfolioService) ClientWhatsAppLink(ctx context.Context, id, message string) (string, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if client.Phone == "" {
		return "", apperrors.NewValidationError("client has no phone number", nil)
	}
	if message == "" {
		message = "Hello " + client.Name + ", we are reaching out about a pending balance. Please contact us."
	}
	return s.notifier.WhatsAppLink(client.Phone, message), nil
}

// --- creditors ---

func (s *PortfolioService) CreateCreditor(ctx context.Context, actor *auth.Principal, creditor *domain.Creditor) error {
	if err := s.creditors.Create(ctx, creditor); err != nil {
		return err
	}
	s.audit(ctx, actor, "creditor", creditor.ID, map[string]any{"name": creditor.Name})
	return nil
}

func (s *PortfolioService) UpdateCreditor(ctx context.Context, actor *auth.Principal, creditor *domain.Creditor) error {
	if err := s.creditors.Update(ctx, creditor); err != nil {
		return err
	}
	s.audit(ctx, actor, "creditor", creditor.ID, nil)
	return nil
}

func (s *PortfolioService) DeleteCreditor(ctx context.Context, actor *auth.Principal, id string) error {
	if err := s.creditors.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "creditor", id, map[string]any{"deleted": true})
	return nil
}

func (s *PortfolioService) GetCreditor(ctx context.Context, id string) (*domain.Creditor, error) {
	return s.creditors.GetByID(ctx, id)
}

func (s *PortfolioService) ListCreditors(ctx context.Context, limit, offset int) ([]domain.Creditor, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.creditors.List(ctx, limit, offset)
}

// --- charges ---

func (s *PortfolioService) CreateCharge(ctx context.Context, actor *auth.Principal, charge *domain.Charge) error {
	if _, err := s.clients.GetByID(ctx, charge.ClientID); err != nil {
		return apperrors.NewNotFound("client", nil)
	}
	if _, err := s.creditors.GetByID(ctx, charge.CreditorID); err != nil {
		return apperrors.NewNotFound("creditor", nil)
	}
	charge.Status = domain.ChargeStatusOpen
	if err := s.charges.Create(ctx, charge); err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventChargeCreated,
		Entity:    "charge",
		EntityID:  charge.ID,
		Actor:     actorOf(actor),
		Timestamp: time.Now(),
		Payload:   map[string]any{"amount_cents": charge.AmountCents, "client_id": charge.ClientID},
	})
	return nil
}

func (s *PortfolioService) UpdateCharge(ctx context.Context, actor *auth.Principal, charge *domain.Charge) error {
	if err := s.charges.Update(ctx, charge); err != nil {
		return err
	}
	s.audit(ctx, actor, "charge", charge.ID, nil)
	return nil
}

func (s *PortfolioService) GetCharge(ctx context.Context, id string) (*domain.Charge, error) {
	return s.charges.GetByID(ctx, id)
}

func (s *PortfolioService) ListCharges(ctx context.Context, filter repository.ChargeFilter) ([]domain.Charge, error) {
	return s.charges.ListWithFilter(ctx, filter)
}

func (s *PortfolioService) ListPayments(ctx context.Context, chargeID string) ([]domain.Payment, error) {
	return s.charges.ListPayments(ctx, chargeID)
}

// RecordPayment collects money against a charge. The commission is computed
// at the creditor's current rate inside the same transaction that updates
// the charge.
func (s *PortfolioService) RecordPayment(ctx context.Context, actor *auth.Principal, chargeID string, amountCents int64, method string, paidAt time.Time) (*domain.Charge, error) {
	charge, err := s.charges.GetByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.Status == domain.ChargeStatusCancelled {
		return nil, apperrors.NewConflict("charge is cancelled", nil)
	}
	if amountCents <= 0 || amountCents > charge.Outstanding() {
		return nil, apperrors.NewValidationError("payment amount must be positive and at most the outstanding balance", nil)
	}

	creditor, err := s.creditors.GetByID(ctx, charge.CreditorID)
	if err != nil {
		return nil, err
	}

	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	payment := &domain.Payment{
		ChargeID:    chargeID,
		AmountCents: amountCents,
		Method:      method,
		RecordedBy:  actor.SubjectID,
		PaidAt:      paidAt,
	}
	updated, err := s.charges.RecordPayment(ctx, payment, creditor.CommissionRateBps)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPaymentRecorded,
		Entity:    "charge",
		EntityID:  chargeID,
		Actor:     actorOf(actor),
		Timestamp: time.Now(),
		Payload:   events.PaymentRecordedPayload(chargeID, amountCents, updated.Outstanding()),
	})
	return updated, nil
}

func (s *PortfolioService) audit(ctx context.Context, actor *auth.Principal, entity, entityID string, detail map[string]any) {
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEntityMutated,
		Entity:    entity,
		EntityID:  entityID,
		Actor:     actorOf(actor),
		Timestamp: time.Now(),
		Payload:   detail,
	})
}

func actorOf(principal *auth.Principal) events.Actor {
	if principal == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: principal.SubjectID, Email: principal.Email}
}
