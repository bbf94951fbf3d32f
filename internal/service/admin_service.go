package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/events"
	"github.com/recupera/collections-service/internal/repository"
)

// AdminService covers the admin-only plumbing: companies and configuration.
type AdminService struct {
	companies  repository.CompanyRepository
	settings   repository.SettingRepository
	dispatcher events.Dispatcher
}

// NewAdminService builds the service.
func NewAdminService(companies repository.CompanyRepository, settings repository.SettingRepository, dispatcher events.Dispatcher) *AdminService {
	return &AdminService{companies: companies, settings: settings, dispatcher: dispatcher}
}

func (s *AdminService) CreateCompany(ctx context.Context, actor *auth.Principal, company *domain.Company) error {
	if err := s.companies.Create(ctx, company); err != nil {
		return err
	}
	s.mutated(ctx, actor, "company", company.ID, map[string]any{"legal_name": company.LegalName})
	return nil
}

func (s *AdminService) UpdateCompany(ctx context.Context, actor *auth.Principal, company *domain.Company) error {
	if err := s.companies.Update(ctx, company); err != nil {
		return err
	}
	s.mutated(ctx, actor, "company", company.ID, nil)
	return nil
}

func (s *AdminService) DeleteCompany(ctx context.Context, actor *auth.Principal, id string) error {
	if err := s.companies.Delete(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, actor, "company", id, map[string]any{"deleted": true})
	return nil
}

func (s *AdminService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *AdminService) ListCompanies(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	return s.companies.List(ctx, limit, offset)
}

// ListSettings returns the whole configuration table.
func (s *AdminService) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	return s.settings.List(ctx)
}

// GetSetting returns one configuration entry.
func (s *AdminService) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	return s.settings.Get(ctx, key)
}

// PutSetting upserts a configuration entry and audits the change.
func (s *AdminService) PutSetting(ctx context.Context, actor *auth.Principal, key, value string) (*domain.Setting, error) {
	setting := &domain.Setting{Key: key, Value: value, UpdatedBy: actor.SubjectID}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	s.mutated(ctx, actor, "setting", key, map[string]any{"value": value})
	return setting, nil
}

func (s *AdminService) mutated(ctx context.Context, actor *auth.Principal, entity, entityID string, detail map[string]any) {
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
