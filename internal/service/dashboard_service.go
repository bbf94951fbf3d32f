package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/recupera/collections-service/internal/persistence"
	"github.com/recupera/collections-service/internal/repository"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardSummary is the cached aggregate shown on the landing screen.
type DashboardSummary struct {
	OutstandingCents     int64     `json:"outstanding_cents"`
	CollectedMonthCents  int64     `json:"collected_month_cents"`
	OpenChargeCount      int64     `json:"open_charge_count"`
	UpcomingAppointments int64     `json:"upcoming_appointments"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// DashboardService computes summary aggregates with a short Redis cache in
// front of the SQL. A cache failure falls through to the database.
type DashboardService struct {
	charges      repository.ChargeRepository
	appointments repository.AppointmentRepository
	cache        *persistence.Redis
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// NewDashboardService builds the service.
func NewDashboardService(
	charges repository.ChargeRepository,
	appointments repository.AppointmentRepository,
	cache *persistence.Redis,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{
		charges:      charges,
		appointments: appointments,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// Summary returns the dashboard aggregates, served from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats, err := s.charges.Stats(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.appointments.CountUpcoming(ctx, now)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		OutstandingCents:     stats.OutstandingCents,
		CollectedMonthCents:  stats.CollectedMonthCents,
		OpenChargeCount:      stats.OpenChargeCount,
		UpcomingAppointments: upcoming,
		GeneratedAt:          now,
	}
	s.toCache(ctx, summary)
	return summary, nil
}

func (s *DashboardService) fromCache(ctx context.Context) *DashboardSummary {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var summary DashboardSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *DashboardService) toCache(ctx context.Context, summary *DashboardSummary) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, dashboardCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("dashboard cache write failed", zap.Error(err))
	}
}
