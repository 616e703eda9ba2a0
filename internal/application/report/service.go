// Package report serves the dashboards. Each one fetches the records in the
// filter, groups and aggregates them in the domain builders and caches the
// rendered result.
package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/chart"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/report"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/ticket"
	"github.com/sfa/backend/internal/infrastructure/telemetry"
)

// Dashboard names, also used as cache key prefixes
const (
	DashboardSalesSummary     = "sales-summary"
	DashboardDailyActivity    = "daily-activity"
	DashboardAgentPerformance = "agent-performance"
	DashboardStatusBreakdown  = "status-breakdown"
	DashboardCompanyGroups    = "company-groups"
	DashboardTickets          = "tickets"
	DashboardInventory        = "inventory"
	DashboardSalesTrendChart  = "sales-trend-chart"
)

const defaultCacheTTL = 5 * time.Minute

// Cache stores rendered dashboards
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// Config tunes the dashboards
type Config struct {
	Location      *time.Location
	CacheTTL      time.Duration
	ExportMaxRows int
	MaxPeriodDays int
}

// Repositories the dashboards read from
type Repositories struct {
	Accounts   sales.AccountRepository
	Activities sales.ActivityRepository
	Users      identity.UserRepository
	Tickets    ticket.Repository
	Items      inventory.ItemRepository
}

// Service computes dashboards
type Service struct {
	repos   Repositories
	cache   Cache
	archive Archive
	metrics *telemetry.Metrics
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures the Service
type Option func(*Service)

// WithArchive enables archiving exports to object storage
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithMetrics records cache and compute metrics
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a report Service. cache may be nil to disable caching.
func NewService(repos Repositories, cache Cache, cfg Config, logger *zap.Logger, opts ...Option) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.MaxPeriodDays <= 0 {
		cfg.MaxPeriodDays = report.DefaultMaxPeriodDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repos:  repos,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeFilter fills a missing period with the current month and validates it
func (s *Service) NormalizeFilter(f report.Filter) (report.Filter, error) {
	if f.From.IsZero() && f.To.IsZero() {
		f.From, f.To = report.DefaultPeriod(s.now(), s.cfg.Location)
	}
	if err := f.ValidateWithin(s.cfg.MaxPeriodDays); err != nil {
		return f, err
	}
	return f, nil
}

// SalesSummary returns the headline stage cards
func (s *Service) SalesSummary(ctx context.Context, f report.Filter) (*report.SalesSummary, error) {
	return cached(ctx, s, DashboardSalesSummary, f, false, s.computeSummary)
}

// DailyActivity returns one row per day of the period
func (s *Service) DailyActivity(ctx context.Context, f report.Filter) ([]report.DailyActivity, error) {
	return cached(ctx, s, DashboardDailyActivity, f, false, s.computeDaily)
}

// AgentPerformance returns the agent leaderboard
func (s *Service) AgentPerformance(ctx context.Context, f report.Filter) ([]report.AgentPerformance, error) {
	return cached(ctx, s, DashboardAgentPerformance, f, false, s.computeAgents)
}

// StatusBreakdown returns the share of each activity status
func (s *Service) StatusBreakdown(ctx context.Context, f report.Filter) ([]report.StatusShare, error) {
	return cached(ctx, s, DashboardStatusBreakdown, f, false, s.computeStatus)
}

// CompanyGroups returns account counts per company group
func (s *Service) CompanyGroups(ctx context.Context, f report.Filter) ([]report.CompanyGroupSummary, error) {
	return cached(ctx, s, DashboardCompanyGroups, f, false, s.computeCompanyGroups)
}

// Tickets returns the ticketing dashboard
func (s *Service) Tickets(ctx context.Context, f report.Filter) (*report.TicketSummary, error) {
	return cached(ctx, s, DashboardTickets, f, false, s.computeTickets)
}

// Inventory returns stock by warehouse and category with the low-stock list
func (s *Service) Inventory(ctx context.Context, f report.Filter) (*report.InventorySummary, error) {
	return cached(ctx, s, DashboardInventory, f, false, s.computeInventory)
}

// SalesTrendChart renders daily actual sales into SVG geometry. A zero box
// uses the default canvas.
func (s *Service) SalesTrendChart(ctx context.Context, f report.Filter, box chart.Box) (*report.TrendChart, error) {
	days, err := s.DailyActivity(ctx, f)
	if err != nil {
		return nil, err
	}
	c := report.BuildSalesTrendChart(days, box)
	return &c, nil
}

func (s *Service) activities(ctx context.Context, f report.Filter) ([]sales.Activity, error) {
	from, to := f.From, f.To
	acts, err := s.repos.Activities.FindForReport(ctx, sales.ActivityFilter{
		ReferenceID: f.ReferenceID,
		TSM:         f.TSM,
		Manager:     f.Manager,
		From:        &from,
		To:          &to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	return acts, nil
}

func (s *Service) computeSummary(ctx context.Context, f report.Filter) (*report.SalesSummary, error) {
	acts, err := s.activities(ctx, f)
	if err != nil {
		return nil, err
	}
	summary := report.BuildSalesSummary(acts, f)
	return &summary, nil
}

func (s *Service) computeDaily(ctx context.Context, f report.Filter) ([]report.DailyActivity, error) {
	acts, err := s.activities(ctx, f)
	if err != nil {
		return nil, err
	}
	return report.BuildDailyActivity(acts, f, s.cfg.Location, true), nil
}

func (s *Service) computeAgents(ctx context.Context, f report.Filter) ([]report.AgentPerformance, error) {
	acts, err := s.activities(ctx, f)
	if err != nil {
		return nil, err
	}
	return report.BuildAgentPerformance(acts, s.agentNames(ctx, acts)), nil
}

func (s *Service) computeStatus(ctx context.Context, f report.Filter) ([]report.StatusShare, error) {
	acts, err := s.activities(ctx, f)
	if err != nil {
		return nil, err
	}
	return report.BuildStatusBreakdown(acts), nil
}

func (s *Service) computeCompanyGroups(ctx context.Context, f report.Filter) ([]report.CompanyGroupSummary, error) {
	accounts, err := s.repos.Accounts.FindForReport(ctx, sales.AccountFilter{
		ReferenceID: f.ReferenceID,
		TSM:         f.TSM,
		Manager:     f.Manager,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return report.BuildCompanyGroupSummary(accounts), nil
}

func (s *Service) computeTickets(ctx context.Context, f report.Filter) (*report.TicketSummary, error) {
	from, to := f.From, f.To
	tickets, err := s.repos.Tickets.FindForReport(ctx, ticket.Filter{ReferenceID: f.ReferenceID, From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	summary := report.BuildTicketSummary(tickets)
	return &summary, nil
}

// Stock is a snapshot, so the filter only shapes the cache key.
func (s *Service) computeInventory(ctx context.Context, _ report.Filter) (*report.InventorySummary, error) {
	items, err := s.repos.Items.FindForReport(ctx, inventory.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	summary := report.BuildInventorySummary(items)
	return &summary, nil
}

// agentNames resolves display names. A lookup failure leaves the names empty.
func (s *Service) agentNames(ctx context.Context, acts []sales.Activity) map[string]string {
	seen := make(map[string]struct{})
	refs := make([]string, 0)
	for i := range acts {
		ref := acts[i].ReferenceID
		if _, ok := seen[ref]; ok || ref == "" {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	names := make(map[string]string, len(refs))
	if len(refs) == 0 {
		return names
	}
	users, err := s.repos.Users.FindByReferenceIDs(ctx, refs)
	if err != nil {
		s.logger.Warn("Failed to resolve agent names", zap.Error(err))
		return names
	}
	for i := range users {
		names[users[i].ReferenceID] = users[i].FullName()
	}
	return names
}

// cached serves dashboard from the cache, computing and storing it on a miss.
// refresh skips the lookup and always recomputes.
func cached[T any](ctx context.Context, s *Service, dashboard string, f report.Filter, refresh bool,
	compute func(context.Context, report.Filter) (T, error)) (T, error) {
	var zero T
	f, err := s.NormalizeFilter(f)
	if err != nil {
		return zero, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", dashboard)
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrDashboard, dashboard)

	key := dashboard + ":" + f.CacheKey()
	if s.cache != nil && !refresh {
		var out T
		hit, err := s.cache.Get(ctx, key, &out)
		if err != nil {
			s.logger.Warn("Report cache read failed", zap.String("dashboard", dashboard), zap.Error(err))
		}
		s.metrics.RecordCacheLookup(ctx, dashboard, hit)
		telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, hit)
		if hit {
			return out, nil
		}
	}

	start := time.Now()
	out, err := compute(ctx, f)
	if err != nil {
		telemetry.RecordError(span, err)
		return zero, err
	}
	s.metrics.RecordCompute(ctx, dashboard, time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("Report cache write failed", zap.String("dashboard", dashboard), zap.Error(err))
		}
	}
	return out, nil
}
