package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/report"
)

// Warm recomputes one dashboard and overwrites its cache entry
func (s *Service) Warm(ctx context.Context, dashboard string, f report.Filter) error {
	var err error
	switch dashboard {
	case DashboardSalesSummary:
		_, err = cached(ctx, s, dashboard, f, true, s.computeSummary)
	case DashboardDailyActivity, DashboardSalesTrendChart:
		// the chart is drawn from the cached daily rows
		_, err = cached(ctx, s, DashboardDailyActivity, f, true, s.computeDaily)
	case DashboardAgentPerformance:
		_, err = cached(ctx, s, dashboard, f, true, s.computeAgents)
	case DashboardStatusBreakdown:
		_, err = cached(ctx, s, dashboard, f, true, s.computeStatus)
	case DashboardCompanyGroups:
		_, err = cached(ctx, s, dashboard, f, true, s.computeCompanyGroups)
	case DashboardTickets:
		_, err = cached(ctx, s, dashboard, f, true, s.computeTickets)
	case DashboardInventory:
		_, err = cached(ctx, s, dashboard, f, true, s.computeInventory)
	default:
		return fmt.Errorf("unknown dashboard %q", dashboard)
	}
	return err
}

// WarmupFilters lists the filters precomputed on every warmup tick: the whole
// organisation for the current month plus one per TSM team
func (s *Service) WarmupFilters(ctx context.Context, now time.Time) ([]report.Filter, error) {
	from, to := report.DefaultPeriod(now, s.cfg.Location)
	filters := []report.Filter{{From: from, To: to}}

	tsms, err := s.repos.Users.FindByRole(ctx, identity.RoleTSM, "")
	if err != nil {
		return filters, fmt.Errorf("failed to list TSMs: %w", err)
	}
	for _, u := range tsms {
		filters = append(filters, report.Filter{From: from, To: to, TSM: u.ReferenceID})
	}
	return filters, nil
}
