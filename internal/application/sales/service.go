// Package sales serves the record screens: company accounts, activities,
// quotations and sales orders.
package sales

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/sales"
)

// ReportInvalidator drops cached dashboards after records change
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles the sales record operations
type Service struct {
	accounts    sales.AccountRepository
	activities  sales.ActivityRepository
	quotations  sales.QuotationRepository
	orders      sales.SalesOrderRepository
	invalidator ReportInvalidator
	logger      *zap.Logger
}

// Option configures the Service
type Option func(*Service)

// WithReportInvalidator invalidates the dashboard cache on every write
func WithReportInvalidator(inv ReportInvalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

// NewService creates a sales record Service
func NewService(
	accounts sales.AccountRepository,
	activities sales.ActivityRepository,
	quotations sales.QuotationRepository,
	orders sales.SalesOrderRepository,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		accounts:   accounts,
		activities: activities,
		quotations: quotations,
		orders:     orders,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate report cache", zap.Error(err))
	}
}

// owner returns the requested reference ID, or the caller's when none is given
func owner(requested, actor string) string {
	if r := strings.TrimSpace(requested); r != "" {
		return r
	}
	return actor
}
