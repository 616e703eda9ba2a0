package report

import (
	"fmt"
	"time"

	"github.com/sfa/backend/internal/domain/shared"
)

// Filter scopes every dashboard to a period and optionally to part of the
// sales hierarchy
type Filter struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	ReferenceID string    `json:"referenceid,omitempty"`
	TSM         string    `json:"tsm,omitempty"`
	Manager     string    `json:"manager,omitempty"`
}

// DefaultMaxPeriodDays bounds a report period when no limit is configured
const DefaultMaxPeriodDays = 366

// Validate checks the period against DefaultMaxPeriodDays
func (f Filter) Validate() error {
	return f.ValidateWithin(DefaultMaxPeriodDays)
}

// ValidateWithin checks that the period is complete, ordered and spans at most
// maxDays days. Daily dashboards emit one row per day of the period.
func (f Filter) ValidateWithin(maxDays int) error {
	if f.From.IsZero() || f.To.IsZero() {
		return shared.ErrInvalidInput.WithMessage("Report period requires both from and to")
	}
	if f.To.Before(f.From) {
		return shared.ErrInvalidInput.WithMessage("Report period end is before its start")
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxPeriodDays
	}
	if f.To.Sub(f.From) > time.Duration(maxDays)*24*time.Hour {
		return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Report period cannot exceed %d days", maxDays))
	}
	return nil
}

// CacheKey is a stable key identifying the filter
func (f Filter) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		f.From.UTC().Format(time.RFC3339), f.To.UTC().Format(time.RFC3339), f.ReferenceID, f.TSM, f.Manager)
}

// DefaultPeriod returns the current calendar month up to now in loc
func DefaultPeriod(now time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	return start, now
}
