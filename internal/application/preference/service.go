// Package preference keeps the per-user UI state on the server.
package preference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/preference"
	"github.com/sfa/backend/internal/domain/shared"
)

const lockTTL = 5 * time.Second

// UpdateRequest is a partial update. Omitted fields are kept.
type UpdateRequest struct {
	SelectedAvatar       *string         `json:"selectedAvatar" binding:"omitempty,max=512"`
	ExpandedFiltersState map[string]bool `json:"expandedFiltersState"`
}

// RecentEmailRequest records an e-mail address the user just wrote to
type RecentEmailRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// Service reads and updates preference documents. Every update is an atomic
// read-modify-write in the store, so concurrent tabs never drop each other's
// changes. The optional lease turns a burst of writes into quick conflicts.
type Service struct {
	store  preference.Store
	locker shared.Locker
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a preference Service. locker may be nil.
func NewService(store preference.Store, locker shared.Locker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, locker: locker, logger: logger, now: time.Now}
}

// Get returns the user's preferences, empty when none are stored
func (s *Service) Get(ctx context.Context, referenceID string) (*preference.Preferences, error) {
	return s.store.Get(ctx, referenceID)
}

// Update merges a partial update into the stored document
func (s *Service) Update(ctx context.Context, referenceID string, req UpdateRequest) (*preference.Preferences, error) {
	return s.mutate(ctx, referenceID, func(p *preference.Preferences) {
		p.Merge(req.SelectedAvatar, req.ExpandedFiltersState)
	})
}

// RememberEmail moves email to the front of the recent list
func (s *Service) RememberEmail(ctx context.Context, referenceID, email string) (*preference.Preferences, error) {
	return s.mutate(ctx, referenceID, func(p *preference.Preferences) {
		p.RememberEmail(email)
	})
}

// Reset deletes the stored document
func (s *Service) Reset(ctx context.Context, referenceID string) error {
	return s.store.Delete(ctx, referenceID)
}

func (s *Service) mutate(ctx context.Context, referenceID string, apply func(*preference.Preferences)) (*preference.Preferences, error) {
	if s.locker != nil {
		lease, err := s.locker.Obtain(ctx, "preferences:"+referenceID, lockTTL)
		if err != nil {
			if errors.Is(err, shared.ErrLockNotObtained) {
				return nil, shared.ErrConcurrencyConflict.WithMessage("Preferences are being updated, try again")
			}
			return nil, fmt.Errorf("failed to lock preferences: %w", err)
		}
		defer func() {
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to release preference lock", zap.String("referenceid", referenceID), zap.Error(err))
			}
		}()
	}

	prefs, err := s.store.Update(ctx, referenceID, func(p *preference.Preferences) {
		apply(p)
		p.UpdatedAt = s.now()
	})
	if errors.Is(err, preference.ErrUpdateContended) {
		return nil, shared.ErrConcurrencyConflict.WithMessage("Preferences are being updated, try again")
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}
