// Package bulk runs edit, delete and transfer over a selection of accounts
// or activities. Each call is one transaction guarded by a single-flight lease
// per action, target and actor.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/bulk"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/logger"
	"github.com/sfa/backend/internal/infrastructure/telemetry"
)

const (
	defaultLockTTL      = 30 * time.Second
	defaultMaxSelection = 1000
)

// ReportInvalidator drops cached dashboards after records change
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Config bounds bulk calls
type Config struct {
	LockTTL      time.Duration
	MaxSelection int
}

// Service executes bulk actions
type Service struct {
	scope       TransactionScope
	operations  bulk.OperationRepository
	users       identity.UserRepository
	locker      shared.Locker
	invalidator ReportInvalidator
	metrics     *telemetry.Metrics
	cfg         Config
	logger      *zap.Logger
}

// Option configures the Service
type Option func(*Service)

// WithReportInvalidator clears dashboards after every completed call
func WithReportInvalidator(inv ReportInvalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

// WithMetrics records bulk counters
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a bulk Service
func NewService(
	scope TransactionScope,
	operations bulk.OperationRepository,
	users identity.UserRepository,
	locker shared.Locker,
	cfg Config,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	if cfg.MaxSelection <= 0 {
		cfg.MaxSelection = defaultMaxSelection
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		scope:      scope,
		operations: operations,
		users:      users,
		locker:     locker,
		cfg:        cfg,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Edit applies req.Patch to every selected record
func (s *Service) Edit(ctx context.Context, req EditRequest) (*Result, error) {
	if !req.Target.IsValid() {
		return nil, invalidTarget(req.Target)
	}
	ids := bulk.NormalizeSelection(req.IDs)
	if len(ids) == 0 {
		return emptyResult(bulk.ActionEdit, req.Target), nil
	}
	columns, err := bulk.PatchColumns(req.Target, req.Patch)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, bulk.ActionEdit, req.Target, req.Actor, ids, func(repos TransactionalRepositories) (int64, error) {
		if req.Target == bulk.TargetAccounts {
			return repos.Accounts().UpdateFields(ctx, ids, columns)
		}
		return repos.Activities().UpdateFields(ctx, ids, columns)
	})
}

// Delete removes every selected record
func (s *Service) Delete(ctx context.Context, req DeleteRequest) (*Result, error) {
	if !req.Target.IsValid() {
		return nil, invalidTarget(req.Target)
	}
	ids := bulk.NormalizeSelection(req.IDs)
	if len(ids) == 0 {
		return emptyResult(bulk.ActionDelete, req.Target), nil
	}

	return s.run(ctx, bulk.ActionDelete, req.Target, req.Actor, ids, func(repos TransactionalRepositories) (int64, error) {
		if req.Target == bulk.TargetAccounts {
			return repos.Accounts().DeleteByIDs(ctx, ids)
		}
		return repos.Activities().DeleteByIDs(ctx, ids)
	})
}

// Transfer reassigns every selected record to req.ToReferenceID, carrying
// over the target agent's TSM and manager when set
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*Result, error) {
	if !req.Target.IsValid() {
		return nil, invalidTarget(req.Target)
	}
	ids := bulk.NormalizeSelection(req.IDs)
	if len(ids) == 0 {
		return emptyResult(bulk.ActionTransfer, req.Target), nil
	}
	if req.ToReferenceID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Target reference ID cannot be empty")
	}

	agent, err := s.users.FindByReferenceID(ctx, req.ToReferenceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound.WithMessage(fmt.Sprintf("Target agent %s not found", req.ToReferenceID))
		}
		return nil, err
	}
	fields := map[string]any{"reference_id": agent.ReferenceID}
	if agent.TSM != "" {
		fields["tsm"] = agent.TSM
	}
	if agent.Manager != "" {
		fields["manager"] = agent.Manager
	}

	return s.run(ctx, bulk.ActionTransfer, req.Target, req.Actor, ids, func(repos TransactionalRepositories) (int64, error) {
		if req.Target == bulk.TargetAccounts {
			return repos.Accounts().UpdateFields(ctx, ids, fields)
		}
		return repos.Activities().UpdateFields(ctx, ids, fields)
	})
}

// History lists recorded bulk operations
func (s *Service) History(ctx context.Context, f HistoryFilter) ([]OperationResponse, int64, error) {
	filter := bulk.OperationFilter{
		Filter: shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize(),
		Actor:  f.Actor,
		From:   f.From,
		To:     f.To,
	}
	if f.Action != "" {
		a := bulk.Action(f.Action)
		if !a.IsValid() {
			return nil, 0, shared.ErrInvalidInput.WithMessage("Invalid bulk action: " + f.Action)
		}
		filter.Action = &a
	}
	if f.Target != "" {
		t := bulk.Target(f.Target)
		if !t.IsValid() {
			return nil, 0, invalidTarget(t)
		}
		filter.Target = &t
	}
	if f.Status != "" {
		st := bulk.Status(f.Status)
		filter.Status = &st
	}

	ops, total, err := s.operations.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OperationResponse, len(ops))
	for i := range ops {
		out[i] = ToOperationResponse(&ops[i])
	}
	return out, total, nil
}

type mutation func(repos TransactionalRepositories) (int64, error)

func (s *Service) run(ctx context.Context, action bulk.Action, target bulk.Target, actor string, ids []uuid.UUID, fn mutation) (*Result, error) {
	if len(ids) > s.cfg.MaxSelection {
		return nil, shared.ErrInvalidInput.WithMessage(
			fmt.Sprintf("Selection of %d records exceeds the limit of %d", len(ids), s.cfg.MaxSelection))
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "bulk", string(action))
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBulkAction, string(action),
		telemetry.SpanAttrBulkTarget, string(target),
		telemetry.SpanAttrSelectionSize, len(ids),
		telemetry.SpanAttrReferenceID, actor,
	)

	log := s.logger.With(
		zap.String("request_id", logger.GetRequestID(ctx)),
		zap.String("action", string(action)),
		zap.String("target", string(target)),
		zap.String("actor", actor),
		zap.Int("selection_size", len(ids)),
	)

	lease, err := s.locker.Obtain(ctx, LockKey(action, target, actor), s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, shared.ErrLockNotObtained) {
			log.Info("Bulk action rejected, another one is running")
			return nil, shared.ErrBulkInProgress
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to obtain bulk lock: %w", err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to release bulk lock", zap.Error(err))
		}
	}()

	op, err := bulk.NewOperation(action, target, actor, ids, len(ids))
	if err != nil {
		return nil, err
	}
	if err := s.operations.Save(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to record bulk operation: %w", err)
	}

	var affected int64
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		n, err := fn(repos)
		affected = n
		return err
	})
	if err != nil {
		log.Error("Bulk action failed", zap.Error(err))
		telemetry.RecordError(span, err)
		_ = op.Fail(err)
		s.saveOutcome(ctx, op, log)
		s.metrics.RecordBulk(ctx, string(action), string(target), string(bulk.StatusFailed), 0)
		return nil, err
	}

	_ = op.Complete(int(affected), nil)
	s.saveOutcome(ctx, op, log)
	s.metrics.RecordBulk(ctx, string(action), string(target), string(bulk.StatusCompleted), int(affected))
	telemetry.SetAttributes(span, telemetry.SpanAttrAffected, int(affected))
	telemetry.SetOK(span)

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			log.Warn("Failed to invalidate report cache", zap.Error(err))
		}
	}

	log.Info("Bulk action completed", zap.Int64("affected", affected))
	id := op.ID
	return &Result{
		OperationID: &id,
		Action:      action,
		Target:      target,
		Requested:   len(ids),
		Affected:    int(affected),
	}, nil
}

// saveOutcome persists the terminal state, logging failures
func (s *Service) saveOutcome(ctx context.Context, op *bulk.Operation, log *zap.Logger) {
	if err := s.operations.Save(context.WithoutCancel(ctx), op); err != nil {
		log.Error("Failed to save bulk operation outcome",
			zap.String("operation_id", op.ID.String()), zap.Error(err))
	}
}

// LockKey names the lease held while a bulk call runs
func LockKey(action bulk.Action, target bulk.Target, actor string) string {
	return fmt.Sprintf("bulk:%s:%s:%s", action, target, actor)
}

func emptyResult(action bulk.Action, target bulk.Target) *Result {
	return &Result{Action: action, Target: target}
}

func invalidTarget(t bulk.Target) error {
	return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Invalid bulk target: %s", t))
}
