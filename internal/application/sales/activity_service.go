package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/aggregation"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
)

// ListActivities returns one page of activities
func (s *Service) ListActivities(ctx context.Context, q ActivityListQuery) (shared.Paginated[ActivityResponse], error) {
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return shared.Paginated[ActivityResponse]{}, shared.ErrInvalidInput.WithMessage("Period end is before its start")
	}
	filter := sales.ActivityFilter{
		Filter:         q.Filter(),
		ReferenceID:    q.ReferenceID,
		TSM:            q.TSM,
		Manager:        q.Manager,
		ActivityStatus: q.ActivityStatus,
		CallStatus:     q.CallStatus,
		CompanyGroup:   q.CompanyGroup,
		From:           q.From,
		To:             endOfDay(q.To),
	}
	acts, total, err := s.activities.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ActivityResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(acts, ToActivityResponse), total, filter.Page, filter.PageSize), nil
}

// GetActivity returns one activity
func (s *Service) GetActivity(ctx context.Context, id uuid.UUID) (*ActivityResponse, error) {
	act, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToActivityResponse(act)
	return &response, nil
}

// CreateActivity logs an activity for the caller unless another agent is named
func (s *Service) CreateActivity(ctx context.Context, actor string, req CreateActivityRequest) (*ActivityResponse, error) {
	var date time.Time
	if req.ActivityDate != nil {
		date = *req.ActivityDate
	}
	act, err := sales.NewActivity(owner(req.ReferenceID, actor), req.CompanyName, req.TypeActivity, date)
	if err != nil {
		return nil, err
	}
	act.Manager = req.Manager
	act.TSM = req.TSM
	act.CompanyGroup = req.CompanyGroup
	act.ContactPerson = req.ContactPerson
	act.CallStatus = req.CallStatus
	act.ActivityStatus = req.ActivityStatus
	act.Remarks = req.Remarks
	act.QuotationNumber = req.QuotationNumber
	act.QuotationAmount = req.QuotationAmount
	act.SONumber = req.SONumber
	act.SOAmount = req.SOAmount
	act.ActualSales = req.ActualSales

	if err := s.activities.Save(ctx, act); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToActivityResponse(act)
	return &response, nil
}

// endOfDay makes a date-only upper bound inclusive of the whole day
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		end := aggregation.EndOfDay(*t)
		return &end
	}
	return t
}

// UpdateActivity changes the provided fields. A stale version is rejected.
func (s *Service) UpdateActivity(ctx context.Context, id uuid.UUID, req UpdateActivityRequest) (*ActivityResponse, error) {
	act, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != act.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	if req.CallStatus != nil {
		act.CallStatus = *req.CallStatus
	}
	if req.ActivityStatus != nil {
		act.ActivityStatus = *req.ActivityStatus
	}
	if req.Remarks != nil {
		act.Remarks = *req.Remarks
	}
	if req.QuotationNumber != nil {
		act.QuotationNumber = *req.QuotationNumber
	}
	if req.QuotationAmount != nil {
		act.QuotationAmount = *req.QuotationAmount
	}
	if req.SONumber != nil {
		act.SONumber = *req.SONumber
	}
	if req.SOAmount != nil {
		act.SOAmount = *req.SOAmount
	}
	if req.ActualSales != nil {
		act.ActualSales = *req.ActualSales
	}
	act.Touch()

	if err := s.activities.SaveWithLock(ctx, act); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToActivityResponse(act)
	return &response, nil
}
