package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormActivityRepository implements sales.ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByID finds an activity by its ID
func (r *GormActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Activity, error) {
	var model models.ActivityModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of activities, newest activity date first by default
func (r *GormActivityRepository) FindAll(ctx context.Context, filter sales.ActivityFilter) ([]sales.Activity, int64, error) {
	var rows []models.ActivityModel
	total, err := listPage(r.applyFilter(r.db.WithContext(ctx).Model(&models.ActivityModel{}), filter),
		filter.Filter, ActivitySortFields, "activity_date", &rows)
	if err != nil {
		return nil, 0, err
	}
	return activitiesToDomain(rows), total, nil
}

// FindForReport returns every activity in the filter's period in date order
func (r *GormActivityRepository) FindForReport(ctx context.Context, filter sales.ActivityFilter) ([]sales.Activity, error) {
	var rows []models.ActivityModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ActivityModel{}), filter).
		Order("activity_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return activitiesToDomain(rows), nil
}

// Save creates or updates an activity
func (r *GormActivityRepository) Save(ctx context.Context, activity *sales.Activity) error {
	return r.db.WithContext(ctx).Save(models.ActivityModelFromDomain(activity)).Error
}

// SaveWithLock updates an activity loaded at Version-1
func (r *GormActivityRepository) SaveWithLock(ctx context.Context, activity *sales.Activity) error {
	return saveWithLock(r.db.WithContext(ctx), models.ActivityModelFromDomain(activity), activity.ID, activity.Version, "Activity")
}

// UpdateFields applies the same column values to every listed activity in one statement
func (r *GormActivityRepository) UpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]any) (int64, error) {
	return updateByIDs(r.db.WithContext(ctx), &models.ActivityModel{}, ids, fields)
}

// DeleteByIDs removes every listed activity in one statement
func (r *GormActivityRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return deleteByIDs(r.db.WithContext(ctx), &models.ActivityModel{}, ids)
}

func (r *GormActivityRepository) applyFilter(query *gorm.DB, filter sales.ActivityFilter) *gorm.DB {
	query = whereEq(query, "reference_id", filter.ReferenceID)
	query = whereEq(query, "tsm", filter.TSM)
	query = whereEq(query, "manager", filter.Manager)
	query = whereEq(query, "call_status", filter.CallStatus)
	query = whereEq(query, "company_group", filter.CompanyGroup)
	if filter.ActivityStatus != "" {
		query = query.Where("LOWER(activity_status) = LOWER(?)", filter.ActivityStatus)
	}
	query = wherePeriod(query, "activity_date", filter.From, filter.To)
	return whereSearch(query, filter.Search, "company_name", "contact_person", "remarks")
}

func activitiesToDomain(rows []models.ActivityModel) []sales.Activity {
	activities := make([]sales.Activity, len(rows))
	for i := range rows {
		activities[i] = *rows[i].ToDomain()
	}
	return activities
}
