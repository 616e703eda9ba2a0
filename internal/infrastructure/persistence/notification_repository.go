package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/notification"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of a recipient's notifications, newest first
func (r *GormNotificationRepository) FindAll(ctx context.Context, filter notification.Filter) ([]notification.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{})
	query = whereEq(query, "reference_id", filter.ReferenceID)
	query = whereEq(query, "status", string(filter.Status))

	var rows []models.NotificationModel
	total, err := listPage(query, filter.Filter, NotificationSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	items := make([]notification.Notification, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// CountUnread counts the recipient's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, referenceID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("reference_id = ? AND status = ?", referenceID, notification.StatusUnread).
		Count(&count).Error
	return count, err
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	model := &models.NotificationModel{}
	model.FromDomain(n)
	return r.db.WithContext(ctx).Save(model).Error
}

// MarkAllRead marks every unread notification of the recipient read in one statement
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, referenceID string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("reference_id = ? AND status = ?", referenceID, notification.StatusUnread).
		Updates(map[string]any{
			"status":     notification.StatusRead,
			"read_at":    at,
			"updated_at": at,
		})
	return result.RowsAffected, result.Error
}
