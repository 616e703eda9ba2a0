package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReferenceID finds the user owning a reference ID
func (r *GormUserRepository) FindByReferenceID(ctx context.Context, referenceID string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReferenceIDs resolves many agents at once
func (r *GormUserRepository) FindByReferenceIDs(ctx context.Context, referenceIDs []string) ([]identity.User, error) {
	if len(referenceIDs) == 0 {
		return []identity.User{}, nil
	}
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).
		Where("reference_id IN ?", referenceIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return usersToDomain(rows), nil
}

// FindAll returns one page of users
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]identity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	query = whereEq(query, "role", string(filter.Role))
	query = whereEq(query, "manager", filter.Manager)
	query = whereEq(query, "tsm", filter.TSM)
	query = whereEq(query, "status", string(filter.Status))
	query = whereSearch(query, filter.Search, "firstname", "lastname", "email", "reference_id")

	var rows []models.UserModel
	total, err := listPage(query, filter.Filter, UserSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	return usersToDomain(rows), total, nil
}

// FindByRole returns every active user with the role, optionally under a manager
func (r *GormUserRepository) FindByRole(ctx context.Context, role identity.Role, manager string) ([]identity.User, error) {
	query := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", role, identity.UserStatusActive)
	query = whereEq(query, "manager", manager)

	var rows []models.UserModel
	if err := query.Order("firstname ASC, lastname ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return usersToDomain(rows), nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error
}

// ExistsByReferenceID checks if a reference ID is already taken
func (r *GormUserRepository) ExistsByReferenceID(ctx context.Context, referenceID string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.UserModel{}).Where("reference_id = ?", referenceID))
}

// ExistsByEmail checks if an email already exists, ignoring case
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))))
}

func usersToDomain(rows []models.UserModel) []identity.User {
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users
}
