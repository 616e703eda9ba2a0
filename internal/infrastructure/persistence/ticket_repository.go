package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/domain/ticket"
	"github.com/sfa/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTicketRepository implements ticket.Repository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// FindByID finds a ticket by ID
func (r *GormTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	var model models.TicketModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of tickets
func (r *GormTicketRepository) FindAll(ctx context.Context, filter ticket.Filter) ([]ticket.Ticket, int64, error) {
	var rows []models.TicketModel
	total, err := listPage(r.applyFilter(r.db.WithContext(ctx).Model(&models.TicketModel{}), filter),
		filter.Filter, TicketSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}
	return ticketsToDomain(rows), total, nil
}

// FindForReport returns every ticket opened in the filter's period
func (r *GormTicketRepository) FindForReport(ctx context.Context, filter ticket.Filter) ([]ticket.Ticket, error) {
	var rows []models.TicketModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.TicketModel{}), filter).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return ticketsToDomain(rows), nil
}

// Save creates or updates a ticket
func (r *GormTicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	model := &models.TicketModel{}
	model.FromDomain(t)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates a ticket only if nobody else changed it since it was
// loaded. The caller has already bumped the version once.
func (r *GormTicketRepository) SaveWithLock(ctx context.Context, t *ticket.Ticket) error {
	result := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Where("id = ? AND version = ?", t.ID, t.Version-1).
		Updates(map[string]any{
			"status":       t.Status,
			"closed_at":    t.ClosedAt,
			"channel":      t.Channel,
			"concern":      t.Concern,
			"company_name": t.CompanyName,
			"version":      t.Version,
			"updated_at":   t.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("Ticket was modified by another request")
	}
	return nil
}

// ExistsByNumber checks if a ticket number is taken
func (r *GormTicketRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.TicketModel{}).Where("ticket_number = ?", number))
}

func (r *GormTicketRepository) applyFilter(query *gorm.DB, filter ticket.Filter) *gorm.DB {
	query = whereEq(query, "reference_id", filter.ReferenceID)
	query = whereEq(query, "channel", filter.Channel)
	query = whereEq(query, "status", string(filter.Status))
	query = wherePeriod(query, "created_at", filter.From, filter.To)
	return whereSearch(query, filter.Search, "ticket_number", "company_name", "concern")
}

func ticketsToDomain(rows []models.TicketModel) []ticket.Ticket {
	tickets := make([]ticket.Ticket, len(rows))
	for i := range rows {
		tickets[i] = *rows[i].ToDomain()
	}
	return tickets
}
