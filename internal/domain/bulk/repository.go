package bulk

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
)

// OperationFilter defines the filters for querying bulk operations
type OperationFilter struct {
	shared.Filter
	Action *Action
	Target *Target
	Status *Status
	Actor  string
	From   *time.Time
	To     *time.Time
}

// OperationRepository defines the interface for bulk operation persistence
type OperationRepository interface {
	// FindByID finds a bulk operation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Operation, error)

	// FindAll returns bulk operations with pagination and filtering
	FindAll(ctx context.Context, filter OperationFilter) ([]Operation, int64, error)

	// Save saves a bulk operation (create or update)
	Save(ctx context.Context, op *Operation) error
}
