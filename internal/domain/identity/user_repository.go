package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByReferenceID finds the user owning a reference ID
	FindByReferenceID(ctx context.Context, referenceID string) (*User, error)

	// FindByReferenceIDs resolves many agents at once, missing ones are skipped
	FindByReferenceIDs(ctx context.Context, referenceIDs []string) ([]User, error)

	// FindAll returns users with pagination
	FindAll(ctx context.Context, filter UserFilter) ([]User, int64, error)

	// FindByRole returns every active user with the role, optionally under a manager
	FindByRole(ctx context.Context, role Role, manager string) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// ExistsByReferenceID checks if a reference ID is already taken
	ExistsByReferenceID(ctx context.Context, referenceID string) (bool, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter
	Role    Role
	Manager string
	TSM     string
	Status  UserStatus
}
