// Package identity manages the agents of the sales hierarchy.
package identity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/shared"
)

// maxReferenceIDAttempts bounds the retries on a reference ID collision
const maxReferenceIDAttempts = 5

// UserService handles agent registration and lookups
type UserService struct {
	users  identity.UserRepository
	rnd    identity.RandomSource
	logger *zap.Logger
}

// NewUserService creates a new user service. rnd may be nil for the default source.
func NewUserService(users identity.UserRepository, rnd identity.RandomSource, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:  users,
		rnd:    rnd,
		logger: logger,
	}
}

// CreateUser registers an agent under a freshly generated reference ID
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("Email already registered")
	}

	ref, err := s.uniqueReferenceID(ctx, req.Firstname, req.Lastname, req.Location)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(ref, req.Firstname, req.Lastname, req.Email, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	user.Location = req.Location
	user.AssignTo(req.TSM, req.Manager)

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("referenceid", user.ReferenceID),
		zap.String("role", string(user.Role)),
	)

	response := ToUserResponse(user)
	return &response, nil
}

func (s *UserService) uniqueReferenceID(ctx context.Context, first, last, location string) (string, error) {
	for attempt := 0; attempt < maxReferenceIDAttempts; attempt++ {
		ref := identity.GenerateReferenceID(first, last, location, s.rnd)
		taken, err := s.users.ExistsByReferenceID(ctx, ref)
		if err != nil {
			return "", err
		}
		if !taken {
			return ref, nil
		}
		s.logger.Debug("Reference ID collision", zap.String("referenceid", ref), zap.Int("attempt", attempt+1))
	}
	return "", shared.ErrConcurrencyConflict.WithMessage(
		fmt.Sprintf("Could not allocate a free reference ID after %d attempts", maxReferenceIDAttempts))
}

// GetByReferenceID returns one agent
func (s *UserService) GetByReferenceID(ctx context.Context, referenceID string) (*UserResponse, error) {
	user, err := s.users.FindByReferenceID(ctx, referenceID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// ListUsers returns one page of users
func (s *UserService) ListUsers(ctx context.Context, q UserListQuery) (shared.Paginated[UserResponse], error) {
	if q.Role != "" && !identity.Role(q.Role).IsValid() {
		return shared.Paginated[UserResponse]{}, shared.ErrInvalidInput.WithMessage("Invalid role: " + q.Role)
	}
	filter := identity.UserFilter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.PageSize,
			OrderBy:  q.OrderBy,
			OrderDir: q.OrderDir,
			Search:   q.Search,
		}.Normalize(),
		Role:    identity.Role(q.Role),
		Manager: q.Manager,
		TSM:     q.TSM,
		Status:  identity.UserStatus(q.Status),
	}
	users, total, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	return shared.NewPaginated(toUserResponses(users), total, filter.Page, filter.PageSize), nil
}

// FetchTSM lists the active Territory Sales Managers, optionally only those
// under manager
func (s *UserService) FetchTSM(ctx context.Context, manager string) ([]UserResponse, error) {
	users, err := s.users.FindByRole(ctx, identity.RoleTSM, manager)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}
