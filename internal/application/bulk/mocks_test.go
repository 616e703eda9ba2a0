package bulk

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/sfa/backend/internal/domain/bulk"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/sales"
)

// MockAccountRepository is a mock implementation of sales.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]sales.Account, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]sales.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter sales.AccountFilter) ([]sales.Account, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) FindForReport(ctx context.Context, filter sales.AccountFilter) ([]sales.Account, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *sales.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) SaveWithLock(ctx context.Context, account *sales.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) SaveBatch(ctx context.Context, accounts []*sales.Account) error {
	return m.Called(ctx, accounts).Error(0)
}

func (m *MockAccountRepository) UpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]any) (int64, error) {
	args := m.Called(ctx, ids, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) ExistsByCompanyName(ctx context.Context, referenceID, companyName string) (bool, error) {
	args := m.Called(ctx, referenceID, companyName)
	return args.Bool(0), args.Error(1)
}

// MockActivityRepository is a mock implementation of sales.ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Activity), args.Error(1)
}

func (m *MockActivityRepository) FindAll(ctx context.Context, filter sales.ActivityFilter) ([]sales.Activity, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Activity), args.Get(1).(int64), args.Error(2)
}

func (m *MockActivityRepository) FindForReport(ctx context.Context, filter sales.ActivityFilter) ([]sales.Activity, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Activity), args.Error(1)
}

func (m *MockActivityRepository) Save(ctx context.Context, activity *sales.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func (m *MockActivityRepository) SaveWithLock(ctx context.Context, activity *sales.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func (m *MockActivityRepository) UpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]any) (int64, error) {
	args := m.Called(ctx, ids, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActivityRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockOperationRepository is a mock implementation of bulk.OperationRepository
type MockOperationRepository struct {
	mock.Mock
}

func (m *MockOperationRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.Operation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.Operation), args.Error(1)
}

func (m *MockOperationRepository) FindAll(ctx context.Context, filter bulk.OperationFilter) ([]bulk.Operation, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]bulk.Operation), args.Get(1).(int64), args.Error(2)
}

func (m *MockOperationRepository) Save(ctx context.Context, op *bulk.Operation) error {
	return m.Called(ctx, op).Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByReferenceID(ctx context.Context, referenceID string) (*identity.User, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByReferenceIDs(ctx context.Context, referenceIDs []string) ([]identity.User, error) {
	args := m.Called(ctx, referenceIDs)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role identity.Role, manager string) ([]identity.User, error) {
	args := m.Called(ctx, role, manager)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) ExistsByReferenceID(ctx context.Context, referenceID string) (bool, error) {
	args := m.Called(ctx, referenceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// fakeScope runs fn directly over the mock repositories
type fakeScope struct {
	accounts   *MockAccountRepository
	activities *MockActivityRepository
	calls      int
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.calls++
	return fn(s)
}

func (s *fakeScope) Accounts() sales.AccountRepository    { return s.accounts }
func (s *fakeScope) Activities() sales.ActivityRepository { return s.activities }

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}
