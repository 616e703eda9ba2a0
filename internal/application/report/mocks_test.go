package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/ticket"
)

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

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindAll(ctx context.Context, filter ticket.Filter) ([]ticket.Ticket, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ticket.Ticket), args.Get(1).(int64), args.Error(2)
}

func (m *MockTicketRepository) FindForReport(ctx context.Context, filter ticket.Filter) ([]ticket.Ticket, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ticket.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTicketRepository) SaveWithLock(ctx context.Context, t *ticket.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTicketRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) FindForReport(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *inventory.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) CountLowStock(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// fakeArchive records stored exports in memory
type fakeArchive struct {
	stored map[string][]byte
	err    error
}

func (a *fakeArchive) Store(_ context.Context, fileName string, data []byte, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if a.stored == nil {
		a.stored = make(map[string][]byte)
	}
	key := "exports/" + fileName
	a.stored[key] = data
	return key, nil
}

func (a *fakeArchive) DownloadURL(_ context.Context, key string, _ time.Duration) (string, time.Time, error) {
	return "https://bucket.example/" + key, time.Date(2026, 3, 15, 13, 0, 0, 0, time.UTC), nil
}
