package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/sfa/backend/internal/domain/sales"
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

type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAll(ctx context.Context, filter sales.QuotationFilter) ([]sales.Quotation, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Quotation), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuotationRepository) Save(ctx context.Context, q *sales.Quotation) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuotationRepository) SaveWithLock(ctx context.Context, q *sales.Quotation) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuotationRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, filter sales.SalesOrderFilter) ([]sales.SalesOrder, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.SalesOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockSalesOrderRepository) Save(ctx context.Context, o *sales.SalesOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockSalesOrderRepository) SaveWithLock(ctx context.Context, o *sales.SalesOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockSalesOrderRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}
