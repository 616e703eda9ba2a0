package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/chart"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/report"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/domain/ticket"
	"github.com/sfa/backend/internal/infrastructure/cache"
	"github.com/sfa/backend/internal/infrastructure/export"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc        *Service
	accounts   *MockAccountRepository
	activities *MockActivityRepository
	users      *MockUserRepository
	tickets    *MockTicketRepository
	items      *MockItemRepository
	cache      *cache.InMemoryReportCache
}

func newFixture(t *testing.T, cfg Config, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		accounts:   new(MockAccountRepository),
		activities: new(MockActivityRepository),
		users:      new(MockUserRepository),
		tickets:    new(MockTicketRepository),
		items:      new(MockItemRepository),
		cache:      cache.NewInMemoryReportCache(),
	}
	t.Cleanup(func() { _ = f.cache.Close() })
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	f.svc = NewService(Repositories{
		Accounts:   f.accounts,
		Activities: f.activities,
		Users:      f.users,
		Tickets:    f.tickets,
		Items:      f.items,
	}, f.cache, cfg, zap.NewNop(), opts...)
	return f
}

func march() report.Filter {
	return report.Filter{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 3, 23, 59, 59, 0, time.UTC),
	}
}

func activity(ref, status string, day int, quote, so, actual float64) sales.Activity {
	return sales.Activity{
		ReferenceID:     ref,
		ActivityStatus:  status,
		CallStatus:      sales.CallStatusSuccessful,
		QuotationAmount: shared.NewAmountFromFloat(quote),
		SOAmount:        shared.NewAmountFromFloat(so),
		ActualSales:     shared.NewAmountFromFloat(actual),
		ActivityDate:    time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC),
	}
}

func sampleActivities() []sales.Activity {
	return []sales.Activity{
		activity("JD-NCR-100001", sales.ActivityStatusQuoteDone, 1, 1000, 0, 0),
		activity("JD-NCR-100001", sales.ActivityStatusDelivered, 2, 0, 500, 450),
		activity("AS-CEB-200002", sales.ActivityStatusSODone, 2, 0, 800, 0),
	}
}

func TestSalesSummary_CachesResult(t *testing.T) {
	f := newFixture(t, Config{})
	f.activities.On("FindForReport", mock.Anything, mock.AnythingOfType("sales.ActivityFilter")).
		Return(sampleActivities(), nil).Once()

	first, err := f.svc.SalesSummary(context.Background(), march())
	require.NoError(t, err)
	assert.Equal(t, 3, first.TotalActivities)
	assert.Equal(t, 1, first.DeliveredSummary.Count)
	assert.Equal(t, "450", first.DeliveredSummary.TotalAmount.String())

	second, err := f.svc.SalesSummary(context.Background(), march())
	require.NoError(t, err)
	assert.Equal(t, first.TotalActivities, second.TotalActivities)
	assert.Equal(t, first.TotalSOAmount.String(), second.TotalSOAmount.String())

	f.activities.AssertNumberOfCalls(t, "FindForReport", 1)
}

func TestSalesSummary_InvalidPeriod(t *testing.T) {
	f := newFixture(t, Config{})
	bad := report.Filter{From: fixedNow, To: fixedNow.Add(-time.Hour)}

	_, err := f.svc.SalesSummary(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	f.activities.AssertNotCalled(t, "FindForReport", mock.Anything, mock.Anything)
}

func TestDailyActivity_PeriodTooLong(t *testing.T) {
	f := newFixture(t, Config{MaxPeriodDays: 31})
	long := report.Filter{
		From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := f.svc.DailyActivity(context.Background(), long)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	_, err = f.svc.SalesTrendChart(context.Background(), long, chart.Box{})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	f.activities.AssertNotCalled(t, "FindForReport", mock.Anything, mock.Anything)
}

func TestSalesSummary_DefaultsToCurrentMonth(t *testing.T) {
	f := newFixture(t, Config{})
	f.activities.On("FindForReport", mock.Anything, mock.MatchedBy(func(filter sales.ActivityFilter) bool {
		return filter.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) && filter.To.Equal(fixedNow)
	})).Return([]sales.Activity{}, nil).Once()

	summary, err := f.svc.SalesSummary(context.Background(), report.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalActivities)
	f.activities.AssertExpectations(t)
}

func TestSalesSummary_RepositoryError(t *testing.T) {
	f := newFixture(t, Config{})
	f.activities.On("FindForReport", mock.Anything, mock.Anything).
		Return([]sales.Activity(nil), errors.New("connection reset")).Once()

	_, err := f.svc.SalesSummary(context.Background(), march())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load activities")
	assert.Equal(t, 0, f.cache.Size())
}

func TestDailyActivity_FillsEmptyDays(t *testing.T) {
	f := newFixture(t, Config{})
	f.activities.On("FindForReport", mock.Anything, mock.Anything).Return(sampleActivities(), nil).Once()

	days, err := f.svc.DailyActivity(context.Background(), march())
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2026-03-01", days[0].Date)
	assert.Equal(t, 2, days[1].Total)
	assert.Equal(t, 0, days[2].Total)
}

func TestAgentPerformance_ResolvesNames(t *testing.T) {
	f := newFixture(t, Config{})
	f.activities.On("FindForReport", mock.Anything, mock.Anything).Return(sampleActivities(), nil).Once()
	f.users.On("FindByReferenceIDs", mock.Anything, []string{"JD-NCR-100001", "AS-CEB-200002"}).
		Return([]identity.User{{ReferenceID: "JD-NCR-100001", Firstname: "Juan", Lastname: "Dela Cruz"}}, nil).Once()

	rows, err := f.svc.AgentPerformance(context.Background(), march())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Juan Dela Cruz", rows[0].AgentName)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "AS-CEB-200002", rows[1].AgentName)
}

func TestAgentPerformance_NameLookupFailureFallsBack(t *testing.T) {
	f := newFixture(t, Config{})
	f.activities.On("FindForReport", mock.Anything, mock.Anything).Return(sampleActivities(), nil).Once()
	f.users.On("FindByReferenceIDs", mock.Anything, mock.Anything).
		Return([]identity.User(nil), errors.New("timeout")).Once()

	rows, err := f.svc.AgentPerformance(context.Background(), march())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, rows[0].ReferenceID, rows[0].AgentName)
}

func TestOperationsDashboards(t *testing.T) {
	f := newFixture(t, Config{})
	f.accounts.On("FindForReport", mock.Anything, mock.Anything).Return([]sales.Account{
		{CompanyGroup: "Retail"}, {CompanyGroup: "Retail"}, {CompanyGroup: "Industrial"},
	}, nil).Once()
	f.tickets.On("FindForReport", mock.Anything, mock.Anything).Return([]ticket.Ticket{
		{Status: ticket.StatusOpen, Channel: "Email"},
	}, nil).Once()
	f.items.On("FindForReport", mock.Anything, inventory.ItemFilter{}).Return([]inventory.Item{}, nil).Once()

	groups, err := f.svc.CompanyGroups(context.Background(), march())
	require.NoError(t, err)
	assert.NotEmpty(t, groups)

	tickets, err := f.svc.Tickets(context.Background(), march())
	require.NoError(t, err)
	assert.NotNil(t, tickets)

	stock, err := f.svc.Inventory(context.Background(), march())
	require.NoError(t, err)
	assert.NotNil(t, stock)

	f.accounts.AssertExpectations(t)
	f.tickets.AssertExpectations(t)
	f.items.AssertExpectations(t)
}

func TestSalesTrendChart_DefaultCanvas(t *testing.T) {
	f := newFixture(t, Config{})
	f.activities.On("FindForReport", mock.Anything, mock.Anything).Return(sampleActivities(), nil).Once()

	c, err := f.svc.SalesTrendChart(context.Background(), march(), chart.Box{})
	require.NoError(t, err)
	assert.Equal(t, float64(report.DefaultChartWidth), c.Width)
	assert.Len(t, c.Labels, 3)
	assert.Equal(t, "450", c.Max.String())
	assert.True(t, strings.HasPrefix(c.Line, "M"))
}

func TestWarm_RefreshesCachedEntry(t *testing.T) {
	f := newFixture(t, Config{})
	f.activities.On("FindForReport", mock.Anything, mock.Anything).Return([]sales.Activity{}, nil).Once()
	_, err := f.svc.SalesSummary(context.Background(), march())
	require.NoError(t, err)

	f.activities.On("FindForReport", mock.Anything, mock.Anything).Return(sampleActivities(), nil).Once()
	require.NoError(t, f.svc.Warm(context.Background(), DashboardSalesSummary, march()))

	summary, err := f.svc.SalesSummary(context.Background(), march())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalActivities)
	f.activities.AssertNumberOfCalls(t, "FindForReport", 2)
}

func TestWarm_UnknownDashboard(t *testing.T) {
	f := newFixture(t, Config{})
	err := f.svc.Warm(context.Background(), "pipeline", march())
	require.Error(t, err)
}

func TestWarmupFilters(t *testing.T) {
	f := newFixture(t, Config{})
	f.users.On("FindByRole", mock.Anything, identity.RoleTSM, "").Return([]identity.User{
		{ReferenceID: "TS-NCR-300003"}, {ReferenceID: "TS-CEB-400004"},
	}, nil).Once()

	filters, err := f.svc.WarmupFilters(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Len(t, filters, 3)
	assert.Empty(t, filters[0].TSM)
	assert.Equal(t, "TS-CEB-400004", filters[2].TSM)
	for _, flt := range filters {
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), flt.From)
	}
}

func TestExport_CSV(t *testing.T) {
	f := newFixture(t, Config{})
	f.activities.On("FindForReport", mock.Anything, mock.Anything).Return(sampleActivities(), nil).Once()
	f.users.On("FindByReferenceIDs", mock.Anything, mock.Anything).Return([]identity.User{}, nil).Once()

	res, err := f.svc.Export(context.Background(), march(), export.FormatCSV, false)
	require.NoError(t, err)
	assert.Equal(t, export.ContentTypeCSV, res.File.ContentType)
	assert.NotEmpty(t, res.File.Data)
	assert.Empty(t, res.ArchiveKey)
}

func TestExport_Archived(t *testing.T) {
	archive := &fakeArchive{}
	f := newFixture(t, Config{}, WithArchive(archive))
	f.activities.On("FindForReport", mock.Anything, mock.Anything).Return(sampleActivities(), nil).Once()
	f.users.On("FindByReferenceIDs", mock.Anything, mock.Anything).Return([]identity.User{}, nil).Once()

	res, err := f.svc.Export(context.Background(), march(), export.FormatXLSX, true)
	require.NoError(t, err)
	assert.Equal(t, "exports/"+res.File.Name, res.ArchiveKey)
	assert.Equal(t, "https://bucket.example/"+res.ArchiveKey, res.DownloadURL)
	assert.Equal(t, res.File.Data, archive.stored[res.ArchiveKey])
}

func TestExport_ArchiveDisabled(t *testing.T) {
	f := newFixture(t, Config{})
	_, err := f.svc.Export(context.Background(), march(), export.FormatXLSX, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestExport_TooManyRows(t *testing.T) {
	f := newFixture(t, Config{ExportMaxRows: 2})
	f.activities.On("FindForReport", mock.Anything, mock.Anything).Return(sampleActivities(), nil).Once()

	_, err := f.svc.Export(context.Background(), march(), export.FormatCSV, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	f.users.AssertNotCalled(t, "FindByReferenceIDs", mock.Anything, mock.Anything)
}
