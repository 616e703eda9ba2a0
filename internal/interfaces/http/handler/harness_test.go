package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	bulkapp "github.com/sfa/backend/internal/application/bulk"
	identityapp "github.com/sfa/backend/internal/application/identity"
	"github.com/sfa/backend/internal/application/importer"
	inventoryapp "github.com/sfa/backend/internal/application/inventory"
	notificationapp "github.com/sfa/backend/internal/application/notification"
	preferenceapp "github.com/sfa/backend/internal/application/preference"
	reportapp "github.com/sfa/backend/internal/application/report"
	salesapp "github.com/sfa/backend/internal/application/sales"
	ticketapp "github.com/sfa/backend/internal/application/ticket"
	"github.com/sfa/backend/internal/domain/bulk"
	"github.com/sfa/backend/internal/infrastructure/cache"
	"github.com/sfa/backend/internal/infrastructure/lock"
	"github.com/sfa/backend/internal/infrastructure/persistence"
	"github.com/sfa/backend/internal/infrastructure/persistence/models"
	"github.com/sfa/backend/internal/interfaces/http/dto"
	"github.com/sfa/backend/internal/interfaces/http/middleware"
)

const testActor = "JD-MAN-000042"

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// testServer wires every handler over an in-memory sqlite database
type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
	locker *lock.MemoryLocker
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.AccountModel{},
		&models.ActivityModel{},
		&models.QuotationModel{},
		&models.SalesOrderModel{},
		&models.UserModel{},
		&models.InventoryItemModel{},
		&models.TicketModel{},
		&models.NotificationModel{},
		&models.BulkOperationModel{},
	))

	accounts := persistence.NewGormAccountRepository(db)
	activities := persistence.NewGormActivityRepository(db)
	users := persistence.NewGormUserRepository(db)
	items := persistence.NewGormInventoryItemRepository(db)
	tickets := persistence.NewGormTicketRepository(db)
	operations := persistence.NewGormBulkOperationRepository(db)

	reportCache := cache.NewInMemoryReportCache()
	t.Cleanup(func() { _ = reportCache.Close() })
	locker := lock.NewMemoryLocker()

	salesService := salesapp.NewService(accounts, activities,
		persistence.NewGormQuotationRepository(db), persistence.NewGormSalesOrderRepository(db),
		nil, salesapp.WithReportInvalidator(reportCache))
	bulkService := bulkapp.NewService(persistence.NewGormTransactionScope(db), operations, users, locker,
		bulkapp.Config{LockTTL: time.Minute, MaxSelection: 100}, nil, bulkapp.WithReportInvalidator(reportCache))
	importService := importer.NewAccountImportService(accounts, operations, nil, importer.WithReportInvalidator(reportCache))
	reportService := reportapp.NewService(reportapp.Repositories{
		Accounts:   accounts,
		Activities: activities,
		Users:      users,
		Tickets:    tickets,
		Items:      items,
	}, reportCache, reportapp.Config{Location: time.UTC, CacheTTL: time.Minute}, nil)

	accountHandler := NewAccountHandler(salesService, importService)
	activityHandler := NewActivityHandler(salesService)
	orderHandler := NewOrderHandler(salesService)
	bulkHandler := NewBulkHandler(bulkService)
	ticketHandler := NewTicketHandler(ticketapp.NewService(tickets, reportCache, nil))
	inventoryHandler := NewInventoryHandler(inventoryapp.NewService(items, reportCache, nil))
	userHandler := NewUserHandler(identityapp.NewUserService(users, nil, nil))
	notificationHandler := NewNotificationHandler(notificationapp.NewService(persistence.NewGormNotificationRepository(db)))
	preferenceHandler := NewPreferenceHandler(preferenceapp.NewService(cache.NewInMemoryPreferenceStore(), locker, nil))
	reportHandler := NewReportHandler(reportService, time.UTC)

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Auth(middleware.AuthConfig{}))
	api := engine.Group("/api/v1")

	api.GET("/accounts", accountHandler.List)
	api.POST("/accounts", accountHandler.Create)
	api.GET("/accounts/:id", accountHandler.Get)
	api.PUT("/accounts/:id", accountHandler.Update)
	api.POST("/accounts/import", accountHandler.Import)
	api.PUT("/accounts/bulk-edit", bulkHandler.Edit(bulk.TargetAccounts))
	api.DELETE("/accounts/bulk-delete", bulkHandler.Delete(bulk.TargetAccounts))
	api.PUT("/accounts/bulk-transfer", bulkHandler.Transfer(bulk.TargetAccounts))
	api.GET("/bulk-operations", bulkHandler.History)

	api.GET("/activities", activityHandler.List)
	api.POST("/activities", activityHandler.Create)
	api.PUT("/activities/:id", activityHandler.Update)

	api.POST("/quotations", orderHandler.CreateQuotation)
	api.PATCH("/quotations/:id/status", orderHandler.ChangeQuotationStatus)
	api.POST("/sales-orders", orderHandler.CreateSalesOrder)
	api.GET("/sales-orders", orderHandler.ListSalesOrders)

	api.POST("/tickets", ticketHandler.Create)
	api.GET("/tickets/:id", ticketHandler.Get)
	api.PATCH("/tickets/:id/status", ticketHandler.ChangeStatus)

	api.GET("/inventory", inventoryHandler.List)
	api.POST("/inventory", inventoryHandler.Create)
	api.POST("/inventory/:id/adjust", inventoryHandler.Adjust)

	api.GET("/users", userHandler.List)
	api.POST("/users", userHandler.Create)
	api.GET("/users/tsm", userHandler.FetchTSM)
	api.GET("/users/:referenceid", userHandler.Get)

	api.GET("/notifications", notificationHandler.List)
	api.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	api.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	api.POST("/notifications/:id/read", notificationHandler.MarkRead)

	api.GET("/preferences", preferenceHandler.Get)
	api.PUT("/preferences", preferenceHandler.Update)
	api.DELETE("/preferences", preferenceHandler.Reset)
	api.POST("/preferences/recent-emails", preferenceHandler.RememberEmail)

	api.GET("/reports/sales-summary", reportHandler.SalesSummary())
	api.GET("/reports/agent-performance", reportHandler.AgentPerformance())
	api.GET("/reports/sales-trend-chart", reportHandler.SalesTrendChart)
	api.GET("/reports/export", reportHandler.Export)

	return &testServer{engine: engine, db: db, locker: locker}
}

// do sends a request as actor. An empty actor sends no caller header.
func (s *testServer) do(t *testing.T, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// apiResponse mirrors dto.Response with raw data for typed decoding
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	resp := decode(t, w)
	require.True(t, resp.Success, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, w)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
