package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sfa/backend/internal/domain/bulk"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/interfaces/http/handler"
	"github.com/sfa/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers mounted by APIGroups
type Handlers struct {
	System       *handler.SystemHandler
	Accounts     *handler.AccountHandler
	Activities   *handler.ActivityHandler
	Orders       *handler.OrderHandler
	Bulk         *handler.BulkHandler
	Tickets      *handler.TicketHandler
	Inventory    *handler.InventoryHandler
	Users        *handler.UserHandler
	Notification *handler.NotificationHandler
	Preferences  *handler.PreferenceHandler
	Reports      *handler.ReportHandler

	// EnforceRoles gates role-restricted routes on the token role. Without
	// verified tokens there is no role to check, so anonymous deployments
	// leave it off.
	EnforceRoles bool
}

// APIGroups builds the route groups of the versioned API
func APIGroups(h Handlers) []RouteRegistrar {
	guard := func(roles ...identity.Role) []gin.HandlerFunc {
		if !h.EnforceRoles {
			return nil
		}
		return []gin.HandlerFunc{middleware.RequireRole(roles...)}
	}
	with := func(pre []gin.HandlerFunc, fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, pre...), fn)
	}

	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/system/info", h.System.GetSystemInfo)

	accounts := NewDomainGroup("accounts", "/accounts")
	accounts.GET("", h.Accounts.List)
	accounts.POST("", h.Accounts.Create)
	accounts.PUT("/bulk-edit", h.Bulk.Edit(bulk.TargetAccounts))
	accounts.DELETE("/bulk-delete", h.Bulk.Delete(bulk.TargetAccounts))
	accounts.PUT("/bulk-transfer", h.Bulk.Transfer(bulk.TargetAccounts))
	accounts.POST("/import", h.Accounts.Import)
	accounts.GET("/:id", h.Accounts.Get)
	accounts.PUT("/:id", h.Accounts.Update)

	activities := NewDomainGroup("activities", "/activities")
	activities.GET("", h.Activities.List)
	activities.POST("", h.Activities.Create)
	activities.PUT("/bulk-edit", h.Bulk.Edit(bulk.TargetActivities))
	activities.DELETE("/bulk-delete", h.Bulk.Delete(bulk.TargetActivities))
	activities.PUT("/bulk-transfer", h.Bulk.Transfer(bulk.TargetActivities))
	activities.GET("/:id", h.Activities.Get)
	activities.PUT("/:id", h.Activities.Update)

	quotations := NewDomainGroup("quotations", "/quotations")
	quotations.GET("", h.Orders.ListQuotations)
	quotations.POST("", h.Orders.CreateQuotation)
	quotations.GET("/:id", h.Orders.GetQuotation)
	quotations.PATCH("/:id/status", h.Orders.ChangeQuotationStatus)

	salesOrders := NewDomainGroup("sales-orders", "/sales-orders")
	salesOrders.GET("", h.Orders.ListSalesOrders)
	salesOrders.POST("", h.Orders.CreateSalesOrder)
	salesOrders.GET("/:id", h.Orders.GetSalesOrder)
	salesOrders.PATCH("/:id/status", h.Orders.ChangeSalesOrderStatus)

	tickets := NewDomainGroup("tickets", "/tickets")
	tickets.GET("", h.Tickets.List)
	tickets.POST("", h.Tickets.Create)
	tickets.GET("/:id", h.Tickets.Get)
	tickets.PATCH("/:id/status", h.Tickets.ChangeStatus)

	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.GET("", h.Inventory.List)
	inventory.POST("", h.Inventory.Create)
	inventory.GET("/:id", h.Inventory.Get)
	inventory.POST("/:id/adjust", h.Inventory.Adjust)

	users := NewDomainGroup("users", "/users")
	users.GET("", h.Users.List)
	users.POST("", with(guard(identity.RoleSuperAdmin, identity.RoleManager), h.Users.Create)...)
	users.GET("/tsm", h.Users.FetchTSM)
	users.GET("/:referenceid", h.Users.Get)

	notifications := NewDomainGroup("notifications", "/notifications")
	notifications.GET("", h.Notification.List)
	notifications.GET("/unread-count", h.Notification.UnreadCount)
	notifications.POST("/read-all", h.Notification.MarkAllRead)
	notifications.POST("/:id/read", h.Notification.MarkRead)

	preferences := NewDomainGroup("preferences", "/preferences")
	preferences.GET("", h.Preferences.Get)
	preferences.PUT("", h.Preferences.Update)
	preferences.DELETE("", h.Preferences.Reset)
	preferences.POST("/recent-emails", h.Preferences.RememberEmail)

	reports := NewDomainGroup("reports", "/reports")
	reports.GET("/sales-summary", h.Reports.SalesSummary())
	reports.GET("/daily-activity", h.Reports.DailyActivity())
	reports.GET("/agent-performance", h.Reports.AgentPerformance())
	reports.GET("/status-breakdown", h.Reports.StatusBreakdown())
	reports.GET("/company-groups", h.Reports.CompanyGroups())
	reports.GET("/tickets", h.Reports.Tickets())
	reports.GET("/inventory", h.Reports.Inventory())
	reports.GET("/sales-trend-chart", h.Reports.SalesTrendChart)
	reports.GET("/export", h.Reports.Export)

	bulkOps := NewDomainGroup("bulk-operations", "/bulk-operations")
	bulkOps.GET("", h.Bulk.History)

	return []RouteRegistrar{
		system, accounts, activities, quotations, salesOrders, tickets,
		inventory, users, notifications, preferences, reports, bulkOps,
	}
}
