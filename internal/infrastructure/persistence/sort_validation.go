package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// AccountSortFields contains allowed sort fields for accounts
var AccountSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"company_name":  true,
	"company_group": true,
	"type_client":   true,
	"area":          true,
	"status":        true,
	"reference_id":  true,
}

// ActivitySortFields contains allowed sort fields for activities
var ActivitySortFields = map[string]bool{
	"created_at":       true,
	"updated_at":       true,
	"activity_date":    true,
	"company_name":     true,
	"activity_status":  true,
	"call_status":      true,
	"quotation_amount": true,
	"so_amount":        true,
	"actual_sales":     true,
}

// QuotationSortFields contains allowed sort fields for quotations
var QuotationSortFields = map[string]bool{
	"created_at":       true,
	"updated_at":       true,
	"quotation_number": true,
	"company_name":     true,
	"amount":           true,
	"status":           true,
	"valid_until":      true,
}

// SalesOrderSortFields contains allowed sort fields for sales orders
var SalesOrderSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"so_number":     true,
	"company_name":  true,
	"amount":        true,
	"actual_sales":  true,
	"status":        true,
	"delivery_date": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"reference_id": true,
	"firstname":    true,
	"lastname":     true,
	"email":        true,
	"role":         true,
	"status":       true,
}

// InventorySortFields contains allowed sort fields for inventory items
var InventorySortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"sku":           true,
	"name":          true,
	"category":      true,
	"warehouse":     true,
	"quantity":      true,
	"reorder_level": true,
	"unit_cost":     true,
	"status":        true,
}

// TicketSortFields contains allowed sort fields for tickets
var TicketSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"ticket_number": true,
	"company_name":  true,
	"channel":       true,
	"status":        true,
	"closed_at":     true,
}

// NotificationSortFields contains allowed sort fields for notifications
var NotificationSortFields = map[string]bool{
	"created_at": true,
	"status":     true,
	"type":       true,
}

// BulkOperationSortFields contains allowed sort fields for bulk operations
var BulkOperationSortFields = map[string]bool{
	"created_at":   true,
	"started_at":   true,
	"completed_at": true,
	"action":       true,
	"target":       true,
	"status":       true,
	"affected":     true,
}
