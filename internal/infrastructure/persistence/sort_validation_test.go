package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"ASC", "ASC"},
		{"  asc  ", "ASC"},
		{"desc", "DESC"},
		{"ASC; DROP TABLE accounts;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"whitelisted field is kept", "company_name", "company_name"},
		{"whitespace is trimmed", "  area  ", "area"},
		{"unknown field returns default", "contact_number", "created_at"},
		{"case sensitive", "COMPANY_NAME", "created_at"},
		{"injection attempt returns default", "company_name; DROP TABLE accounts;--", "created_at"},
		{"subquery returns default", "status, (SELECT email FROM users)", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, AccountSortFields, "created_at"))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"AccountSortFields":       AccountSortFields,
		"ActivitySortFields":      ActivitySortFields,
		"QuotationSortFields":     QuotationSortFields,
		"SalesOrderSortFields":    SalesOrderSortFields,
		"UserSortFields":          UserSortFields,
		"InventorySortFields":     InventorySortFields,
		"TicketSortFields":        TicketSortFields,
		"NotificationSortFields":  NotificationSortFields,
		"BulkOperationSortFields": BulkOperationSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			assert.True(t, whitelist["created_at"], "%s should allow created_at", name)
			assert.GreaterOrEqual(t, len(whitelist), 3)
		})
	}
}
