package report

import (
	"strings"

	"github.com/sfa/backend/internal/domain/aggregation"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/domain/ticket"
	"github.com/shopspring/decimal"
)

// Labels used when the grouping field is blank
const (
	UngroupedLabel  = "Ungrouped"
	UnassignedLabel = "Unassigned"
)

func labelOr(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

// CompanyGroupSummary counts the accounts of one company group
type CompanyGroupSummary struct {
	CompanyGroup string         `json:"companygroup"`
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	Agents       int            `json:"agents"`
}

// BuildCompanyGroupSummary groups accounts by company group, ordered by group name
func BuildCompanyGroupSummary(accounts []sales.Account) []CompanyGroupSummary {
	type acc struct {
		summary CompanyGroupSummary
		agents  map[string]struct{}
	}
	groups := aggregation.Accumulate(accounts,
		func(a sales.Account) string { return labelOr(a.CompanyGroup, UngroupedLabel) },
		func(g string) *acc {
			return &acc{
				summary: CompanyGroupSummary{CompanyGroup: g, ByStatus: make(map[string]int)},
				agents:  make(map[string]struct{}),
			}
		},
		func(g *acc, a sales.Account) {
			g.summary.Total++
			g.summary.ByStatus[string(a.Status)]++
			g.agents[a.ReferenceID] = struct{}{}
		})

	out := make([]CompanyGroupSummary, 0, len(groups))
	for _, e := range aggregation.Entries(groups) {
		e.Value.summary.Agents = len(e.Value.agents)
		out = append(out, e.Value.summary)
	}
	return out
}

// Count is a labelled count
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TicketSummary is the customer-service dashboard
type TicketSummary struct {
	Total              int           `json:"total"`
	Open               int           `json:"open"`
	Closed             int           `json:"closed"`
	ByStatus           []Count       `json:"byStatus"`
	ByChannel          []Count       `json:"byChannel"`
	ByAgent            []Count       `json:"byAgent"`
	AvgResolutionHours shared.Amount `json:"avgResolutionHours"`
}

func countBy(tickets []ticket.Ticket, key func(ticket.Ticket) string) []Count {
	counts := aggregation.Accumulate(tickets, key,
		func(l string) *Count { return &Count{Label: l} },
		func(c *Count, _ ticket.Ticket) { c.Count++ })
	return aggregation.Values(counts, func(a, b *Count) int { return b.Count - a.Count })
}

// BuildTicketSummary groups tickets by status, channel and agent and averages
// the resolution time of closed tickets
func BuildTicketSummary(tickets []ticket.Ticket) TicketSummary {
	closedHours := decimal.Zero
	closed := 0
	for i := range tickets {
		if d, ok := tickets[i].ResolutionTime(); ok {
			closedHours = closedHours.Add(decimal.NewFromFloat(d.Hours()))
			closed++
		}
	}
	avg := decimal.Zero
	if closed > 0 {
		avg = closedHours.Div(decimal.NewFromInt(int64(closed))).Round(2)
	}

	isClosed := func(t ticket.Ticket) bool { return t.Status == ticket.StatusClosed }
	closedCount := aggregation.CountWhere(tickets, isClosed)

	return TicketSummary{
		Total:              len(tickets),
		Open:               len(tickets) - closedCount,
		Closed:             closedCount,
		ByStatus:           countBy(tickets, func(t ticket.Ticket) string { return string(t.Status) }),
		ByChannel:          countBy(tickets, func(t ticket.Ticket) string { return labelOr(t.Channel, UnassignedLabel) }),
		ByAgent:            countBy(tickets, func(t ticket.Ticket) string { return labelOr(t.ReferenceID, UnassignedLabel) }),
		AvgResolutionHours: shared.NewAmount(avg),
	}
}

// StockGroup totals the items of one warehouse or category
type StockGroup struct {
	Key      string          `json:"key"`
	Items    int             `json:"items"`
	Quantity decimal.Decimal `json:"quantity"`
	Value    shared.Amount   `json:"value"`
}

// LowStockItem is an item at or below its reorder level
type LowStockItem struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Warehouse    string          `json:"warehouse"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorderlevel"`
}

// InventorySummary is the warehouse dashboard
type InventorySummary struct {
	TotalItems    int             `json:"totalItems"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	StockValue    shared.Amount   `json:"stockValue"`
	ByWarehouse   []StockGroup    `json:"byWarehouse"`
	ByCategory    []StockGroup    `json:"byCategory"`
	LowStock      []LowStockItem  `json:"lowStock"`
}

func stockGroups(items []inventory.Item, key func(inventory.Item) string) []StockGroup {
	groups := aggregation.Accumulate(items, key,
		func(k string) *StockGroup { return &StockGroup{Key: k} },
		func(g *StockGroup, it inventory.Item) {
			g.Items++
			g.Quantity = g.Quantity.Add(it.Quantity)
			g.Value = g.Value.Add(shared.NewAmount(it.StockValue()))
		})
	out := make([]StockGroup, 0, len(groups))
	for _, e := range aggregation.Entries(groups) {
		out = append(out, *e.Value)
	}
	return out
}

// BuildInventorySummary totals stock and lists low-stock items by SKU.
// Discontinued items are counted but never reported as low stock.
func BuildInventorySummary(items []inventory.Item) InventorySummary {
	low := make([]LowStockItem, 0)
	for _, it := range items {
		if it.Status != inventory.ItemStatusDiscontinued && it.IsLowStock() {
			low = append(low, LowStockItem{
				SKU:          it.SKU,
				Name:         it.Name,
				Warehouse:    it.Warehouse,
				Quantity:     it.Quantity,
				ReorderLevel: it.ReorderLevel,
			})
		}
	}
	lowByKey := aggregation.GroupBy(low, func(l LowStockItem) string { return l.SKU + "|" + l.Warehouse })
	sortedLow := make([]LowStockItem, 0, len(low))
	for _, k := range aggregation.SortedKeys(lowByKey) {
		sortedLow = append(sortedLow, lowByKey[k]...)
	}

	return InventorySummary{
		TotalItems:    len(items),
		TotalQuantity: aggregation.Sum(items, func(it inventory.Item) decimal.Decimal { return it.Quantity }),
		StockValue:    shared.NewAmount(aggregation.Sum(items, func(it inventory.Item) decimal.Decimal { return it.StockValue() })),
		ByWarehouse:   stockGroups(items, func(it inventory.Item) string { return labelOr(it.Warehouse, UnassignedLabel) }),
		ByCategory:    stockGroups(items, func(it inventory.Item) string { return labelOr(it.Category, UnassignedLabel) }),
		LowStock:      sortedLow,
	}
}
