package report

import (
	"strings"
	"time"

	"github.com/sfa/backend/internal/domain/aggregation"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StageSummary counts the activities in one pipeline stage and adds up the
// amount belonging to that stage
type StageSummary struct {
	Count       int           `json:"count"`
	TotalAmount shared.Amount `json:"totalAmount"`
}

// SalesSummary is the headline card row of the sales dashboard
type SalesSummary struct {
	PeriodStart          time.Time     `json:"periodStart"`
	PeriodEnd            time.Time     `json:"periodEnd"`
	TotalActivities      int           `json:"totalActivities"`
	QuoteDoneSummary     StageSummary  `json:"quoteDoneSummary"`
	SODoneSummary        StageSummary  `json:"soDoneSummary"`
	DeliveredSummary     StageSummary  `json:"deliveredSummary"`
	CancelledSummary     StageSummary  `json:"cancelledSummary"`
	TotalQuotationAmount shared.Amount `json:"totalQuotationAmount"`
	TotalSOAmount        shared.Amount `json:"totalSOAmount"`
	TotalActualSales     shared.Amount `json:"totalActualSales"`
	QuoteToSORate        shared.Amount `json:"quoteToSORate"`
	SOToDeliveredRate    shared.Amount `json:"soToDeliveredRate"`
}

func quotationAmount(a sales.Activity) decimal.Decimal { return a.QuotationAmount.Decimal() }
func soAmount(a sales.Activity) decimal.Decimal { return a.SOAmount.Decimal() }
func actualSales(a sales.Activity) decimal.Decimal { return a.ActualSales.Decimal() }

func stage(activities []sales.Activity, status string, amount func(sales.Activity) decimal.Decimal) StageSummary {
	matched := aggregation.Filter(activities, func(a sales.Activity) bool { return a.IsStatus(status) })
	return StageSummary{
		Count:       len(matched),
		TotalAmount: shared.NewAmount(aggregation.Sum(matched, amount)),
	}
}

// BuildSalesSummary reduces the activities of a period into the summary cards.
// Each stage adds up its own amount: quotation amount for Quote-Done, SO amount
// for SO-Done and Cancelled, actual sales for Delivered.
func BuildSalesSummary(activities []sales.Activity, filter Filter) SalesSummary {
	quote := stage(activities, sales.ActivityStatusQuoteDone, quotationAmount)
	so := stage(activities, sales.ActivityStatusSODone, soAmount)
	delivered := stage(activities, sales.ActivityStatusDelivered, actualSales)
	cancelled := stage(activities, sales.ActivityStatusCancelled, soAmount)

	reachedQuote := quote.Count + so.Count + delivered.Count
	reachedSO := so.Count + delivered.Count

	return SalesSummary{
		PeriodStart:          filter.From,
		PeriodEnd:            filter.To,
		TotalActivities:      len(activities),
		QuoteDoneSummary:     quote,
		SODoneSummary:        so,
		DeliveredSummary:     delivered,
		CancelledSummary:     cancelled,
		TotalQuotationAmount: shared.NewAmount(aggregation.Sum(activities, quotationAmount)),
		TotalSOAmount:        shared.NewAmount(aggregation.Sum(activities, soAmount)),
		TotalActualSales:     shared.NewAmount(aggregation.Sum(activities, actualSales)),
		QuoteToSORate:        shared.NewAmount(aggregation.ConversionRate(reachedSO, reachedQuote)),
		SOToDeliveredRate:    shared.NewAmount(aggregation.ConversionRate(delivered.Count, reachedSO)),
	}
}

// DailyActivity is one day of the activity timeline
type DailyActivity struct {
	Date            string        `json:"date"`
	Total           int           `json:"total"`
	Successful      int           `json:"successful"`
	Unsuccessful    int           `json:"unsuccessful"`
	QuotationAmount shared.Amount `json:"quotationAmount"`
	SOAmount        shared.Amount `json:"soAmount"`
	ActualSales     shared.Amount `json:"actualSales"`
}

// BuildDailyActivity groups activities by calendar day in loc, ascending.
// When fill is set every day of the filter period gets a row, even without activities.
func BuildDailyActivity(activities []sales.Activity, filter Filter, loc *time.Location, fill bool) []DailyActivity {
	days := aggregation.Accumulate(activities,
		func(a sales.Activity) string { return aggregation.DayKey(a.ActivityDate, loc) },
		func(day string) *DailyActivity { return &DailyActivity{Date: day} },
		func(d *DailyActivity, a sales.Activity) {
			d.Total++
			switch {
			case strings.EqualFold(a.CallStatus, sales.CallStatusSuccessful):
				d.Successful++
			case strings.EqualFold(a.CallStatus, sales.CallStatusUnsuccessful):
				d.Unsuccessful++
			}
			d.QuotationAmount = d.QuotationAmount.Add(a.QuotationAmount)
			d.SOAmount = d.SOAmount.Add(a.SOAmount)
			d.ActualSales = d.ActualSales.Add(a.ActualSales)
		})

	if fill && !filter.From.IsZero() && !filter.To.IsZero() {
		for _, day := range aggregation.DaysBetween(filter.From, filter.To, loc) {
			if _, ok := days[day]; !ok {
				days[day] = &DailyActivity{Date: day}
			}
		}
	}

	out := make([]DailyActivity, 0, len(days))
	for _, e := range aggregation.Entries(days) {
		out = append(out, *e.Value)
	}
	return out
}

// AgentPerformance is one row of the agent leaderboard
type AgentPerformance struct {
	Rank            int           `json:"rank"`
	ReferenceID     string        `json:"referenceid"`
	AgentName       string        `json:"agentName"`
	Activities      int           `json:"activities"`
	Quotes          int           `json:"quotes"`
	SalesOrders     int           `json:"salesOrders"`
	Delivered       int           `json:"delivered"`
	QuotationAmount shared.Amount `json:"quotationAmount"`
	SOAmount        shared.Amount `json:"soAmount"`
	ActualSales     shared.Amount `json:"actualSales"`
	ConversionRate  shared.Amount `json:"conversionRate"`
}

// BuildAgentPerformance groups activities by agent and ranks agents by actual
// sales, then SO amount. names resolves reference IDs to display names.
func BuildAgentPerformance(activities []sales.Activity, names map[string]string) []AgentPerformance {
	agents := aggregation.Accumulate(activities,
		func(a sales.Activity) string { return a.ReferenceID },
		func(ref string) *AgentPerformance {
			name := names[ref]
			if name == "" {
				name = ref
			}
			return &AgentPerformance{ReferenceID: ref, AgentName: name}
		},
		func(p *AgentPerformance, a sales.Activity) {
			p.Activities++
			switch {
			case a.IsStatus(sales.ActivityStatusQuoteDone):
				p.Quotes++
			case a.IsStatus(sales.ActivityStatusSODone):
				p.SalesOrders++
			case a.IsStatus(sales.ActivityStatusDelivered):
				p.Delivered++
			}
			p.QuotationAmount = p.QuotationAmount.Add(a.QuotationAmount)
			p.SOAmount = p.SOAmount.Add(a.SOAmount)
			p.ActualSales = p.ActualSales.Add(a.ActualSales)
		})

	ranked := aggregation.Values(agents, func(a, b *AgentPerformance) int {
		if c := b.ActualSales.Decimal().Cmp(a.ActualSales.Decimal()); c != 0 {
			return c
		}
		return b.SOAmount.Decimal().Cmp(a.SOAmount.Decimal())
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
		converted := ranked[i].SalesOrders + ranked[i].Delivered
		ranked[i].ConversionRate = shared.NewAmount(aggregation.ConversionRate(converted, converted+ranked[i].Quotes))
	}
	return ranked
}

// StatusShare is the share of one activity status
type StatusShare struct {
	Status  string        `json:"status"`
	Count   int           `json:"count"`
	Percent shared.Amount `json:"percent"`
}

// UnspecifiedStatus labels records without a status
const UnspecifiedStatus = "Unspecified"

// BuildStatusBreakdown counts activities per status, largest first
func BuildStatusBreakdown(activities []sales.Activity) []StatusShare {
	counts := aggregation.Accumulate(activities,
		func(a sales.Activity) string {
			s := strings.TrimSpace(a.ActivityStatus)
			if s == "" {
				return UnspecifiedStatus
			}
			return s
		},
		func(s string) *StatusShare { return &StatusShare{Status: s} },
		func(s *StatusShare, _ sales.Activity) { s.Count++ })

	out := aggregation.Values(counts, func(a, b *StatusShare) int { return b.Count - a.Count })
	for i := range out {
		out[i].Percent = shared.NewAmount(aggregation.PercentOf(out[i].Count, len(activities)))
	}
	return out
}
