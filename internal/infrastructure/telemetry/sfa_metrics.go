package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MeterName names the meter used by application services
const MeterName = "sfa-backend"

// Metrics holds the service level instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	bulkOperations *Counter
	bulkAffected   *Histogram
	reportCache    *Counter
	reportCompute  *Histogram
	exports        *Counter
	importRows     *Counter
	lowStockItems  *Gauge

	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewMetrics creates every instrument on meter
func NewMetrics(meter metric.Meter, logger *zap.Logger) (*Metrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Metrics{logger: logger, stopCh: make(chan struct{})}

	var err error
	if m.bulkOperations, err = NewCounter(meter, "sfa_bulk_operations_total",
		"Bulk actions by action, target and outcome", "{operation}"); err != nil {
		return nil, err
	}
	if m.bulkAffected, err = NewHistogram(meter, HistogramOpts{
		Name:        "sfa_bulk_records_affected",
		Description: "Records changed by one bulk action",
		Unit:        "{record}",
		Boundaries:  RecordCountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.reportCache, err = NewCounter(meter, "sfa_report_cache_requests_total",
		"Dashboard cache lookups by result", "{request}"); err != nil {
		return nil, err
	}
	if m.reportCompute, err = NewHistogram(meter, HistogramOpts{
		Name:        "sfa_report_compute_duration_seconds",
		Description: "Time spent fetching and aggregating one dashboard",
		Unit:        "s",
		Boundaries:  ComputeDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.exports, err = NewCounter(meter, "sfa_report_exports_total",
		"Report exports by format", "{export}"); err != nil {
		return nil, err
	}
	if m.importRows, err = NewCounter(meter, "sfa_import_rows_total",
		"Imported CSV rows by result", "{row}"); err != nil {
		return nil, err
	}
	if m.lowStockItems, err = NewGauge(meter, "sfa_inventory_low_stock_items",
		"Items at or below their reorder level", "{item}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordBulk counts one bulk action and the records it touched
func (m *Metrics) RecordBulk(ctx context.Context, action, target, status string, affected int) {
	if m == nil {
		return
	}
	m.bulkOperations.Inc(ctx, AttrBulkAction.String(action), AttrBulkTarget.String(target), AttrBulkStatus.String(status))
	if status == "completed" {
		m.bulkAffected.Record(ctx, float64(affected), AttrBulkAction.String(action), AttrBulkTarget.String(target))
	}
}

// RecordCacheLookup counts a dashboard cache hit or miss
func (m *Metrics) RecordCacheLookup(ctx context.Context, dashboard string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.reportCache.Inc(ctx, AttrDashboard.String(dashboard), AttrCacheResult.String(result))
}

// RecordCompute records how long a dashboard took to build
func (m *Metrics) RecordCompute(ctx context.Context, dashboard string, d time.Duration) {
	if m == nil {
		return
	}
	m.reportCompute.RecordDuration(ctx, d, AttrDashboard.String(dashboard))
}

// RecordExport counts one export
func (m *Metrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.exports.Inc(ctx, AttrExportFmt.String(format))
}

// RecordImportRows counts valid and rejected rows of one import
func (m *Metrics) RecordImportRows(ctx context.Context, valid, invalid int) {
	if m == nil {
		return
	}
	m.importRows.Add(ctx, int64(valid), AttrImportRow.String("valid"))
	m.importRows.Add(ctx, int64(invalid), AttrImportRow.String("invalid"))
}

// LowStockCounter counts items at or below their reorder level
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

// StartLowStockCollection samples the low-stock gauge every interval until Stop
func (m *Metrics) StartLowStockCollection(ctx context.Context, counter LowStockCounter, interval time.Duration) {
	if m == nil || counter == nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.collectLowStock(ctx, counter)
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.collectLowStock(ctx, counter)
			}
		}
	}()
}

func (m *Metrics) collectLowStock(ctx context.Context, counter LowStockCounter) {
	n, err := counter.CountLowStock(ctx)
	if err != nil {
		m.logger.Warn("Failed to collect low stock count", zap.Error(err))
		return
	}
	m.lowStockItems.Record(ctx, n)
}

// Stop ends background collection
func (m *Metrics) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}
