package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/sfa/backend/internal/application/report"
	"github.com/sfa/backend/internal/domain/aggregation"
	"github.com/sfa/backend/internal/domain/chart"
	"github.com/sfa/backend/internal/domain/report"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/export"
)

// ReportHandler serves the dashboards and the report export
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
	location      *time.Location
}

// NewReportHandler creates a new ReportHandler. Date-only period bounds are
// read in loc.
func NewReportHandler(reportService *reportapp.Service, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{reportService: reportService, location: loc}
}

// ReportQuery is the period and hierarchy scope shared by every dashboard.
// An empty period means the current month.
type ReportQuery struct {
	From        string `form:"from"`
	To          string `form:"to"`
	ReferenceID string `form:"referenceid"`
	TSM         string `form:"tsm"`
	Manager     string `form:"manager"`
}

// ChartQuery sizes the trend chart canvas. Zero values use the default canvas.
type ChartQuery struct {
	ReportQuery
	Width   float64 `form:"width" binding:"omitempty,gte=0,max=4000"`
	Height  float64 `form:"height" binding:"omitempty,gte=0,max=4000"`
	Padding float64 `form:"padding" binding:"omitempty,gte=0,max=500"`
}

// ExportQuery selects the export format and whether to archive the file
type ExportQuery struct {
	ReportQuery
	Format  string `form:"format"`
	Archive bool   `form:"archive"`
}

// ArchivedExport points at an export kept in object storage
type ArchivedExport struct {
	FileName    string    `json:"file_name"`
	Key         string    `json:"key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// filter turns the query into a report filter. "to" is inclusive: a bare
// date covers the whole day.
func (h *ReportHandler) filter(q ReportQuery) (report.Filter, error) {
	f := report.Filter{
		ReferenceID: strings.TrimSpace(q.ReferenceID),
		TSM:         strings.TrimSpace(q.TSM),
		Manager:     strings.TrimSpace(q.Manager),
	}
	var err error
	if f.From, _, err = h.parseBound(q.From); err != nil {
		return f, err
	}
	var dateOnly bool
	if f.To, dateOnly, err = h.parseBound(q.To); err != nil {
		return f, err
	}
	if dateOnly {
		f.To = aggregation.EndOfDay(f.To)
	}
	return f, nil
}

func (h *ReportHandler) parseBound(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, h.location); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, shared.ErrInvalidInput.WithMessage(
		fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD or RFC 3339", s))
}

// dashboard adapts one dashboard computation to a gin handler
func dashboard[T any](h *ReportHandler, compute func(ctx context.Context, f report.Filter) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q ReportQuery
		if !h.bindQuery(c, &q) {
			return
		}
		f, err := h.filter(q)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		data, err := compute(c.Request.Context(), f)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, data)
	}
}

// SalesSummary godoc
// @Summary      Sales summary cards
// @Description  SO-Done, delivered and quote-done counts and amounts plus conversion rates
// @Tags         reports
// @Produce      json
// @Param        from        query string false "First day (YYYY-MM-DD)"
// @Param        to          query string false "Last day (YYYY-MM-DD)"
// @Param        referenceid query string false "Agent"
// @Param        tsm         query string false "Territory sales manager"
// @Param        manager     query string false "Manager"
// @Success      200 {object} dto.Response{data=report.SalesSummary}
// @Security     BearerAuth
// @Router       /reports/sales-summary [get]
func (h *ReportHandler) SalesSummary() gin.HandlerFunc {
	return dashboard(h, h.reportService.SalesSummary)
}

// DailyActivity returns per-day activity counts and amounts
// @Router /reports/daily-activity [get]
func (h *ReportHandler) DailyActivity() gin.HandlerFunc {
	return dashboard(h, h.reportService.DailyActivity)
}

// AgentPerformance ranks agents by actual sales
// @Router /reports/agent-performance [get]
func (h *ReportHandler) AgentPerformance() gin.HandlerFunc {
	return dashboard(h, h.reportService.AgentPerformance)
}

// StatusBreakdown shares activities out by activity status
// @Router /reports/status-breakdown [get]
func (h *ReportHandler) StatusBreakdown() gin.HandlerFunc {
	return dashboard(h, h.reportService.StatusBreakdown)
}

// CompanyGroups counts accounts per company group and status
// @Router /reports/company-groups [get]
func (h *ReportHandler) CompanyGroups() gin.HandlerFunc {
	return dashboard(h, h.reportService.CompanyGroups)
}

// Tickets summarizes tickets by status and channel
// @Router /reports/tickets [get]
func (h *ReportHandler) Tickets() gin.HandlerFunc {
	return dashboard(h, h.reportService.Tickets)
}

// Inventory summarizes stock by warehouse and category
// @Router /reports/inventory [get]
func (h *ReportHandler) Inventory() gin.HandlerFunc {
	return dashboard(h, h.reportService.Inventory)
}

// SalesTrendChart returns daily actual sales as ready-to-draw SVG paths
// @Router /reports/sales-trend-chart [get]
func (h *ReportHandler) SalesTrendChart(c *gin.Context) {
	var q ChartQuery
	if !h.bindQuery(c, &q) {
		return
	}
	f, err := h.filter(q.ReportQuery)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.reportService.SalesTrendChart(c.Request.Context(), f, chart.Box{
		Width:   q.Width,
		Height:  q.Height,
		Padding: q.Padding,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Export godoc
// @Summary      Export the sales report
// @Description  Sales summary, agent performance and daily activity as XLSX or CSV. With archive=true the file is stored and a presigned download link returned instead.
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Produce      json
// @Param        format  query string false "xlsx (default) or csv"
// @Param        archive query bool   false "Store the file and return a download link"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var q ExportQuery
	if !h.bindQuery(c, &q) {
		return
	}
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f, err := h.filter(q.ReportQuery)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.reportService.Export(c.Request.Context(), f, format, q.Archive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if q.Archive {
		h.Success(c, ArchivedExport{
			FileName:    result.File.Name,
			Key:         result.ArchiveKey,
			DownloadURL: result.DownloadURL,
			ExpiresAt:   result.ExpiresAt,
		})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.File.Name))
	c.Data(http.StatusOK, result.File.ContentType, result.File.Data)
}
