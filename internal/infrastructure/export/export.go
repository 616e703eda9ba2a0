// Package export renders dashboard data into downloadable spreadsheets.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/sfa/backend/internal/domain/report"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/xuri/excelize/v2"
)

// Format is an export file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Content types
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// Sheet names, in workbook order
const (
	SheetSummary = "Summary"
	SheetAgents  = "Agent Performance"
	SheetDaily   = "Daily Activity"
)

// ParseFormat reads a format name, defaulting to xlsx when empty
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Unsupported export format: %s", s))
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatCSV {
		return ContentTypeCSV
	}
	return ContentTypeXLSX
}

// Bundle is the data set written into one export
type Bundle struct {
	Filter  report.Filter
	Summary report.SalesSummary
	Agents  []report.AgentPerformance
	Daily   []report.DailyActivity
}

// File is a rendered export
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

func amountCell(a shared.Amount) float64 { return a.Float64() }

func buildSheets(b Bundle) []sheet {
	s := b.Summary
	summary := sheet{
		name:   SheetSummary,
		header: []string{"Metric", "Count", "Amount"},
		rows: [][]any{
			{"Period Start", b.Filter.From.Format(time.DateOnly), ""},
			{"Period End", b.Filter.To.Format(time.DateOnly), ""},
			{"Activities", s.TotalActivities, ""},
			{"Quote-Done", s.QuoteDoneSummary.Count, amountCell(s.QuoteDoneSummary.TotalAmount)},
			{"SO-Done", s.SODoneSummary.Count, amountCell(s.SODoneSummary.TotalAmount)},
			{"Delivered", s.DeliveredSummary.Count, amountCell(s.DeliveredSummary.TotalAmount)},
			{"Cancelled", s.CancelledSummary.Count, amountCell(s.CancelledSummary.TotalAmount)},
			{"Total Quotation Amount", "", amountCell(s.TotalQuotationAmount)},
			{"Total SO Amount", "", amountCell(s.TotalSOAmount)},
			{"Total Actual Sales", "", amountCell(s.TotalActualSales)},
			{"Quote to SO Rate (%)", "", amountCell(s.QuoteToSORate)},
			{"SO to Delivered Rate (%)", "", amountCell(s.SOToDeliveredRate)},
		},
	}

	agents := sheet{
		name: SheetAgents,
		header: []string{"Rank", "Reference ID", "Agent", "Activities", "Quotes", "Sales Orders",
			"Delivered", "Quotation Amount", "SO Amount", "Actual Sales", "Conversion Rate (%)"},
	}
	for _, a := range b.Agents {
		agents.rows = append(agents.rows, []any{
			a.Rank, a.ReferenceID, a.AgentName, a.Activities, a.Quotes, a.SalesOrders, a.Delivered,
			amountCell(a.QuotationAmount), amountCell(a.SOAmount), amountCell(a.ActualSales), amountCell(a.ConversionRate),
		})
	}

	daily := sheet{
		name:   SheetDaily,
		header: []string{"Date", "Activities", "Successful", "Unsuccessful", "Quotation Amount", "SO Amount", "Actual Sales"},
	}
	for _, d := range b.Daily {
		daily.rows = append(daily.rows, []any{
			d.Date, d.Total, d.Successful, d.Unsuccessful,
			amountCell(d.QuotationAmount), amountCell(d.SOAmount), amountCell(d.ActualSales),
		})
	}

	return []sheet{summary, agents, daily}
}

// FileName builds the download name for an export created at now
func FileName(format Format, filter report.Filter, now time.Time) string {
	name := fmt.Sprintf("sales-report_%s_%s_%s",
		filter.From.Format("20060102"), filter.To.Format("20060102"), now.UTC().Format("150405"))
	if filter.ReferenceID != "" {
		name += "_" + filter.ReferenceID
	}
	return name + "." + string(format)
}

// Render writes the bundle in the requested format
func Render(b Bundle, format Format, now time.Time) (*File, error) {
	sheets := buildSheets(b)

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatXLSX:
		data, err = renderXLSX(sheets)
	case FormatCSV:
		data, err = renderCSV(sheets)
	default:
		return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Unsupported export format: %s", format))
	}
	if err != nil {
		return nil, err
	}

	return &File{
		Name:        FileName(format, b.Filter, now),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func renderXLSX(sheets []sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sh.name, err)
		}

		header := make([]any, len(sh.header))
		for j, h := range sh.header {
			header[j] = h
		}
		if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
			return nil, fmt.Errorf("failed to write header of %s: %w", sh.name, err)
		}
		last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header of %s: %w", sh.name, err)
		}

		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write row %d of %s: %w", r+2, sh.name, err)
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// renderCSV writes every sheet as a titled section separated by a blank line
func renderCSV(sheets []sheet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for i, sh := range sheets {
		if i > 0 {
			if err := w.Write([]string{}); err != nil {
				return nil, err
			}
		}
		if err := w.Write([]string{sh.name}); err != nil {
			return nil, err
		}
		if err := w.Write(sh.header); err != nil {
			return nil, err
		}
		for _, row := range sh.rows {
			record := make([]string, len(row))
			for j, v := range row {
				record[j] = csvCell(v)
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func csvCell(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return shared.ParseAmount(t).String()
	default:
		return fmt.Sprint(t)
	}
}
