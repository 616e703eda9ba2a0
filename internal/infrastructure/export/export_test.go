package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/sfa/backend/internal/domain/report"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testBundle() Bundle {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	return Bundle{
		Filter: report.Filter{From: from, To: to},
		Summary: report.SalesSummary{
			TotalActivities: 2,
			SODoneSummary:   report.StageSummary{Count: 1, TotalAmount: shared.ParseAmount(100)},
			TotalSOAmount:   shared.ParseAmount(150),
		},
		Agents: []report.AgentPerformance{
			{Rank: 1, ReferenceID: "JD-MAN-000001", AgentName: "John Doe", Activities: 2, ActualSales: shared.ParseAmount("12.5")},
		},
		Daily: []report.DailyActivity{
			{Date: "2024-06-01", Total: 1, Successful: 1},
			{Date: "2024-06-02", Total: 1, Unsuccessful: 1},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestFileName(t *testing.T) {
	b := testBundle()
	now := time.Date(2024, 7, 1, 9, 30, 15, 0, time.UTC)

	assert.Equal(t, "sales-report_20240601_20240630_093015.xlsx", FileName(FormatXLSX, b.Filter, now))

	b.Filter.ReferenceID = "JD-MAN-000001"
	assert.Equal(t, "sales-report_20240601_20240630_093015_JD-MAN-000001.csv", FileName(FormatCSV, b.Filter, now))
}

func TestRender_XLSX(t *testing.T) {
	file, err := Render(testBundle(), FormatXLSX, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXLSX, file.ContentType)
	assert.NotEmpty(t, file.Data)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{SheetSummary, SheetAgents, SheetDaily}, wb.GetSheetList())

	rows, err := wb.GetRows(SheetSummary)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 6)
	assert.Equal(t, []string{"Metric", "Count", "Amount"}, rows[0])
	assert.Equal(t, "SO-Done", rows[5][0])

	agentName, err := wb.GetCellValue(SheetAgents, "C2")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", agentName)

	daily, err := wb.GetRows(SheetDaily)
	require.NoError(t, err)
	assert.Len(t, daily, 3)
	assert.Equal(t, "2024-06-02", daily[2][0])
}

func TestRender_CSV(t *testing.T) {
	file, err := Render(testBundle(), FormatCSV, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ContentTypeCSV, file.ContentType)

	r := csv.NewReader(bytes.NewReader(file.Data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{SheetSummary}, records[0])
	assert.Equal(t, []string{"Metric", "Count", "Amount"}, records[1])

	var soDone, agent []string
	for _, rec := range records {
		if len(rec) > 0 && rec[0] == "SO-Done" {
			soDone = rec
		}
		if len(rec) > 2 && rec[1] == "JD-MAN-000001" {
			agent = rec
		}
	}
	require.NotNil(t, soDone)
	assert.Equal(t, []string{"SO-Done", "1", "100"}, soDone)
	require.NotNil(t, agent)
	assert.Equal(t, "12.5", agent[9])
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(testBundle(), Format("pdf"), time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
