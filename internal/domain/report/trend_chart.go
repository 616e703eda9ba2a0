package report

import (
	"github.com/sfa/backend/internal/domain/chart"
	"github.com/sfa/backend/internal/domain/shared"
)

// Default chart canvas
const (
	DefaultChartWidth   = 640
	DefaultChartHeight  = 240
	DefaultChartPadding = 24
	DefaultBarGap       = 4
)

// TrendChart is a daily series ready to drop into an <svg>
type TrendChart struct {
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Labels []string        `json:"labels"`
	Values []shared.Amount `json:"values"`
	Max    shared.Amount   `json:"max"`
	Points []chart.Point   `json:"points"`
	Line   string          `json:"line"`
	Area   string          `json:"area"`
	Bars   []chart.Rect    `json:"bars"`
}

// BuildSalesTrendChart renders the actual sales of each day as line, area and bars
func BuildSalesTrendChart(days []DailyActivity, box chart.Box) TrendChart {
	if box.Width <= 0 || box.Height <= 0 {
		box = chart.Box{Width: DefaultChartWidth, Height: DefaultChartHeight, Padding: DefaultChartPadding}
	}

	labels := make([]string, len(days))
	values := make([]shared.Amount, len(days))
	floats := make([]float64, len(days))
	maxV := shared.ZeroAmount
	for i, d := range days {
		labels[i] = d.Date
		values[i] = d.ActualSales
		floats[i] = d.ActualSales.Float64()
		if d.ActualSales.Decimal().GreaterThan(maxV.Decimal()) {
			maxV = d.ActualSales
		}
	}

	points := chart.Project(floats, box)
	return TrendChart{
		Width:  box.Width,
		Height: box.Height,
		Labels: labels,
		Values: values,
		Max:    maxV,
		Points: points,
		Line:   chart.LinePath(points),
		Area:   chart.AreaPath(points, box),
		Bars:   chart.Bars(floats, box, DefaultBarGap),
	}
}
