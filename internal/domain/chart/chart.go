// Package chart builds the SVG geometry for dashboard charts so clients only
// have to drop the path strings into an <svg> element.
package chart

import (
	"math"
	"strconv"
	"strings"
)

// Scale maps a value domain onto a pixel range
type Scale struct {
	DomainMin, DomainMax float64
	RangeMin, RangeMax   float64
}

// Map projects v into the range. A degenerate domain maps to the range midpoint.
func (s Scale) Map(v float64) float64 {
	span := s.DomainMax - s.DomainMin
	if span == 0 {
		return (s.RangeMin + s.RangeMax) / 2
	}
	return s.RangeMin + (v-s.DomainMin)/span*(s.RangeMax-s.RangeMin)
}

// Box is the drawing area of a chart
type Box struct {
	Width   float64
	Height  float64
	Padding float64
}

// Point is one projected coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is one bar
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Project lays values out evenly along x, scaling y from zero to the max value.
// SVG y grows downward so larger values get smaller y.
func Project(values []float64, box Box) []Point {
	if len(values) == 0 {
		return nil
	}
	maxV := 0.0
	minV := 0.0
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
		if v < minV {
			minV = v
		}
	}

	innerW := box.Width - 2*box.Padding
	y := Scale{DomainMin: minV, DomainMax: maxV, RangeMin: box.Height - box.Padding, RangeMax: box.Padding}
	if maxV == minV {
		// flat series sits on the baseline
		y = Scale{DomainMin: minV, DomainMax: minV + 1, RangeMin: box.Height - box.Padding, RangeMax: box.Padding}
	}

	points := make([]Point, len(values))
	for i, v := range values {
		x := box.Padding + innerW/2
		if len(values) > 1 {
			x = box.Padding + float64(i)*innerW/float64(len(values)-1)
		}
		points[i] = Point{X: round2(x), Y: round2(y.Map(v))}
	}
	return points
}

// LinePath renders points as an SVG path "d" attribute
func LinePath(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(fmtFloat(p.X))
		b.WriteByte(' ')
		b.WriteString(fmtFloat(p.Y))
	}
	return b.String()
}

// AreaPath closes the line down to the chart baseline
func AreaPath(points []Point, box Box) string {
	if len(points) == 0 {
		return ""
	}
	base := fmtFloat(round2(box.Height - box.Padding))
	return LinePath(points) +
		" L" + fmtFloat(points[len(points)-1].X) + " " + base +
		" L" + fmtFloat(points[0].X) + " " + base + " Z"
}

// Bars lays values out as vertical bars separated by gap pixels.
// Negative values are drawn as zero height. When the gaps alone would not fit
// the canvas, bars and gaps share the inner width equally.
func Bars(values []float64, box Box, gap float64) []Rect {
	if len(values) == 0 {
		return nil
	}
	maxV := 0.0
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
	}
	innerW := math.Max(box.Width-2*box.Padding, 0)
	innerH := math.Max(box.Height-2*box.Padding, 0)
	n := float64(len(values))
	gap = math.Max(gap, 0)
	if gap*(n-1) >= innerW {
		gap = innerW / (2*n - 1)
	}
	barW := (innerW - gap*(n-1)) / n

	rects := make([]Rect, len(values))
	for i, v := range values {
		h := 0.0
		if maxV > 0 && v > 0 {
			h = v / maxV * innerH
		}
		rects[i] = Rect{
			X:      round2(box.Padding + float64(i)*(barW+gap)),
			Y:      round2(box.Height - box.Padding - h),
			Width:  round2(barW),
			Height: round2(h),
		}
	}
	return rects
}

func round2(f float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	return v
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
