package handler

import (
	"fmt"
	"math"
	"strings"

	"github.com/iho/porket/internal/domain"
)

// Donut geometry in SVG user units (viewBox 0 0 200 200).
const (
	chartCenter      = 100.0
	chartOuterRadius = 90.0
	chartInnerRadius = 55.0
)

// PieSlice is one drawable arc of the expense donut.
type PieSlice struct {
	domain.CategorySlice
	Path string
}

// buildPieSlices lays the slices out clockwise from 12 o'clock. Slices
// with a zero share get no path but stay in the legend.
func buildPieSlices(slices []domain.CategorySlice) []PieSlice {
	out := make([]PieSlice, len(slices))
	start := 0.0

	for i, s := range slices {
		out[i] = PieSlice{CategorySlice: s}

		fraction := s.Percentage / 100
		if fraction <= 0 {
			continue
		}
		if fraction >= 0.9999 {
			out[i].Path = ringPath()
			start += fraction
			continue
		}

		out[i].Path = arcPath(start, start+fraction)
		start += fraction
	}

	return out
}

// arcPath draws the annular sector between two fractions of a turn.
func arcPath(from, to float64) string {
	largeArc := 0
	if to-from > 0.5 {
		largeArc = 1
	}

	ox0, oy0 := polar(chartOuterRadius, from)
	ox1, oy1 := polar(chartOuterRadius, to)
	ix1, iy1 := polar(chartInnerRadius, to)
	ix0, iy0 := polar(chartInnerRadius, from)

	return fmt.Sprintf("M %s %s A %s %s 0 %d 1 %s %s L %s %s A %s %s 0 %d 0 %s %s Z",
		num(ox0), num(oy0),
		num(chartOuterRadius), num(chartOuterRadius), largeArc, num(ox1), num(oy1),
		num(ix1), num(iy1),
		num(chartInnerRadius), num(chartInnerRadius), largeArc, num(ix0), num(iy0),
	)
}

// ringPath draws the full donut. It needs fill-rule="evenodd".
func ringPath() string {
	var b strings.Builder
	for _, r := range []float64{chartOuterRadius, chartInnerRadius} {
		fmt.Fprintf(&b, "M %s %s A %s %s 0 1 1 %s %s A %s %s 0 1 1 %s %s Z ",
			num(chartCenter-r), num(chartCenter),
			num(r), num(r), num(chartCenter+r), num(chartCenter),
			num(r), num(r), num(chartCenter-r), num(chartCenter),
		)
	}
	return strings.TrimSpace(b.String())
}

// polar returns the point at radius r and fraction f of a clockwise turn
// starting at 12 o'clock.
func polar(r, f float64) (x, y float64) {
	angle := 2*math.Pi*f - math.Pi/2
	return chartCenter + r*math.Cos(angle), chartCenter + r*math.Sin(angle)
}

func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
