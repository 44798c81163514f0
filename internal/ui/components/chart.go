// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/jclabaut/GarminDashboard/internal/models"
	"github.com/jclabaut/GarminDashboard/internal/ui/styles"
)

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(1),
		asciigraph.Caption(caption),
	)
}

// MonthlySeries returns the distance of each bucket, in bucket order.
func MonthlySeries(buckets []models.MonthlyBucket) []float64 {
	data := make([]float64, len(buckets))
	for i, b := range buckets {
		data[i] = b.DistanceKm
	}
	return data
}

// RenderMonthlyChart plots the monthly distance series as a line chart.
func RenderMonthlyChart(buckets []models.MonthlyBucket, width, height int) string {
	if len(buckets) == 0 {
		return RenderLineChart(nil, width, height, "")
	}

	data := MonthlySeries(buckets)
	if len(data) == 1 {
		// asciigraph needs two points to draw a line.
		data = append(data, data[0])
	}

	first, last := buckets[0], buckets[len(buckets)-1]
	caption := fmt.Sprintf("km per month, %s %d to %s %d",
		first.Label(), first.Month.Year(), last.Label(), last.Month.Year())

	return RenderLineChart(data, width-10, height, caption)
}

// RenderMonthlyBars renders one horizontal bar per month.
func RenderMonthlyBars(buckets []models.MonthlyBucket, width int) string {
	if len(buckets) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, b := range buckets {
		maxVal = max(maxVal, b.DistanceKm)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	const labelWidth = 8
	barWidth := max(width-labelWidth-12, 10)

	lines := make([]string, 0, len(buckets))
	for _, b := range buckets {
		label := fmt.Sprintf("%s %02d", b.Label(), b.Month.Year()%100)
		barLen := max(int(b.DistanceKm/maxVal*float64(barWidth)), 0)
		bar := styles.InfoTextStyle.Render(strings.Repeat("█", barLen))
		lines = append(lines, fmt.Sprintf("%-*s │%s %.1f", labelWidth, label, bar, b.DistanceKm))
	}

	return strings.Join(lines, "\n")
}
