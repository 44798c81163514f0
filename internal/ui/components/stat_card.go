package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jclabaut/GarminDashboard/internal/ui/styles"
)

// FormatKm formats a distance in kilometers with one decimal.
func FormatKm(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}

// StatCard renders one labelled distance total. Stale totals, kept from an
// earlier successful load, are dimmed.
func StatCard(label string, km float64, stale bool, width int) string {
	valueStyle := styles.StatValueStyle
	if stale {
		valueStyle = styles.StaleValueStyle
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.StatLabelStyle.Render(label),
		valueStyle.Render(FormatKm(km)),
	)

	return styles.StatCardStyle.Width(max(width, 14)).Render(content)
}

// StatRow lays out cards side by side, wrapping onto a second row when
// they do not fit in width.
func StatRow(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}

	total := 0
	for _, c := range cards {
		total += lipgloss.Width(c)
	}
	if total <= width || len(cards) == 1 {
		return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	half := (len(cards) + 1) / 2
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[:half]...),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[half:]...),
	)
}
