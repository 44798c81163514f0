package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jclabaut/GarminDashboard/internal/logger"
	"github.com/jclabaut/GarminDashboard/internal/ui/styles"
)

const (
	goalBarFrom = "#5fafff"
	goalBarTo   = "#51cf66"
)

// GoalPercent returns weekKm as a percentage of goalKm, 0 when no goal is set.
func GoalPercent(weekKm, goalKm float64) float64 {
	if goalKm <= 0 || weekKm <= 0 {
		return 0
	}
	return weekKm / goalKm * 100
}

// RenderGradientBar renders a bar filled to percent with a gradient. Values
// above 100 render as a full bar.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent/100), 0), width)

	var b strings.Builder
	empty := lipgloss.NewStyle().Foreground(styles.Subtle)
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(goalBarFrom, goalBarTo, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(empty.Render("░"))
		}
	}

	return b.String()
}

// RenderGoalBar renders progress of the 7-day distance towards the weekly goal.
// It returns "" when no goal is configured.
func RenderGoalBar(weekKm, goalKm float64, width int) string {
	if goalKm <= 0 {
		return ""
	}

	percent := GoalPercent(weekKm, goalKm)
	label := "Weekly goal"
	summary := fmt.Sprintf("%s / %s", FormatKm(weekKm), FormatKm(goalKm))
	barWidth := max(width-len(label)-len(summary)-10, 5)

	labelStr := styles.StatLabelStyle.Render(label)
	percentStr := styles.GetGoalStyle(percent).Render(fmt.Sprintf("%3.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s %s", labelStr, RenderGradientBar(percent, barWidth), percentStr,
		styles.HelpStyle.Render(summary))
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
