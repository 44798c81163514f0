package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jclabaut/GarminDashboard/internal/models"
	"github.com/jclabaut/GarminDashboard/internal/ui/components"
	"github.com/jclabaut/GarminDashboard/internal/ui/styles"
)

const chartHeight = 8

// View renders the dashboard.
func (m *Model) View() string {
	if !m.state.HasSnapshot() {
		return m.status.Placeholder(m.width, m.height)
	}

	snap := m.state.Snapshot()

	sections := []string{m.renderTitle(snap)}
	if banner := m.renderError(snap); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections,
		m.renderTotals(snap),
		m.renderCustomRange(snap),
		m.renderChart(snap),
	)

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderTitle(snap models.Snapshot) string {
	title := styles.TitleStyle.Render("Running Dashboard")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.status.View(snap), "")
}

func (m *Model) renderError(snap models.Snapshot) string {
	if snap.Err == nil {
		return ""
	}

	msg := styles.ErrorTextStyle.Render("⚠ " + snap.ErrorMessage())
	if snap.UpdatedAt.IsZero() {
		return lipgloss.JoinVertical(lipgloss.Left, msg, "")
	}
	hint := styles.HelpStyle.Render(fmt.Sprintf("  showing totals from %s", m.status.Since(snap)))
	return lipgloss.JoinVertical(lipgloss.Left, msg, hint, "")
}

func (m *Model) renderTotals(snap models.Snapshot) string {
	stale := snap.Err != nil
	cardWidth := max((m.cardWidth()-8)/4, 16)

	cards := []string{
		components.StatCard("Last 7 Days", snap.Totals.Week, stale, cardWidth),
		components.StatCard("Last Month", snap.Totals.Month, stale, cardWidth),
		components.StatCard("Last 3 Months", snap.Totals.ThreeMonths, stale, cardWidth),
		components.StatCard("Last Year", snap.Totals.Year, stale, cardWidth),
	}

	rows := []string{components.StatRow(cards, m.cardWidth())}
	if bar := components.RenderGoalBar(snap.Totals.Week, m.goalKm, m.cardWidth()); bar != "" {
		rows = append(rows, bar)
	}
	rows = append(rows, "")

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderCustomRange(snap models.Snapshot) string {
	rows := []string{styles.CardTitleStyle.Render("Custom Range")}

	if m.editing {
		rows = append(rows, m.renderForm())
	} else {
		label := formatRange(snap.CustomRange, m.loc)
		rows = append(rows,
			fmt.Sprintf("%s  %s", styles.StatLabelStyle.Render(label),
				styles.StatValueStyle.Render(components.FormatKm(snap.CustomRangeKm))),
			styles.HelpStyle.Render("Press 'c' to change the range"),
		)
		if m.form.err != "" {
			rows = append(rows, styles.ErrorTextStyle.Render(m.form.err))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderForm() string {
	field := func(label string, f formField, view string) string {
		style := styles.BlurredBorderStyle
		labelStyle := styles.BlurredStyle
		if m.form.focus == f {
			style = styles.FocusedBorderStyle
			labelStyle = styles.FocusedStyle
		}
		return lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(label), style.Render(view))
	}

	inputs := lipgloss.JoinHorizontal(lipgloss.Top,
		field("From", fieldStart, m.form.start.View()),
		"  ",
		field("To (inclusive)", fieldEnd, m.form.end.View()),
	)

	rows := []string{inputs}
	if m.form.err != "" {
		rows = append(rows, styles.ErrorTextStyle.Render(m.form.err))
	}
	rows = append(rows, styles.HelpStyle.Render("enter apply • tab switch • esc cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderChart(snap models.Snapshot) string {
	title := styles.CardTitleStyle.Render("Monthly Distance")

	var chart string
	if m.barChart && len(snap.Monthly) > 0 {
		chart = components.RenderMonthlyBars(snap.Monthly, m.cardWidth()-6)
	} else {
		chart = components.RenderMonthlyChart(snap.Monthly, m.cardWidth()-6, chartHeight)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, title, chart))
}

// formatRange renders a half-open window as inclusive dates.
func formatRange(w models.TimeWindow, loc *time.Location) string {
	if w.Start.IsZero() && w.End.IsZero() {
		return "not set"
	}
	start := w.Start.In(loc)
	last := w.End.In(loc)
	if w.End.After(w.Start) {
		last = w.End.Add(-time.Nanosecond).In(loc)
	}
	return fmt.Sprintf("%s to %s", start.Format("2 Jan 2006"), last.Format("2 Jan 2006"))
}
