package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/jclabaut/GarminDashboard/internal/ui/styles"
	"github.com/jclabaut/GarminDashboard/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderStoreCard(),
		m.renderAboutCard(),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, workout store and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if cfg := m.config; cfg != nil {
		goal := "off"
		if cfg.WeeklyGoalKm > 0 {
			goal = fmt.Sprintf("%.1f km", cfg.WeeklyGoalKm)
		}
		refresh := "off"
		if cfg.RefreshInterval > 0 {
			refresh = cfg.RefreshInterval.String()
		}
		metrics := "off"
		if cfg.MetricsAddr != "" {
			metrics = cfg.MetricsAddr
		}

		rows = append(rows,
			m.renderConfigRow("Database", cfg.DatabasePath),
			m.renderConfigRow("Import Dir", cfg.ImportDir),
			m.renderConfigRow("Category", string(cfg.Category)),
			m.renderConfigRow("Health Access", string(cfg.HealthAccess)),
			m.renderConfigRow("Weekly Goal", goal),
			m.renderConfigRow("Auto Refresh", refresh),
			m.renderConfigRow("Log File", cfg.LogFile),
			m.renderConfigRow("Metrics Addr", metrics),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderStoreCard() string {
	lastImport := "never"
	if t := m.state.LastImport(); !t.IsZero() {
		lastImport = t.Format("2 Jan 2006 15:04")
	}

	rows := []string{
		styles.CardTitleStyle.Render("Workout Store"),
		"",
		m.renderConfigRow("Workouts", styles.InfoTextStyle.Render(fmt.Sprintf("%d", m.state.WorkoutCount()))),
		m.renderConfigRow("Last Import", lastImport),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About GarminDashboard"),
		"",
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", version.GetCommit()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
