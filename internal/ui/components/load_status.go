package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jclabaut/GarminDashboard/internal/models"
	"github.com/jclabaut/GarminDashboard/internal/ui/styles"
)

const updatedLayout = "Mon 2 Jan 15:04"

// LoadStatus renders the state of the dashboard's primary load: an animated
// spinner while workouts load, otherwise the time of the last good load.
type LoadStatus struct {
	spinner spinner.Model
	loc     *time.Location
}

// NewLoadStatus creates a load indicator that formats times in loc.
func NewLoadStatus(loc *time.Location) LoadStatus {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	if loc == nil {
		loc = time.Local
	}
	return LoadStatus{spinner: s, loc: loc}
}

// Init starts the spinner animation.
func (l LoadStatus) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner.
func (l LoadStatus) Update(msg tea.Msg) (LoadStatus, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// Label returns the status text for snap.
func (l LoadStatus) Label(snap models.Snapshot) string {
	switch {
	case snap.Loading && snap.UpdatedAt.IsZero():
		return "Loading workouts..."
	case snap.Loading:
		return "Refreshing..."
	case snap.Status == models.StatusError && snap.UpdatedAt.IsZero():
		return "Load failed"
	case !snap.UpdatedAt.IsZero():
		return "Updated " + snap.UpdatedAt.In(l.loc).Format(updatedLayout)
	default:
		return "No data loaded yet"
	}
}

// View renders the status line for snap, with the spinner while loading.
func (l LoadStatus) View(snap models.Snapshot) string {
	label := styles.HelpStyle.Render(l.Label(snap))
	if snap.Loading {
		return l.spinner.View() + " " + label
	}
	return label
}

// Since formats the time of the last good load, for stale-data hints.
func (l LoadStatus) Since(snap models.Snapshot) string {
	return snap.UpdatedAt.In(l.loc).Format(updatedLayout)
}

// Placeholder fills width x height with the spinner and a loading label,
// shown before the first snapshot arrives.
func (l LoadStatus) Placeholder(width, height int) string {
	content := l.spinner.View() + " " + lipgloss.NewStyle().Foreground(styles.TextSecondary).Render("Loading workouts...")
	return styles.CenterBoth(content, width, height)
}
