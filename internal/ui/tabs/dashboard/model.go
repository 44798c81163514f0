// Package dashboard provides the running distance tab.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jclabaut/GarminDashboard/internal/app"
	"github.com/jclabaut/GarminDashboard/internal/ui/components"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	EditRange   key.Binding
	ToggleChart key.Binding
	Submit      key.Binding
	Cancel      key.Binding
	NextField   key.Binding
	PrevField   key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		EditRange: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "custom range"),
		),
		ToggleChart: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "line/bar chart"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply range"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next date"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev date"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state    *app.State
	goalKm   float64
	loc      *time.Location
	status   components.LoadStatus
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int

	editing  bool
	form     rangeForm
	barChart bool
}

// New creates a new dashboard model. goalKm <= 0 hides the weekly goal bar.
func New(state *app.State, goalKm float64) *Model {
	return &Model{
		state:    state,
		goalKm:   goalKm,
		loc:      time.Local,
		status:   components.NewLoadStatus(time.Local),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		form:     newRangeForm(),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.status.Init()
}

// CapturesInput reports whether the range editor owns the keyboard.
func (m *Model) CapturesInput() bool {
	return m.editing
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m, m.updateForm(msg)
		}
		return m, m.handleKeyMsg(msg)

	case app.CustomRangeResultMsg:
		if msg.Err != nil {
			m.form.err = msg.Err.Error()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.status, cmd = m.status.Update(msg)
		return m, cmd

	default:
		if m.editing {
			return m, m.form.update(msg)
		}
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.EditRange):
		m.editing = true
		return m.form.open(m.state.Snapshot().CustomRange, m.loc)

	case key.Matches(msg, m.keys.ToggleChart):
		m.barChart = !m.barChart

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.form.close()
		return nil

	case key.Matches(msg, m.keys.NextField):
		m.form.next()
		return nil

	case key.Matches(msg, m.keys.PrevField):
		m.form.prev()
		return nil

	case key.Matches(msg, m.keys.Submit):
		w, err := m.form.window(m.loc)
		if err != nil {
			m.form.err = err.Error()
			return nil
		}
		m.editing = false
		m.form.close()
		m.form.err = ""
		return func() tea.Msg {
			return app.SetCustomRangeMsg{Start: w.Start, End: w.End}
		}
	}

	return m.form.update(msg)
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.editing {
		return []key.Binding{m.keys.Submit, m.keys.NextField, m.keys.Cancel}
	}
	return []key.Binding{m.keys.EditRange, m.keys.ToggleChart}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.EditRange, m.keys.ToggleChart},
		{m.keys.Submit, m.keys.Cancel, m.keys.NextField, m.keys.PrevField},
	}
}
