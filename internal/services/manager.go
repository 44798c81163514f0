// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/jclabaut/GarminDashboard/internal/config"
	"github.com/jclabaut/GarminDashboard/internal/db"
	"github.com/jclabaut/GarminDashboard/internal/health"
	"github.com/jclabaut/GarminDashboard/internal/logger"
	"github.com/jclabaut/GarminDashboard/internal/models"
	"github.com/jclabaut/GarminDashboard/internal/observability"
	"github.com/jclabaut/GarminDashboard/internal/services/dashboard"
	"github.com/jclabaut/GarminDashboard/internal/services/importer"
)

type (
	// SnapshotEvent is emitted whenever the dashboard publishes a snapshot.
	SnapshotEvent struct {
		Snapshot models.Snapshot
	}

	// ImportEvent is emitted after workout files were imported.
	ImportEvent struct {
		Paths []string
		Count int
	}

	// GoalReachedEvent is emitted when the 7-day distance crosses the weekly goal.
	GoalReachedEvent struct {
		WeekKm float64
		GoalKm float64
	}

	// ErrorEvent is emitted when an error occurs in a background service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SnapshotEvent) isServiceEvent()    {}
func (ImportEvent) isServiceEvent()      {}
func (GoalReachedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()       {}

// Notifier sends desktop notifications.
type Notifier func(title, message string) error

func beeepNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	database    *db.DB
	store       *health.Store
	dashboard   *dashboard.Service
	importer    *importer.Service
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	closeOnce   sync.Once

	category     models.WorkoutCategory
	notify       Notifier
	weeklyGoalKm float64
	lastWeekKm   *float64
}

// NewManager opens the workout store and starts the dashboard and importer.
func NewManager(cfg *config.Config, authorizer health.Authorizer) (*Manager, error) {
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store := health.NewStore(database, authorizer)

	imp, err := importer.New(database, importer.Config{
		Dir:      cfg.ImportDir,
		Category: cfg.Category,
		Debounce: cfg.ImportDebounce,
	})
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	dash := dashboard.New(store,
		dashboard.WithCategory(cfg.Category),
		dashboard.WithMetrics(observability.Recorder{}),
	)

	m := newManager(dash, imp, cfg.WeeklyGoalKm, beeepNotify)
	m.database = database
	m.store = store
	m.category = cfg.Category
	return m, nil
}

// newManager wires already constructed services. imp may be nil.
func newManager(dash *dashboard.Service, imp *importer.Service, weeklyGoalKm float64, notify Notifier) *Manager {
	m := &Manager{
		dashboard:    dash,
		importer:     imp,
		stopChan:     make(chan struct{}),
		notify:       notify,
		weeklyGoalKm: weeklyGoalKm,
	}

	go m.routeEvents()

	return m
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	var importEvents <-chan importer.Event
	if m.importer != nil {
		importEvents = m.importer.Events()
	}
	dashEvents := m.dashboard.Events()

	for {
		select {
		case event, ok := <-dashEvents:
			if !ok {
				return
			}
			m.handleDashboardEvent(event)

		case event := <-importEvents:
			m.handleImportEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleDashboardEvent(event dashboard.Event) {
	if event.Type != dashboard.EventSnapshotPublished {
		return
	}
	m.broadcast(SnapshotEvent{Snapshot: event.Snapshot})

	snap := event.Snapshot
	if !snap.Loading && snap.Status == models.StatusReady {
		m.checkWeeklyGoal(snap.Totals.Week)
	}
}

func (m *Manager) handleImportEvent(event importer.Event) {
	switch event.Type {
	case importer.EventImported:
		m.broadcast(ImportEvent{Paths: event.Paths, Count: event.Count})
		go m.dashboard.LoadAll(context.Background())

	case importer.EventError:
		m.broadcast(ErrorEvent{
			Service: "importer",
			Error:   event.Error,
		})
	}
}

// checkWeeklyGoal notifies once each time the 7-day total crosses the goal upwards.
func (m *Manager) checkWeeklyGoal(weekKm float64) {
	previous := m.lastWeekKm
	m.lastWeekKm = &weekKm

	if m.weeklyGoalKm <= 0 || previous == nil {
		return
	}

	if weekKm >= m.weeklyGoalKm && *previous < m.weeklyGoalKm {
		m.broadcast(GoalReachedEvent{WeekKm: weekKm, GoalKm: m.weeklyGoalKm})

		title := "Weekly goal reached"
		body := fmt.Sprintf("%.1f km in the last 7 days (goal %.1f km)", weekKm, m.weeklyGoalKm)
		if m.notify != nil {
			if err := m.notify(title, body); err != nil {
				logger.Warn("Failed to send notification", "error", err)
			}
		}
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// The channel is closed by Close.
func (m *Manager) Subscribe() <-chan ServiceEvent {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch
}

// Authorize asks for health data access. Later calls reuse the first answer.
func (m *Manager) Authorize(ctx context.Context) bool {
	if m.store == nil {
		return false
	}
	return m.store.CheckAuthorization(ctx)
}

// ImportExisting imports export files already waiting in the import directory.
func (m *Manager) ImportExisting(ctx context.Context) (int, error) {
	if m.importer == nil {
		return 0, nil
	}
	return m.importer.ImportExisting(ctx)
}

// LoadAll runs a full dashboard load.
func (m *Manager) LoadAll(ctx context.Context) models.Snapshot {
	return m.dashboard.LoadAll(ctx)
}

// SetCustomRange changes the custom range and refreshes its total.
func (m *Manager) SetCustomRange(ctx context.Context, start, end time.Time) error {
	return m.dashboard.SetCustomRange(ctx, start, end)
}

// WorkoutCount returns the number of stored workouts of the configured category.
func (m *Manager) WorkoutCount(ctx context.Context) (int, error) {
	if m.database == nil {
		return 0, fmt.Errorf("database not initialized")
	}
	return m.database.CountWorkouts(ctx, m.category)
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.importer != nil {
			if err := m.importer.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		if err := m.dashboard.Close(); err != nil {
			errs = append(errs, err)
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return errors.Join(errs...)
}
