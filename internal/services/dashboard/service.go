// Package dashboard owns the published workout snapshot and drives the
// fetch/aggregate cycle behind it.
//
// Every snapshot mutation runs on a single loop goroutine. Queries run on
// caller or worker goroutines and hand their results to the loop as
// closures, so observers never see a half-applied update.
package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jclabaut/GarminDashboard/internal/aggregation"
	"github.com/jclabaut/GarminDashboard/internal/health"
	"github.com/jclabaut/GarminDashboard/internal/logger"
	"github.com/jclabaut/GarminDashboard/internal/models"
	"github.com/jclabaut/GarminDashboard/internal/observability"
)

// Query window labels reported to Metrics.
const (
	windowYear   = "year"
	windowCustom = "custom"
)

// Event represents a dashboard service event.
type Event struct {
	Snapshot models.Snapshot
	Type     EventType
}

// EventType defines the type of dashboard event.
type EventType int

const (
	// EventSnapshotPublished carries every newly published snapshot.
	EventSnapshotPublished EventType = iota
)

// Metrics receives query and load observations.
type Metrics interface {
	ObserveQuery(window, result string)
	ObserveLoad(d time.Duration, ok bool, at time.Time)
}

type noopMetrics struct{}

func (noopMetrics) ObserveQuery(string, string)               {}
func (noopMetrics) ObserveLoad(time.Duration, bool, time.Time) {}

// Option configures a Service.
type Option func(*Service)

// WithCategory sets the workout category to aggregate.
func WithCategory(c models.WorkoutCategory) Option {
	return func(s *Service) { s.category = c }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.clock = now }
}

// WithLocation sets the calendar used for month boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service holds the dashboard state.
type Service struct {
	source   health.Source
	category models.WorkoutCategory
	clock    func() time.Time
	loc      *time.Location
	metrics  Metrics

	ops       chan func()
	stopChan  chan struct{}
	done      chan struct{}
	eventChan chan Event
	closeOnce sync.Once

	// Custom range refreshes started by LoadAll. bgCtx ends on Close.
	bgCtx      context.Context
	bgCancel   context.CancelFunc
	background sync.WaitGroup

	published atomic.Pointer[models.Snapshot]

	// Owned by the loop goroutine.
	snap      models.Snapshot
	inflight  int
	customGen uint64
	closing   bool
}

// New creates the service, sets the default custom range to the current
// month so far, and starts the loop goroutine.
func New(source health.Source, opts ...Option) *Service {
	s := &Service{
		source:    source,
		category:  models.CategoryRunning,
		clock:     time.Now,
		loc:       time.Local,
		metrics:   noopMetrics{},
		ops:       make(chan func()),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
		eventChan: make(chan Event, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bgCtx, s.bgCancel = context.WithCancel(context.Background())

	now := s.clock().In(s.loc)
	s.snap.CustomRange = models.TimeWindow{Start: aggregation.StartOfMonth(now), End: now}
	initial := s.snap.Clone()
	s.published.Store(&initial)

	go s.loop()

	return s
}

// Events returns the channel of published snapshots.
// The channel is closed by Close.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Snapshot returns the last published snapshot.
func (s *Service) Snapshot() models.Snapshot {
	return s.published.Load().Clone()
}

// Close cancels background refreshes, waits for them and stops the loop
// goroutine. Operations still in flight become no-ops.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.do(func() { s.closing = true })
		s.bgCancel()
		s.background.Wait()
		close(s.stopChan)
		<-s.done
		close(s.eventChan)
	})
	return nil
}

func (s *Service) loop() {
	defer close(s.done)
	for {
		select {
		case op := <-s.ops:
			op()
		case <-s.stopChan:
			return
		}
	}
}

// do runs op on the loop goroutine and waits for it to finish.
// It returns false when the service is closed.
func (s *Service) do(op func()) bool {
	applied := make(chan struct{})
	select {
	case s.ops <- func() { op(); close(applied) }:
	case <-s.stopChan:
		return false
	}
	// The loop received op and runs it before selecting again.
	<-applied
	return true
}

// publish makes the current state visible. Loop goroutine only.
func (s *Service) publish() models.Snapshot {
	snap := s.snap.Clone()
	s.published.Store(&snap)

	event := Event{Type: EventSnapshotPublished, Snapshot: snap.Clone()}
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
	return snap
}

// LoadAll runs a full load and returns the snapshot published at its end.
//
// Authorization denial and query failure end the load with Err set and
// keep every previously published total.
func (s *Service) LoadAll(ctx context.Context) models.Snapshot {
	started := time.Now()

	if !s.do(func() {
		s.inflight++
		s.snap.Loading = true
		s.snap.Status = models.StatusLoading
		s.publish()
	}) {
		return s.Snapshot()
	}

	if !s.source.CheckAuthorization(ctx) {
		s.metrics.ObserveQuery(windowYear, observability.ResultDenied)
		return s.finishLoad(started, func() {
			s.snap.Status = models.StatusError
			s.snap.Err = health.ErrAuthorizationDenied
		})
	}

	s.startCustomRefresh()

	now := s.clock().In(s.loc)
	cutoffs := aggregation.Cutoffs(now)

	yearSet, err := s.source.QueryWorkouts(ctx, s.category, cutoffs.YearWindow())
	if err != nil {
		if !health.IsQueryFailed(err) {
			err = &health.QueryError{Reason: "trailing year", Err: err}
		}
		logger.Error("Workout load failed", "error", err)
		s.metrics.ObserveQuery(windowYear, observability.ResultFailed)
		return s.finishLoad(started, func() {
			s.snap.Status = models.StatusError
			s.snap.Err = err
		})
	}
	s.metrics.ObserveQuery(windowYear, observability.ResultOK)

	summary := aggregation.Summarize(yearSet, cutoffs, s.loc)
	logger.Debug("Workouts aggregated", "count", len(yearSet), "week_km", summary.Totals.Week, "year_km", summary.Totals.Year)

	return s.finishLoad(started, func() {
		s.snap.Totals = summary.Totals
		s.snap.Monthly = summary.Monthly
		s.snap.UpdatedAt = now
		s.snap.Status = models.StatusReady
		s.snap.Err = nil
	})
}

// startCustomRefresh refreshes the custom range alongside a primary load.
// It publishes only CustomRangeKm, so the primary load never waits for it.
func (s *Service) startCustomRefresh() {
	started := s.do(func() {
		if s.closing {
			return
		}
		s.background.Add(1)
	})
	if !started {
		return
	}
	go func() {
		defer s.background.Done()
		s.RefreshCustomRange(s.bgCtx)
	}()
}

// finishLoad applies the outcome of one load and publishes it.
func (s *Service) finishLoad(started time.Time, apply func()) models.Snapshot {
	var out models.Snapshot
	if !s.do(func() {
		apply()
		s.inflight--
		s.snap.Loading = s.inflight > 0
		out = s.publish()
	}) {
		return s.Snapshot()
	}
	s.metrics.ObserveLoad(time.Since(started), out.Err == nil, out.UpdatedAt)
	return out
}

// SetCustomRange replaces the custom window and refreshes its total.
func (s *Service) SetCustomRange(ctx context.Context, start, end time.Time) error {
	window := models.TimeWindow{Start: start, End: end}
	if err := window.Validate(); err != nil {
		return err
	}

	if !s.do(func() {
		s.snap.CustomRange = window
		s.publish()
	}) {
		return nil
	}

	s.RefreshCustomRange(ctx)
	return nil
}

// RefreshCustomRange recomputes the custom range total.
//
// Failures are logged and leave the previous total in place; the top-level
// loading state is never touched. When a newer refresh was issued while this
// one was in flight, this result is discarded.
func (s *Service) RefreshCustomRange(ctx context.Context) {
	var (
		gen    uint64
		window models.TimeWindow
	)
	if !s.do(func() {
		s.customGen++
		gen = s.customGen
		window = s.snap.CustomRange
	}) {
		return
	}

	ws, err := s.source.QueryWorkouts(ctx, s.category, window)
	if err != nil {
		logger.Warn("Custom range refresh failed", "window", window.String(), "error", err)
		s.metrics.ObserveQuery(windowCustom, observability.ResultFailed)
		return
	}
	km := aggregation.TotalDistanceKm(ws)

	s.do(func() {
		if gen != s.customGen {
			logger.Debug("Dropping superseded custom range result", "window", window.String(), "generation", gen)
			s.metrics.ObserveQuery(windowCustom, observability.ResultStale)
			return
		}
		s.metrics.ObserveQuery(windowCustom, observability.ResultOK)
		s.snap.CustomRangeKm = km
		s.publish()
	})
}
