package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jclabaut/GarminDashboard/internal/logger"
	"github.com/jclabaut/GarminDashboard/internal/models"
)

// WorkoutReader is the subset of the database used by Store.
type WorkoutReader interface {
	PingContext(ctx context.Context) error
	QueryWorkouts(ctx context.Context, category models.WorkoutCategory, start, end time.Time) ([]models.Workout, error)
}

// Store implements Source on top of the local workout database.
type Store struct {
	reader     WorkoutReader
	authorizer Authorizer

	authOnce sync.Once
	granted  atomic.Bool
}

// NewStore creates a Store. A nil reader means the store is unavailable.
func NewStore(reader WorkoutReader, authorizer Authorizer) *Store {
	if authorizer == nil {
		authorizer = StaticAuthorizer(false)
	}
	return &Store{
		reader:     reader,
		authorizer: authorizer,
	}
}

// CheckAuthorization implements Source. The authorizer is consulted at most
// once per Store; later calls return the cached answer.
func (s *Store) CheckAuthorization(ctx context.Context) bool {
	if !s.available(ctx) {
		return false
	}

	s.authOnce.Do(func() {
		granted, err := s.authorizer.Authorize(ctx)
		if err != nil {
			logger.Warn("Authorization request failed", "error", err)
			granted = false
		}
		s.granted.Store(granted)
		logger.Info("Health data authorization", "granted", granted)
	})

	return s.granted.Load()
}

func (s *Store) available(ctx context.Context) bool {
	if s.reader == nil {
		return false
	}
	if err := s.reader.PingContext(ctx); err != nil {
		logger.Warn("Workout store unavailable", "error", err)
		return false
	}
	return true
}

// QueryWorkouts implements Source. Reads fail until CheckAuthorization has
// returned true.
func (s *Store) QueryWorkouts(ctx context.Context, category models.WorkoutCategory, window models.TimeWindow) ([]models.Workout, error) {
	if s.reader == nil {
		return nil, &QueryError{Reason: "workout store unavailable"}
	}
	if !s.granted.Load() {
		return nil, &QueryError{Reason: "read access not granted", Err: ErrAuthorizationDenied}
	}
	if err := window.Validate(); err != nil {
		return nil, &QueryError{Reason: "invalid window", Err: err}
	}

	workouts, err := s.reader.QueryWorkouts(ctx, category, window.Start, window.End)
	if err != nil {
		return nil, &QueryError{Reason: category.String() + " query", Err: err}
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return workouts, nil
}
