// Package health exposes the device workout store behind an authorization gate.
package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/jclabaut/GarminDashboard/internal/models"
)

// Source is the read side of the health-data store.
type Source interface {
	// CheckAuthorization reports whether read access to workouts is granted.
	// It never fails; an unavailable store is reported as false.
	CheckAuthorization(ctx context.Context) bool

	// QueryWorkouts returns every workout of category that started inside
	// window, newest first. Zero matches is an empty slice and a nil error.
	QueryWorkouts(ctx context.Context, category models.WorkoutCategory, window models.TimeWindow) ([]models.Workout, error)
}

// ErrAuthorizationDenied is published when the user refused read access or
// the store is not available on this device.
var ErrAuthorizationDenied = errors.New("health data access not authorized")

// QueryError is returned when a workout query fails.
type QueryError struct {
	Reason string
	Err    error
}

func (e *QueryError) Error() string {
	if e.Err == nil {
		return "failed to fetch workouts: " + e.Reason
	}
	return fmt.Sprintf("failed to fetch workouts: %s: %v", e.Reason, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsQueryFailed reports whether err is, or wraps, a *QueryError.
func IsQueryFailed(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
