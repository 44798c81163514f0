// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// WorkoutCategory identifies the kind of exercise a workout records.
type WorkoutCategory string

const (
	// CategoryRunning is the only category the dashboard aggregates.
	CategoryRunning WorkoutCategory = "running"
)

// String returns the category name.
func (c WorkoutCategory) String() string {
	return string(c)
}

// Workout is one recorded exercise session as returned by the health store.
type Workout struct {
	ID       string
	Category WorkoutCategory
	Start    time.Time
	// Distance is the total distance in meters, nil when the device recorded none.
	Distance *float64
}

// DistanceMeters returns the recorded distance, treating missing or negative values as 0.
func (w Workout) DistanceMeters() float64 {
	if w.Distance == nil || *w.Distance < 0 {
		return 0
	}
	return *w.Distance
}

// DistanceKm returns the recorded distance in kilometers.
func (w Workout) DistanceKm() float64 {
	return w.DistanceMeters() / 1000.0
}

// Meters is a helper for building a Workout distance literal.
func Meters(m float64) *float64 {
	return &m
}

// TimeWindow is a half-open interval [Start, End).
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Validate returns an error when the window ends before it starts.
func (w TimeWindow) Validate() error {
	if w.End.Before(w.Start) {
		return fmt.Errorf("invalid window: end %s is before start %s",
			w.End.Format(time.DateTime), w.Start.Format(time.DateTime))
	}
	return nil
}

// String returns a short human readable form of the window.
func (w TimeWindow) String() string {
	return w.Start.Format(time.DateOnly) + " → " + w.End.Format(time.DateOnly)
}

// MonthlyBucket is the accumulated distance for one calendar month.
type MonthlyBucket struct {
	// Month is the first instant of the month in the aggregating process' calendar.
	Month      time.Time
	DistanceKm float64
}

// Label returns the abbreviated month name, e.g. "Jan".
func (b MonthlyBucket) Label() string {
	return b.Month.Format("Jan")
}
