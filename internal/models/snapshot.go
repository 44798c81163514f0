package models

import "time"

// Status is the top-level state of the dashboard's primary load.
type Status int

const (
	// StatusIdle means no load has been requested yet.
	StatusIdle Status = iota
	// StatusLoading means a primary load is in flight.
	StatusLoading
	// StatusReady means the last primary load published fresh totals.
	StatusReady
	// StatusError means the last primary load failed.
	StatusError
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Totals holds the distance in kilometers for each fixed trailing window.
type Totals struct {
	Week        float64
	Month       float64
	ThreeMonths float64
	Year        float64
}

// Snapshot is the complete set of values published to the presentation layer.
type Snapshot struct {
	Status  Status
	Loading bool
	Err     error

	Totals  Totals
	Monthly []MonthlyBucket

	CustomRange   TimeWindow
	CustomRangeKm float64

	UpdatedAt time.Time
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := s
	if s.Monthly != nil {
		c.Monthly = make([]MonthlyBucket, len(s.Monthly))
		copy(c.Monthly, s.Monthly)
	}
	return c
}

// ErrorMessage returns the user-visible error text, or "" when there is none.
func (s Snapshot) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}
