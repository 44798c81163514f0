package aggregation

import (
	"time"

	"github.com/jclabaut/GarminDashboard/internal/models"
)

// TrailingCutoffs are the start instants of the fixed trailing windows,
// all derived from the same captured "now".
type TrailingCutoffs struct {
	Now         time.Time
	Week        time.Time
	Month       time.Time
	ThreeMonths time.Time
	Year        time.Time
}

// Cutoffs computes the trailing window starts relative to now.
// Month and year steps clamp to the last day of the target month.
func Cutoffs(now time.Time) TrailingCutoffs {
	return TrailingCutoffs{
		Now:         now,
		Week:        now.AddDate(0, 0, -7),
		Month:       AddMonths(now, -1),
		ThreeMonths: AddMonths(now, -3),
		Year:        AddMonths(now, -12),
	}
}

// YearWindow is the widest window, the one queried from the store.
func (c TrailingCutoffs) YearWindow() models.TimeWindow {
	return models.TimeWindow{Start: c.Year, End: c.Now}
}

// AddMonths shifts t by n calendar months, keeping the time of day and
// clamping the day so that e.g. 31 March - 1 month is the last day of February.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := min(t.Day(), daysIn(first.Year(), first.Month(), t.Location()))
	return first.AddDate(0, 0, day-1)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// Summary is the fixed-window reduction of one trailing-year result set.
type Summary struct {
	Totals  models.Totals
	Monthly []models.MonthlyBucket
}

// Summarize derives every fixed-window total and the monthly series from a
// single set of workouts covering the trailing year.
func Summarize(workouts []models.Workout, cutoffs TrailingCutoffs, loc *time.Location) Summary {
	yearSet := FilterSince(workouts, cutoffs.Year)
	return Summary{
		Totals: models.Totals{
			Year:        TotalDistanceKm(yearSet),
			ThreeMonths: TotalDistanceKm(FilterSince(yearSet, cutoffs.ThreeMonths)),
			Month:       TotalDistanceKm(FilterSince(yearSet, cutoffs.Month)),
			Week:        TotalDistanceKm(FilterSince(yearSet, cutoffs.Week)),
		},
		Monthly: GroupByMonth(yearSet, loc),
	}
}
