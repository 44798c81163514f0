// Package aggregation reduces workout sets into distance totals and monthly series.
//
// Every function here is pure: no I/O, no clock reads, no errors. Empty input
// yields zero totals and empty series.
package aggregation

import (
	"cmp"
	"slices"
	"time"

	"github.com/jclabaut/GarminDashboard/internal/models"
)

// TotalDistanceKm returns the summed distance of workouts in kilometers.
// Missing distances contribute 0. The result does not depend on input order.
func TotalDistanceKm(workouts []models.Workout) float64 {
	var sum kahan
	for _, w := range workouts {
		sum.add(w.DistanceMeters())
	}
	return sum.value() / 1000.0
}

// FilterSince returns the workouts whose start is at or after cutoff, in input order.
// A zero cutoff keeps every workout.
func FilterSince(workouts []models.Workout, cutoff time.Time) []models.Workout {
	filtered := make([]models.Workout, 0, len(workouts))
	for _, w := range workouts {
		if !w.Start.Before(cutoff) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

type monthKey struct {
	year  int
	month time.Month
}

// GroupByMonth accumulates distance per calendar month of each workout's start,
// evaluated in loc (time.Local when nil). Buckets are returned in ascending order.
func GroupByMonth(workouts []models.Workout, loc *time.Location) []models.MonthlyBucket {
	if loc == nil {
		loc = time.Local
	}

	groups := make(map[monthKey]*kahan)
	for _, w := range workouts {
		start := w.Start.In(loc)
		key := monthKey{year: start.Year(), month: start.Month()}
		acc, ok := groups[key]
		if !ok {
			acc = &kahan{}
			groups[key] = acc
		}
		acc.add(w.DistanceKm())
	}

	buckets := make([]models.MonthlyBucket, 0, len(groups))
	for key, acc := range groups {
		buckets = append(buckets, models.MonthlyBucket{
			Month:      time.Date(key.year, key.month, 1, 0, 0, 0, 0, loc),
			DistanceKm: acc.value(),
		})
	}

	slices.SortFunc(buckets, func(a, b models.MonthlyBucket) int {
		return cmp.Compare(a.Month.UnixNano(), b.Month.UnixNano())
	})

	return buckets
}

// StartOfMonth returns the first instant of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// kahan is a compensated float accumulator so sums agree across permutations.
type kahan struct {
	sum, c float64
}

func (k *kahan) add(v float64) {
	y := v - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
}

func (k *kahan) value() float64 {
	return k.sum
}
