package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jclabaut/GarminDashboard/internal/models"
)

// workoutNamespace seeds the name-based IDs of workouts exported without one.
var workoutNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("garmindash.workout"))

// ErrUnsupportedFormat is returned for files that are neither JSON nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported workout file format")

// jsonWorkout is one entry of a JSON export.
type jsonWorkout struct {
	ID        string   `json:"id"`
	Start     string   `json:"start"`
	DistanceM *float64 `json:"distance_m"`
	Category  string   `json:"category"`
}

// Supported reports whether path has an importable extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".csv":
		return true
	default:
		return false
	}
}

// Parse decodes an export file, choosing the format from its extension.
// Workouts without a category get fallback.
func Parse(path string, data []byte, fallback models.WorkoutCategory) ([]models.Workout, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data, fallback)
	case ".csv":
		return ParseCSV(bytes.NewReader(data), fallback)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// ParseJSON decodes an array of {"id","start","distance_m","category"} objects.
func ParseJSON(data []byte, fallback models.WorkoutCategory) ([]models.Workout, error) {
	var entries []jsonWorkout
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse workout JSON: %w", err)
	}

	workouts := make([]models.Workout, 0, len(entries))
	for i, e := range entries {
		start, err := parseStart(e.Start)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		workouts = append(workouts, newWorkout(e.ID, categoryOr(e.Category, fallback), start, e.DistanceM))
	}
	return workouts, nil
}

// ParseCSV decodes rows of start,distance_m[,category]. A header row whose
// first cell is "start" is skipped; an empty distance means not recorded.
func ParseCSV(r io.Reader, fallback models.WorkoutCategory) ([]models.Workout, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse workout CSV: %w", err)
	}

	workouts := make([]models.Workout, 0, len(records))
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "start") {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: expected start,distance_m[,category], got %d fields", i+1, len(rec))
		}

		start, err := parseStart(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		var distance *float64
		if d := strings.TrimSpace(rec[1]); d != "" {
			meters, err := strconv.ParseFloat(d, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid distance %q: %w", i+1, d, err)
			}
			distance = &meters
		}

		category := fallback
		if len(rec) > 2 {
			category = categoryOr(rec[2], fallback)
		}

		workouts = append(workouts, newWorkout("", category, start, distance))
	}
	return workouts, nil
}

var startLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// parseStart accepts RFC 3339 and a few zone-less forms, the latter read as local time.
func parseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for i, layout := range startLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start time %q", s)
}

func categoryOr(s string, fallback models.WorkoutCategory) models.WorkoutCategory {
	if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
		return models.WorkoutCategory(s)
	}
	return fallback
}

// newWorkout builds a workout, deriving a stable ID from category and start
// when the export did not carry one.
func newWorkout(id string, category models.WorkoutCategory, start time.Time, distance *float64) models.Workout {
	if id == "" {
		key := string(category) + "|" + start.UTC().Format(time.RFC3339)
		id = uuid.NewSHA1(workoutNamespace, []byte(key)).String()
	}
	return models.Workout{
		ID:       id,
		Category: category,
		Start:    start,
		Distance: distance,
	}
}
