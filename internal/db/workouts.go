package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jclabaut/GarminDashboard/internal/logger"
	"github.com/jclabaut/GarminDashboard/internal/models"
)

var timeFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700 MST",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// UpsertWorkouts inserts or replaces workouts in a single transaction. A row
// matching either the ID or the (category, start) pair is updated in place.
// It returns the number of rows written.
func (db *DB) UpsertWorkouts(ctx context.Context, workouts []models.Workout, source string) (int, error) {
	if len(workouts) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO workouts (id, category, start_time, distance_m, source)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			distance_m = excluded.distance_m,
			source = excluded.source,
			imported_at = CURRENT_TIMESTAMP
		ON CONFLICT(category, start_time) DO UPDATE SET
			distance_m = excluded.distance_m,
			source = excluded.source,
			imported_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare workout upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	written := 0
	for _, w := range workouts {
		if w.ID == "" {
			return written, fmt.Errorf("workout at %s has no id", formatTime(w.Start))
		}

		var distance sql.NullFloat64
		if w.Distance != nil {
			distance = sql.NullFloat64{Float64: *w.Distance, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			w.ID,
			string(w.Category),
			formatTime(w.Start),
			distance,
			nullString(source),
		); err != nil {
			return written, fmt.Errorf("failed to upsert workout %s: %w", w.ID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit workouts: %w", err)
	}

	return written, nil
}

// QueryWorkouts returns the workouts of a category whose start falls in
// [start, end), most recent first.
func (db *DB) QueryWorkouts(ctx context.Context, category models.WorkoutCategory, start, end time.Time) ([]models.Workout, error) {
	query := `
		SELECT id, category, CAST(start_time AS TEXT), distance_m
		FROM workouts
		WHERE category = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time DESC
	`

	rows, err := db.QueryContext(ctx, query, string(category), formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query workouts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	workouts := make([]models.Workout, 0)
	for rows.Next() {
		var (
			w         models.Workout
			category  string
			startStr  sql.NullString
			distanceM sql.NullFloat64
		)

		if err := rows.Scan(&w.ID, &category, &startStr, &distanceM); err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}

		started, ok := parseTimeString(startStr.String)
		if !startStr.Valid || !ok {
			return nil, fmt.Errorf("workout %s has unreadable start time %q", w.ID, startStr.String)
		}

		w.Category = models.WorkoutCategory(category)
		w.Start = started
		if distanceM.Valid {
			w.Distance = models.Meters(distanceM.Float64)
		}
		workouts = append(workouts, w)
	}

	return workouts, rows.Err()
}

// CountWorkouts returns the number of stored workouts of a category.
func (db *DB) CountWorkouts(ctx context.Context, category models.WorkoutCategory) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM workouts WHERE category = ?", string(category),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count workouts: %w", err)
	}
	return count, nil
}

// ImportedFile records a workout export file that has already been ingested.
type ImportedFile struct {
	Path         string
	ModTime      time.Time
	Size         int64
	WorkoutCount int
}

// GetImportedFile returns the import record for path, or nil if it was never imported.
func (db *DB) GetImportedFile(ctx context.Context, path string) (*ImportedFile, error) {
	var (
		f       ImportedFile
		modTime string
	)

	err := db.QueryRowContext(ctx, `
		SELECT path, CAST(mod_time AS TEXT), size, workout_count
		FROM imported_files
		WHERE path = ?
	`, path).Scan(&f.Path, &modTime, &f.Size, &f.WorkoutCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get imported file: %w", err)
	}

	f.ModTime, _ = parseTimeString(modTime)
	return &f, nil
}

// RecordImportedFile stores or refreshes the import record for a file.
func (db *DB) RecordImportedFile(ctx context.Context, f ImportedFile) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO imported_files (path, mod_time, size, workout_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			mod_time = excluded.mod_time,
			size = excluded.size,
			workout_count = excluded.workout_count,
			imported_at = CURRENT_TIMESTAMP
	`, f.Path, formatTime(f.ModTime), f.Size, f.WorkoutCount)
	if err != nil {
		return fmt.Errorf("failed to record imported file: %w", err)
	}
	return nil
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
