// Package importer ingests workout export files dropped into a watched directory.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jclabaut/GarminDashboard/internal/db"
	"github.com/jclabaut/GarminDashboard/internal/logger"
	"github.com/jclabaut/GarminDashboard/internal/models"
	"github.com/jclabaut/GarminDashboard/internal/observability"
)

// Store is the persistence used by the importer.
type Store interface {
	UpsertWorkouts(ctx context.Context, workouts []models.Workout, source string) (int, error)
	GetImportedFile(ctx context.Context, path string) (*db.ImportedFile, error)
	RecordImportedFile(ctx context.Context, f db.ImportedFile) error
}

// Event represents an importer event.
type Event struct {
	Error error
	Paths []string
	Count int
	Type  EventType
}

// EventType defines the type of importer event.
type EventType int

const (
	// EventImported is sent after a batch of files was written to the store.
	EventImported EventType = iota
	// EventError is sent when a file or the watcher failed.
	EventError
)

// Config holds configuration for the importer.
type Config struct {
	Dir      string
	Category models.WorkoutCategory
	Debounce time.Duration
}

// Service watches Config.Dir and imports new or changed export files.
type Service struct {
	store   Store
	config  Config
	watcher *fsnotify.Watcher

	eventChan chan Event
	stopChan  chan struct{}
	closeOnce sync.Once

	mu            sync.Mutex
	pending       map[string]struct{}
	debounceTimer *time.Timer
}

// New creates the importer and starts watching the directory.
func New(store Store, config Config) (*Service, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("import directory not configured")
	}
	if config.Category == "" {
		config.Category = models.CategoryRunning
	}
	if config.Debounce <= 0 {
		config.Debounce = 500 * time.Millisecond
	}

	s := &Service{
		store:     store,
		config:    config,
		eventChan: make(chan Event, 20),
		stopChan:  make(chan struct{}),
		pending:   make(map[string]struct{}),
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start import watcher: %w", err)
	}

	return s, nil
}

// Events returns the channel for receiving importer events.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// ImportExisting imports every supported file already present in the directory.
func (s *Service) ImportExisting(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read import directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && Supported(e.Name()) {
			paths = append(paths, filepath.Join(s.config.Dir, e.Name()))
		}
	}

	return s.importBatch(ctx, paths), nil
}

// ImportFile imports one export file. Files whose size and modification time
// match the previous import are skipped and report 0.
func (s *Service) ImportFile(ctx context.Context, path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	modTime := info.ModTime().UTC().Truncate(time.Second)

	prev, err := s.store.GetImportedFile(ctx, path)
	if err != nil {
		return 0, err
	}
	if prev != nil && prev.Size == info.Size() && prev.ModTime.Equal(modTime) {
		logger.Debug("Skipping unchanged import file", "path", path)
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	workouts, err := Parse(path, data, s.config.Category)
	if err != nil {
		return 0, err
	}

	written, err := s.store.UpsertWorkouts(ctx, workouts, filepath.Base(path))
	if err != nil {
		return 0, err
	}

	if err := s.store.RecordImportedFile(ctx, db.ImportedFile{
		Path:         path,
		ModTime:      modTime,
		Size:         info.Size(),
		WorkoutCount: written,
	}); err != nil {
		return written, err
	}

	observability.RecordWorkoutsImported(written)
	logger.Info("Imported workouts", "path", path, "count", written)
	return written, nil
}

// importBatch imports paths and emits one EventImported for the whole batch.
func (s *Service) importBatch(ctx context.Context, paths []string) int {
	total := 0
	var imported []string
	for _, path := range paths {
		n, err := s.ImportFile(ctx, path)
		if err != nil {
			logger.Warn("Import failed", "path", path, "error", err)
			observability.RecordImportError()
			s.sendEvent(Event{Type: EventError, Paths: []string{path}, Error: err})
			continue
		}
		if n > 0 {
			total += n
			imported = append(imported, path)
		}
	}

	if total > 0 {
		s.sendEvent(Event{Type: EventImported, Paths: imported, Count: total})
	}
	return total
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	if err := watcher.Add(s.config.Dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop collects changed files and imports them once events settle.
func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !Supported(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.schedule(event.Name)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// schedule adds path to the pending set and restarts the debounce timer.
func (s *Service) schedule(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[path] = struct{}{}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.config.Debounce, s.flush)
}

// flush imports the files collected since the last flush.
func (s *Service) flush() {
	s.mu.Lock()
	paths := make([]string, 0, len(s.pending))
	for p := range s.pending {
		paths = append(paths, p)
	}
	clear(s.pending)
	s.mu.Unlock()

	select {
	case <-s.stopChan:
		return
	default:
	}

	slices.Sort(paths)
	s.importBatch(context.Background(), paths)
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
