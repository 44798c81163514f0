// Package observability exposes Prometheus metrics for workout loads and imports.
package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "garmindash"

// Query results used as the "result" label.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
	ResultDenied = "denied"
	ResultStale  = "stale"
)

var (
	queriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Workout queries issued by the dashboard, by window and result.",
	}, []string{"window", "result"})

	loadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "load_duration_seconds",
		Help:      "Duration of a full dashboard load, from request to publish.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	})

	lastLoadGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_load_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful dashboard load.",
	})

	workoutsImported = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "importer",
		Name:      "workouts_imported_total",
		Help:      "Workouts written to the store by the file importer.",
	})

	importErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "importer",
		Name:      "errors_total",
		Help:      "Import files that could not be parsed or stored.",
	})
)

func init() {
	prometheus.MustRegister(queriesTotal, loadDuration, lastLoadGauge, workoutsImported, importErrors)
}

// Recorder feeds dashboard events into the package metrics.
type Recorder struct{}

// ObserveQuery counts one query for window with the given result label.
func (Recorder) ObserveQuery(window, result string) {
	queriesTotal.WithLabelValues(window, result).Inc()
}

// ObserveLoad records a completed load. Only successful loads move the watermark.
func (Recorder) ObserveLoad(d time.Duration, ok bool, at time.Time) {
	loadDuration.Observe(d.Seconds())
	if ok && !at.IsZero() {
		lastLoadGauge.Set(float64(at.Unix()))
	}
}

// RecordWorkoutsImported adds n to the imported workouts counter.
func RecordWorkoutsImported(n int) {
	if n <= 0 {
		return
	}
	workoutsImported.Add(float64(n))
}

// RecordImportError counts one failed import file.
func RecordImportError() {
	importErrors.Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
