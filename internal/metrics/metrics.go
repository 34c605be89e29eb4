// Package metrics records per-run export figures in a private Prometheus
// registry that can be dumped for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chromexport"

// Recorder holds the metrics of one export run.
type Recorder struct {
	registry *prometheus.Registry

	entriesRead     *prometheus.GaugeVec
	entriesFiltered *prometheus.GaugeVec
	uniqueURLs      *prometheus.GaugeVec
	rowsExported    *prometheus.GaugeVec
	filesWritten    *prometheus.CounterVec
	profileFailures *prometheus.CounterVec
	duration        prometheus.Summary
	lastSuccessTS   prometheus.Gauge
}

// New creates a Recorder with all metrics registered.
func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.entriesRead = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "history_entries",
		Help:      "History entries read from a profile database",
	}, []string{"profile"})
	r.entriesFiltered = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "history_entries_filtered",
		Help:      "History entries left after date and URL filtering",
	}, []string{"profile"})
	r.uniqueURLs = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "unique_urls",
		Help:      "Distinct URLs exported for a profile",
	}, []string{"profile"})
	r.rowsExported = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rows_exported",
		Help:      "Rows written to an export file",
	}, []string{"profile", "format"})
	r.filesWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "files_written_total",
		Help:      "Export files written by format",
	}, []string{"format"})
	r.profileFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_failures_total",
		Help:      "Profiles skipped by stage",
	}, []string{"stage"})
	r.duration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: namespace,
		Name:      "export_duration_seconds",
		Help:      "Wall time of an export run",
	})
	r.lastSuccessTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful export",
	})

	r.registry.MustRegister(
		r.entriesRead, r.entriesFiltered, r.uniqueURLs, r.rowsExported,
		r.filesWritten, r.profileFailures, r.duration, r.lastSuccessTS,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) EntriesRead(profile string, n int) {
	r.entriesRead.WithLabelValues(profile).Set(float64(n))
}

func (r *Recorder) EntriesFiltered(profile string, n int) {
	r.entriesFiltered.WithLabelValues(profile).Set(float64(n))
}

func (r *Recorder) UniqueURLs(profile string, n int) {
	r.uniqueURLs.WithLabelValues(profile).Set(float64(n))
}

// FileWritten records one export file of rows rows.
func (r *Recorder) FileWritten(profile, format string, rows int) {
	r.rowsExported.WithLabelValues(profile, format).Set(float64(rows))
	r.filesWritten.WithLabelValues(format).Inc()
}

// ProfileFailed counts a profile skipped at stage (copy, read, export).
func (r *Recorder) ProfileFailed(stage string) {
	r.profileFailures.WithLabelValues(stage).Inc()
}

// Finished records the run duration and, on success, its completion time.
func (r *Recorder) Finished(start, end time.Time, ok bool) {
	r.duration.Observe(end.Sub(start).Seconds())
	if ok {
		r.lastSuccessTS.Set(float64(end.Unix()))
	}
}

// WriteTextfile atomically writes every metric to path in the text
// exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
