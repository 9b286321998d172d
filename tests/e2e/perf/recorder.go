package perf

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder accumulates scenario timings in its own registry so a run can be
// exported as a node_exporter textfile.
type Recorder struct {
	registry   *prometheus.Registry
	steps      *prometheus.HistogramVec
	navigation *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Recorder{
		registry: registry,
		steps: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "e2e_step_duration_seconds",
			Help:    "Wall-clock duration of timed scenario steps",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"scenario", "step"}),
		navigation: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "e2e_navigation_timing_milliseconds",
			Help: "Navigation timing reported by the browser for the last run of a scenario",
		}, []string{"scenario", "metric"}),
	}
}

// Time runs fn, records its duration and returns it with fn's error.
// Failed steps are not recorded.
func (r *Recorder) Time(scenario, step string, fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if err == nil {
		r.Observe(scenario, step, elapsed)
	}
	return elapsed, err
}

func (r *Recorder) Observe(scenario, step string, d time.Duration) {
	r.steps.WithLabelValues(scenario, step).Observe(d.Seconds())
}

func (r *Recorder) RecordNavigation(scenario string, m NavigationMetrics) {
	r.navigation.WithLabelValues(scenario, "dom_content_loaded").Set(m.DOMContentLoaded)
	r.navigation.WithLabelValues(scenario, "load_complete").Set(m.LoadComplete)
	r.navigation.WithLabelValues(scenario, "total_load").Set(m.TotalLoadTime)
	if m.FirstPaint != nil {
		r.navigation.WithLabelValues(scenario, "first_paint").Set(*m.FirstPaint)
	}
	if m.FirstContentfulPaint != nil {
		r.navigation.WithLabelValues(scenario, "first_contentful_paint").Set(*m.FirstContentfulPaint)
	}
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every recorded series to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	log.Printf("[e2e-perf] wrote %s", path)
	return nil
}
