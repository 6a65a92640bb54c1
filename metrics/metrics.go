// Package metrics exposes Prometheus collectors for workflow runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RunsTotal counts finished workflow runs by outcome ("success", "failure").
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "content_engine",
		Name:      "runs_total",
		Help:      "Workflow runs by outcome.",
	}, []string{"outcome"})

	// RevisionsTotal counts revision loops across all runs.
	RevisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "content_engine",
		Name:      "revisions_total",
		Help:      "Editor-requested draft revisions.",
	})

	// QualityScore observes the final quality score of completed runs.
	QualityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "content_engine",
		Name:      "quality_score",
		Help:      "Final editor quality score per completed run.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	// StepDuration observes wall time per workflow step.
	StepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "content_engine",
		Name:      "step_duration_seconds",
		Help:      "Wall time per workflow step.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"step"})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
