package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	UnknownTemplate = "unknown"
)

var (
	Generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nazcraft_generations_total",
			Help: "Total number of site generation attempts by template and outcome",
		},
		[]string{"template", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nazcraft_generation_duration_seconds",
			Help:    "Duration of site generation calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"template"},
	)

	GenerationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nazcraft_generations_in_flight",
			Help: "Number of site generations currently waiting on the model",
		},
	)
)

// ObserveGeneration records one finished generation attempt.
func ObserveGeneration(template, outcome string, elapsed time.Duration) {
	Generations.WithLabelValues(template, outcome).Inc()
	GenerationDuration.WithLabelValues(template).Observe(elapsed.Seconds())
}
