// Package metrics provides the centralized Prometheus registry for the
// keiba predictor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_predictor",
		Name:      "evaluations_total",
		Help:      "Total number of race evaluations",
	})
	EvaluationErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_predictor",
		Name:      "evaluation_errors_total",
		Help:      "Total number of failed race evaluations",
	})
	EntriesDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_predictor",
		Name:      "entries_dropped_total",
		Help:      "Total number of entries dropped during card validation",
	})
	PaceLogParseFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_predictor",
		Name:      "pace_log_parse_failures_total",
		Help:      "Total number of past-race pace logs that yielded no features",
	})
	PaceForecastsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba_predictor",
		Name:      "pace_forecasts_total",
		Help:      "Race pace forecasts by label",
	}, []string{"forecast"})
	BettingPlansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_predictor",
		Name:      "betting_plans_total",
		Help:      "Total number of betting plans generated",
	})
)

// Gauge metrics
var (
	DarkHorseEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba_predictor",
		Name:      "dark_horse_entries",
		Help:      "Number of curated dark-horse entries loaded",
	})
	LastFieldSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba_predictor",
		Name:      "last_field_size",
		Help:      "Number of horses on the most recently evaluated card",
	})
)

// Histogram metrics
var (
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "keiba_predictor",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of full race evaluations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "keiba_predictor",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of race card fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(EvaluationErrorsTotal)
		registry.MustRegister(EntriesDroppedTotal)
		registry.MustRegister(PaceLogParseFailuresTotal)
		registry.MustRegister(PaceForecastsTotal)
		registry.MustRegister(BettingPlansTotal)

		registry.MustRegister(DarkHorseEntries)
		registry.MustRegister(LastFieldSize)

		registry.MustRegister(EvaluationDuration)
		registry.MustRegister(FetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEvaluation records a completed race evaluation.
func RecordEvaluation(durationSeconds float64, fieldSize int, paceForecast string) {
	EvaluationsTotal.Inc()
	EvaluationDuration.Observe(durationSeconds)
	LastFieldSize.Set(float64(fieldSize))
	PaceForecastsTotal.WithLabelValues(paceForecast).Inc()
}

// RecordEvaluationError records a failed race evaluation.
func RecordEvaluationError() {
	EvaluationErrorsTotal.Inc()
}

// RecordEntryDropped records an entry removed during card validation.
func RecordEntryDropped() {
	EntriesDroppedTotal.Inc()
}

// RecordBettingPlan records a generated betting plan.
func RecordBettingPlan() {
	BettingPlansTotal.Inc()
}

// RecordFetch records a race card fetch.
func RecordFetch(durationSeconds float64) {
	FetchDuration.Observe(durationSeconds)
}
