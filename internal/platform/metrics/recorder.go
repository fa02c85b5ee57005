package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "petanque_league"

// Outcome labels for a sync cycle.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeConflict = "conflict"
	OutcomeSkipped  = "skipped"
)

// Recorder owns the Prometheus registry for the service. A nil Recorder is a no-op.
type Recorder struct {
	registry *prometheus.Registry

	syncCycles       *prometheus.CounterVec
	syncDuration     prometheus.Histogram
	datesChanged     prometheus.Counter
	resultsAdded     prometheus.Counter
	resultsCorrected prometheus.Counter
	parseWarnings    prometheus.Counter
	fetchFailures    prometheus.Counter
	httpRequests     *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: reg,
		syncCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_cycles_total",
			Help:      "Schedule sync cycles by outcome.",
		}, []string{"outcome"}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_cycle_duration_seconds",
			Help:      "Wall time of a schedule sync cycle.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		datesChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_dates_changed_total",
			Help:      "Fixture dates changed by sync.",
		}),
		resultsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_results_added_total",
			Help:      "Match results created by sync.",
		}),
		resultsCorrected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_results_corrected_total",
			Help:      "Match results corrected by sync.",
		}),
		parseWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_warnings_total",
			Help:      "Row level parse and merge warnings.",
		}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_fetch_failures_total",
			Help:      "Failed fetches of the official schedule page.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status class.",
		}, []string{"route", "status"}),
	}

	reg.MustRegister(
		r.syncCycles,
		r.syncDuration,
		r.datesChanged,
		r.resultsAdded,
		r.resultsCorrected,
		r.parseWarnings,
		r.fetchFailures,
		r.httpRequests,
	)

	return r
}

// SyncCycle records the counters of one finished cycle.
func (r *Recorder) SyncCycle(outcome string, duration time.Duration, datesChanged, resultsAdded, resultsCorrected, warnings int) {
	if r == nil {
		return
	}
	r.syncCycles.WithLabelValues(outcome).Inc()
	r.syncDuration.Observe(duration.Seconds())
	r.datesChanged.Add(float64(datesChanged))
	r.resultsAdded.Add(float64(resultsAdded))
	r.resultsCorrected.Add(float64(resultsCorrected))
	r.parseWarnings.Add(float64(warnings))
}

func (r *Recorder) FetchFailure() {
	if r == nil {
		return
	}
	r.fetchFailures.Inc()
}

func (r *Recorder) HTTPRequest(route string, status int) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, statusClass(status)).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
