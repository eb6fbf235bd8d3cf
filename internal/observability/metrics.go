package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// monitoring loop.
type Metrics struct {
	CyclesTotal      prometheus.Counter
	CyclesAborted    prometheus.Counter
	RecordsPersisted prometheus.Counter
	AlertsDispatched prometheus.Counter
	DirectiveChanges prometheus.Counter
	LoopRunning      prometheus.Gauge

	CycleDuration prometheus.Histogram

	FetchErrors      *prometheus.CounterVec // label: source={weather,forecast,air_quality,uv,news}
	EnrichmentErrors *prometheus.CounterVec // label: stage={air_quality,trend,consistency,recommendation,news,final}
}

// NewMetrics creates and registers all loop metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CyclesTotal,
		m.CyclesAborted,
		m.RecordsPersisted,
		m.AlertsDispatched,
		m.DirectiveChanges,
		m.LoopRunning,
		m.CycleDuration,
		m.FetchErrors,
		m.EnrichmentErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatesense",
			Name:      "cycles_total",
			Help:      "Total monitoring cycles started.",
		}),
		CyclesAborted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatesense",
			Name:      "cycles_aborted_total",
			Help:      "Cycles abandoned before persisting a record.",
		}),
		RecordsPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatesense",
			Name:      "records_persisted_total",
			Help:      "Completed records appended to the memory store.",
		}),
		AlertsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatesense",
			Name:      "alerts_dispatched_total",
			Help:      "Alerts delivered for elevated-risk cycles.",
		}),
		DirectiveChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatesense",
			Name:      "directive_changes_total",
			Help:      "Control-file changes detected between cycles.",
		}),
		LoopRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climatesense",
			Name:      "loop_running",
			Help:      "1 when the monitoring loop is active, 0 when shut down.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climatesense",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-assess-persist cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climatesense",
			Name:      "fetch_errors_total",
			Help:      "Upstream fetch failures by source.",
		}, []string{"source"}),
		EnrichmentErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climatesense",
			Name:      "enrichment_errors_total",
			Help:      "Degraded enrichment stages by stage.",
		}, []string{"stage"}),
	}
}
