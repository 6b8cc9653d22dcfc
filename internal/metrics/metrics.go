package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/semihalev/duckflat"
)

// Collector records executed queries. It implements duckflat.QueryObserver.
type Collector struct {
	registry *prometheus.Registry

	// QueriesTotal counts queries by engine and outcome.
	QueriesTotal *prometheus.CounterVec
	// RowsTotal counts rows marshaled into results.
	RowsTotal *prometheus.CounterVec
	// ResultBytes is the size of marshaled result buffers.
	ResultBytes *prometheus.HistogramVec
	// QueryDuration is the end to end latency of Execute.
	QueryDuration *prometheus.HistogramVec
}

// New creates a collector on its own registry, with the Go runtime and
// process collectors attached.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duckflat_queries_total",
				Help: "Total number of executed queries",
			},
			[]string{"engine", "status"},
		),
		RowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duckflat_result_rows_total",
				Help: "Total number of rows marshaled into results",
			},
			[]string{"engine"},
		),
		ResultBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "duckflat_result_bytes",
				Help:    "Size of marshaled result buffers in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 4, 10),
			},
			[]string{"engine"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "duckflat_query_duration_seconds",
				Help:    "Query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"engine"},
		),
	}
}

// Status returns the status label for a query error.
func Status(err error) string {
	if err == nil {
		return "success"
	}
	var flatErr *duckflat.Error
	if !errors.As(err, &flatErr) {
		return "error"
	}
	switch flatErr.Type {
	case duckflat.ErrQuery:
		return "query_error"
	case duckflat.ErrUnsupportedType:
		return "unsupported_type"
	case duckflat.ErrAlloc:
		return "alloc_error"
	case duckflat.ErrConnection:
		return "connection_error"
	case duckflat.ErrClosed:
		return "closed"
	default:
		return "error"
	}
}

// ObserveQuery records one query.
func (c *Collector) ObserveQuery(stats duckflat.QueryStats) {
	engine := stats.Engine
	if engine == "" {
		engine = "unknown"
	}

	c.QueriesTotal.WithLabelValues(engine, Status(stats.Err)).Inc()
	c.QueryDuration.WithLabelValues(engine).Observe(stats.Duration.Seconds())
	if stats.Err != nil {
		return
	}
	c.RowsTotal.WithLabelValues(engine).Add(float64(stats.Rows))
	c.ResultBytes.WithLabelValues(engine).Observe(float64(stats.Bytes))
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the Prometheus HTTP handler for /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
