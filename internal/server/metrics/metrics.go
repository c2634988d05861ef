// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespaceMetrics = "gallery"

var (
	registerOnce      sync.Once
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	publishTotal      *prometheus.CounterVec
	publishedEntries  prometheus.Gauge
	assetDeleteErrors prometheus.Counter
)

// MustRegister creates the collectors and registers them together with the
// Go runtime collectors. It is safe to call more than once.
func MustRegister() {
	registerOnce.Do(func() {
		httpRequests = register(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespaceMetrics,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route, method and status code.",
			},
			[]string{"route", "method", "code"},
		))
		httpDuration = register(prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespaceMetrics,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		))
		publishTotal = register(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespaceMetrics,
				Subsystem: "publish",
				Name:      "runs_total",
				Help:      "Manifest publish attempts by result.",
			},
			[]string{"result"},
		))
		publishedEntries = register(prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceMetrics,
			Subsystem: "publish",
			Name:      "entries",
			Help:      "Number of entries in the last published manifest.",
		}))
		assetDeleteErrors = register(prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceMetrics,
			Subsystem: "assets",
			Name:      "delete_failures_total",
			Help:      "Entry deletions whose asset cleanup failed.",
		}))

		register[prometheus.Collector](collectors.NewGoCollector())
		register[prometheus.Collector](collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(route, method string, code int, d time.Duration) {
	if httpRequests == nil {
		return
	}
	route = normalizeLabel(route, "unmatched")
	httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordPublish records a publish attempt; count is ignored on failure.
func RecordPublish(err error, count int) {
	if publishTotal == nil {
		return
	}
	if err != nil {
		publishTotal.WithLabelValues("error").Inc()
		return
	}
	publishTotal.WithLabelValues("ok").Inc()
	publishedEntries.Set(float64(count))
}

// RecordAssetCleanup counts deletions that left orphaned assets behind.
func RecordAssetCleanup(ok bool) {
	if assetDeleteErrors == nil || ok {
		return
	}
	assetDeleteErrors.Inc()
}

func normalizeLabel(value string, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

// register returns the already registered collector when one with the
// same descriptor exists.
func register[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
			return c
		}
		panic(err)
	}
	return c
}
