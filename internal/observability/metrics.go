// Package observability holds the bridge's prometheus collectors and the
// gin middleware that feeds them.
package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bridgectl"

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	reloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Reload requests by target and result.",
		},
		[]string{"target", "result"},
	)
	interactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_total",
			Help:      "Dispatched interactions by whether a translator ran.",
		},
		[]string{"handled"},
	)
	itemsTranslated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_translated_total",
			Help:      "Item translations by item kind.",
		},
		[]string{"kind"},
	)
	outboxDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_dropped_total",
			Help:      "Packets dropped because a session outbox was full.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, reloads, interactions, itemsTranslated, outboxDropped)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// Reload results.
const (
	ReloadOK     = "ok"
	ReloadFailed = "failed"
	ReloadBusy   = "busy"
)

func RecordReload(target, result string) {
	RegisterMetrics()
	reloads.WithLabelValues(target, result).Inc()
}

func RecordInteraction(handled bool) {
	RegisterMetrics()
	interactions.WithLabelValues(strconv.FormatBool(handled)).Inc()
}

func RecordItemTranslated(kind string) {
	RegisterMetrics()
	itemsTranslated.WithLabelValues(kind).Inc()
}

func RecordOutboxDrop() {
	RegisterMetrics()
	outboxDropped.Inc()
}
