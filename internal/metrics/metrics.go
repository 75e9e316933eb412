// Package metrics exposes Prometheus collectors for the gateway and webhook delivery.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "commerce_gateway"

// Rate limit decision outcomes
const (
	RateLimitAllowed  = "allowed"
	RateLimitDenied   = "denied"
	RateLimitFailOpen = "fail_open"
)

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

// Metrics holds the registered collectors
type Metrics struct {
	gatherer prometheus.Gatherer

	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	rateLimitDecisions *prometheus.CounterVec
	deliveryAttempts   *prometheus.CounterVec
	deliveryDuration   *prometheus.HistogramVec
	usageDropped       prometheus.Counter
}

// New creates the collectors and registers them with reg
func New(reg interface {
	prometheus.Registerer
	prometheus.Gatherer
}) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of public API requests.",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Histogram of public API request durations in seconds.",
				Buckets:   durationBuckets,
			},
			[]string{"route", "method"},
		),
		rateLimitDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_decisions_total",
				Help:      "Rate limit decisions by plan and outcome.",
			},
			[]string{"plan", "outcome"},
		),
		deliveryAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_delivery_attempts_total",
				Help:      "Webhook delivery attempts by event type and result.",
			},
			[]string{"event", "result"},
		),
		deliveryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "webhook_delivery_duration_seconds",
				Help:      "Histogram of webhook delivery attempt durations in seconds.",
				Buckets:   durationBuckets,
			},
			[]string{"event"},
		),
		usageDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "usage_entries_dropped_total",
				Help:      "Usage log entries dropped because the recorder queue was full.",
			},
		),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.rateLimitDecisions,
		m.deliveryAttempts,
		m.deliveryDuration,
		m.usageDropped,
	)
	return m
}

// ObserveRequest records a completed public API request
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveRateLimit records a rate limit decision
func (m *Metrics) ObserveRateLimit(plan, outcome string) {
	if m == nil {
		return
	}
	m.rateLimitDecisions.WithLabelValues(plan, outcome).Inc()
}

// ObserveDelivery records one webhook delivery attempt
func (m *Metrics) ObserveDelivery(eventType string, success bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.deliveryAttempts.WithLabelValues(eventType, result).Inc()
	m.deliveryDuration.WithLabelValues(eventType).Observe(d.Seconds())
}

// UsageDropped counts a usage entry lost to a full queue
func (m *Metrics) UsageDropped() {
	if m == nil {
		return
	}
	m.usageDropped.Inc()
}

// Handler serves the registered metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
