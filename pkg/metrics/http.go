package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API surface.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewHTTPMetrics registers the request metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status class.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration, requests)
	return &HTTPMetrics{
		duration: duration,
		requests: requests,
	}
}

// ObserveRequest records one completed request.
func (h *HTTPMetrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	method = normalizeLabel(method)
	route = normalizeLabel(route)
	h.duration.WithLabelValues(method, route).Observe(duration.Seconds())
	h.requests.WithLabelValues(method, route, normalizeLabel(status)).Inc()
}

// CheckoutMetrics records payment initiation and capture outcomes.
type CheckoutMetrics struct {
	initiated *prometheus.CounterVec
	captured  *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	initiated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payments_initiated",
		Help: "Payment sessions created, by provider.",
	}, []string{"provider"})
	captured := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payments_captured",
		Help: "Payments captured and recorded, by provider.",
	}, []string{"provider"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payments_failed",
		Help: "Payment attempts that did not complete, by provider.",
	}, []string{"provider"})
	reg.MustRegister(initiated, captured, failed)
	return &CheckoutMetrics{
		initiated: initiated,
		captured:  captured,
		failed:    failed,
	}
}

// IncInitiated increments the initiation counter for the provider.
func (c *CheckoutMetrics) IncInitiated(provider string) {
	if c == nil || c.initiated == nil {
		return
	}
	c.initiated.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncCaptured increments the capture counter for the provider.
func (c *CheckoutMetrics) IncCaptured(provider string) {
	if c == nil || c.captured == nil {
		return
	}
	c.captured.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncFailed increments the failure counter for the provider.
func (c *CheckoutMetrics) IncFailed(provider string) {
	if c == nil || c.failed == nil {
		return
	}
	c.failed.WithLabelValues(normalizeLabel(provider)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
