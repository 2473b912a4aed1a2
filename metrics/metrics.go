// Package metrics exposes Prometheus collectors for the devconnector service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface the HTTP layer writes to.
type Recorder interface {
	RecordGuardDecision(outcome, reason string)
	RecordCredentialFlow(flow, result string)
	RecordEnrichmentLookup(result string, duration time.Duration)
	RecordHTTPRequest(method string, statusCode int, duration time.Duration)
}

// Collector holds the service's Prometheus metrics.
type Collector struct {
	guardDecisions   *prometheus.CounterVec
	credentialFlows  *prometheus.CounterVec
	enrichLookups    *prometheus.CounterVec
	enrichLatency    prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpRequestDelay prometheus.Histogram
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_guard_decisions_total",
			Help: "Authentication guard decisions by outcome and reason.",
		}, []string{"outcome", "reason"}),
		credentialFlows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_credential_flows_total",
			Help: "Registration and login attempts by result.",
		}, []string{"flow", "result"}),
		enrichLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_enrichment_lookups_total",
			Help: "GitHub repository lookups by result.",
		}, []string{"result"}),
		enrichLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "devconnector_enrichment_latency_seconds",
			Help:    "GitHub repository lookup latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_http_requests_total",
			Help: "HTTP responses by method and status code.",
		}, []string{"method", "status_code"}),
		httpRequestDelay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "devconnector_http_request_duration_seconds",
			Help:    "HTTP request handling latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.guardDecisions,
		c.credentialFlows,
		c.enrichLookups,
		c.enrichLatency,
		c.httpRequests,
		c.httpRequestDelay,
	)

	return c
}

// RecordGuardDecision counts one guard decision.
func (c *Collector) RecordGuardDecision(outcome, reason string) {
	c.guardDecisions.WithLabelValues(outcome, reason).Inc()
}

// RecordCredentialFlow counts one register or login attempt.
func (c *Collector) RecordCredentialFlow(flow, result string) {
	c.credentialFlows.WithLabelValues(flow, result).Inc()
}

// RecordEnrichmentLookup counts one GitHub lookup and observes its latency.
func (c *Collector) RecordEnrichmentLookup(result string, duration time.Duration) {
	c.enrichLookups.WithLabelValues(result).Inc()
	c.enrichLatency.Observe(duration.Seconds())
}

// RecordHTTPRequest counts one HTTP response and observes its latency.
func (c *Collector) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpRequestDelay.Observe(duration.Seconds())
}

// Handler serves the gathered metrics in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordGuardDecision(string, string)           {}
func (Nop) RecordCredentialFlow(string, string)          {}
func (Nop) RecordEnrichmentLookup(string, time.Duration) {}
func (Nop) RecordHTTPRequest(string, int, time.Duration) {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
