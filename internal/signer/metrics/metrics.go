// Package metrics exposes the signer's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements service.Recorder on a Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	authentications  *prometheus.CounterVec
	signRequests     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	chainLength      prometheus.Gauge
	chainNotAfter    prometheus.Gauge
}

// New registers the signer metrics, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		authentications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "remotesign_authentications_total",
			Help: "Total number of client-credentials exchanges",
		}, []string{"result"}), // result: success, failure

		signRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "remotesign_sign_requests_total",
			Help: "Total number of signing requests by outcome",
		}, []string{"result"}),

		upstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "remotesign_upstream_request_duration_seconds",
			Help:    "Duration of calls to the identity provider and signing API",
			Buckets: prometheus.DefBuckets,
		}, []string{"upstream"}), // upstream: token, sign

		chainLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "remotesign_certificate_chain_length",
			Help: "Number of certificates loaded for the most recent signing request",
		}),

		chainNotAfter: factory.NewGauge(prometheus.GaugeOpts{
			Name: "remotesign_certificate_leaf_expiry_timestamp_seconds",
			Help: "Unix timestamp when the leaf signing certificate expires",
		}),
	}
}

// RecordAuthentication records a token exchange outcome.
func (m *Metrics) RecordAuthentication(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.authentications.WithLabelValues(result).Inc()
}

// RecordSign records a signing request outcome.
func (m *Metrics) RecordSign(result string) {
	m.signRequests.WithLabelValues(result).Inc()
}

// ObserveUpstream records the latency of one upstream call.
func (m *Metrics) ObserveUpstream(upstream string, d time.Duration) {
	m.upstreamDuration.WithLabelValues(upstream).Observe(d.Seconds())
}

// SetChainLength records how many certificates were loaded.
func (m *Metrics) SetChainLength(n int) {
	m.chainLength.Set(float64(n))
}

// SetLeafExpiry records the leaf certificate's NotAfter.
func (m *Metrics) SetLeafExpiry(t time.Time) {
	m.chainNotAfter.Set(float64(t.Unix()))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
