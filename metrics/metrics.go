package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "photon"

// Metrics holds the collectors updated by the relay. A nil *Metrics is valid and records nothing.
type Metrics struct {
	sessions    prometheus.Gauge
	packets     *prometheus.CounterVec
	bytes       *prometheus.CounterVec
	cancelled   *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	transfers   *prometheus.CounterVec
	latency     prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Sessions currently relayed.",
		}),
		packets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "packets_total",
			Help:      "Buffers relayed, by direction and packet kind.",
		}, []string{"direction", "kind"}),
		bytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "bytes_total",
			Help:      "Bytes relayed, by direction.",
		}, []string{"direction"}),
		cancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "cancelled_total",
			Help:      "Packets dropped by a processor, by direction.",
		}, []string{"direction"}),
		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "diagnostics_total",
			Help:      "Decode diagnostics, by kind.",
		}, []string{"kind"}),
		transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "transfers_total",
			Help:      "Server transfers, by result.",
		}, []string{"result"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "latency_seconds",
			Help:      "Round trip time measured from echoed pings.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
	}
}

// SessionOpened ...
func (m *Metrics) SessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

// SessionClosed ...
func (m *Metrics) SessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

// Relayed records a buffer of n bytes travelling in direction.
func (m *Metrics) Relayed(direction, kind string, n int) {
	if m == nil {
		return
	}
	m.packets.WithLabelValues(direction, kind).Inc()
	m.bytes.WithLabelValues(direction).Add(float64(n))
}

// Cancelled ...
func (m *Metrics) Cancelled(direction string) {
	if m != nil {
		m.cancelled.WithLabelValues(direction).Inc()
	}
}

// Diagnostic ...
func (m *Metrics) Diagnostic(kind string) {
	if m != nil {
		m.diagnostics.WithLabelValues(kind).Inc()
	}
}

// Transferred records a transfer attempt.
func (m *Metrics) Transferred(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "failed"
	}
	m.transfers.WithLabelValues(result).Inc()
}

// Latency ...
func (m *Metrics) Latency(seconds float64) {
	if m != nil {
		m.latency.Observe(seconds)
	}
}
