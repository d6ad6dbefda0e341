// Package observability exposes the Prometheus collectors of the relay.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chat_relay"

const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"

	AttachmentUploaded      = "uploaded"
	AttachmentFailed        = "failed"
	AttachmentReclaimed     = "reclaimed"
	AttachmentReclaimFailed = "reclaim_failed"
)

type Metrics struct {
	ConnectionsActive prometheus.Gauge
	Handshakes        *prometheus.CounterVec
	EventsEmitted     *prometheus.CounterVec
	EventsDropped     *prometheus.CounterVec
	Attachments       *prometheus.CounterVec
	ProcessRSS        prometheus.Gauge
	ProcessCPU        prometheus.Gauge
}

// NewMetrics registers every collector on reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of authenticated live connections",
		}),
		Handshakes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_total",
			Help:      "Connection handshakes by result",
		}, []string{"result"}),
		EventsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_emitted_total",
			Help:      "Events handed to a connection sink",
		}, []string{"event"}),
		EventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events a connection sink could not accept",
		}, []string{"event"}),
		Attachments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attachments_total",
			Help:      "Attachment offload operations by result",
		}, []string{"result"}),
		ProcessRSS: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_rss_bytes",
			Help:      "Resident memory of the relay process",
		}),
		ProcessCPU: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "CPU usage of the relay process",
		}),
	}
}
