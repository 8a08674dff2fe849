// Package metrics exposes the daemon's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegisteredProviders tracks providers currently registered with the
	// decoration service.
	RegisteredProviders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "veneer_decoration_providers",
		Help: "Number of decoration providers currently registered.",
	})

	// DecorationQueries counts Query calls, labelled by hit or miss.
	DecorationQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veneer_decoration_queries_total",
		Help: "Decoration queries served, by result.",
	}, []string{"result"})

	// ChangeEvents counts provider change events fanned out to frontends.
	ChangeEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "veneer_decoration_change_events_total",
		Help: "Decoration change events re-emitted by the service.",
	})

	// WebSocketClients tracks connected editor frontends.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "veneer_websocket_clients",
		Help: "Connected WebSocket clients.",
	})
)
