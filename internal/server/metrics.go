package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	SessionsActive  prometheus.Gauge
	SessionsCreated prometheus.Counter
	SessionsReaped  prometheus.Counter
	Connections     prometheus.Gauge
	Moves           *prometheus.CounterVec
	GamesFinished   *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "klondike",
			Name:      "sessions_active",
			Help:      "Game sessions currently held by the server.",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "klondike",
			Name:      "sessions_created_total",
			Help:      "Game sessions created.",
		}),
		SessionsReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "klondike",
			Name:      "sessions_reaped_total",
			Help:      "Game sessions removed after sitting idle.",
		}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "klondike",
			Name:      "connections",
			Help:      "Open WebSocket connections.",
		}),
		Moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "klondike",
			Name:      "moves_total",
			Help:      "Move requests by result (accepted or the rejection reason).",
		}, []string{"result"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "klondike",
			Name:      "games_finished_total",
			Help:      "Games that reached a terminal outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.SessionsActive,
		m.SessionsCreated,
		m.SessionsReaped,
		m.Connections,
		m.Moves,
		m.GamesFinished,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
