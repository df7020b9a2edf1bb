// Copyright (c) 2026 FoDBot. All rights reserved.

// Package metrics exposes the bot's Prometheus collectors.
//
// Collectors live on a private registry so several instances can coexist in
// tests. [Metrics.Handler] serves them on the ops server's /metrics route.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fodbot"

// Metrics groups the collectors updated by the gateway router and the
// republish command.
type Metrics struct {
	registry *prometheus.Registry

	reactions    *prometheus.CounterVec
	republishes  *prometheus.CounterVec
	liveMessages prometheus.Gauge
}

// New registers the collectors, plus the Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		reactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaction_events_total",
			Help:      "Reaction events handled in the roles channel, by outcome.",
		}, []string{"outcome"}),
		republishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "republish_runs_total",
			Help:      "Runs of the role message republish command, by result.",
		}, []string{"result"}),
		liveMessages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reaction_index_live_messages",
			Help:      "Role messages currently served by the reaction index.",
		}),
	}

	registry.MustRegister(
		m.reactions,
		m.republishes,
		m.liveMessages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveReaction counts one handled reaction event.
func (m *Metrics) ObserveReaction(outcome string) {
	m.reactions.WithLabelValues(outcome).Inc()
}

// ObserveRepublish counts one republish run. result is "ok", "denied" or "failed".
func (m *Metrics) ObserveRepublish(result string) {
	m.republishes.WithLabelValues(result).Inc()
}

// SetLiveMessages records the size of the freshly built index.
func (m *Metrics) SetLiveMessages(count int) {
	m.liveMessages.Set(float64(count))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
