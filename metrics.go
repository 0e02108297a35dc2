/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"

	"github.com/Seednode/teleprompter/session"
	"github.com/prometheus/client_golang/prometheus"
)

// Event types counted under their own label. Anything else a client
// invents is counted as "other" to keep the label set bounded.
var knownEvents = map[string]bool{
	session.TypeLoad:         true,
	session.TypeSetPosition:  true,
	session.TypeSetFontSize:  true,
	session.TypeScroll:       true,
	session.TypeSetFont:      true,
	session.TypeSetUppercase: true,
	"jump":                   true,
	"flip":                   true,
	"fit_to_screen":          true,
}

// metrics exports session activity to Prometheus. A nil *metrics records
// nothing.
type metrics struct {
	prompters      prometheus.Gauge
	scriptLen      prometheus.Gauge
	events         *prometheus.CounterVec
	dropped        prometheus.Counter
	uploads        prometheus.Counter
	slowDisconnect prometheus.Counter
}

func newMetrics(namespace string, reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		prompters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "prompters",
			Help:      "Connections currently joined as prompters.",
		}),
		scriptLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "script_paragraphs",
			Help:      "Paragraphs in the loaded script.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "control_events_total",
			Help:      "Control events relayed to prompters, by type.",
		}, []string{"type"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_events_total",
			Help:      "Control events discarded for having no type.",
		}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Scripts uploaded.",
		}),
		slowDisconnect: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slow_disconnects_total",
			Help:      "Connections dropped for not keeping up with broadcasts.",
		}),
	}

	for _, c := range []prometheus.Collector{m.prompters, m.scriptLen, m.events, m.dropped, m.uploads, m.slowDisconnect} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register session metrics: %w", err)
		}
	}

	return m, nil
}

func (m *metrics) Event(kind string) {
	if m == nil {
		return
	}
	if !knownEvents[kind] {
		kind = "other"
	}
	m.events.WithLabelValues(kind).Inc()
}

func (m *metrics) Dropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

func (m *metrics) Uploaded(paragraphs int) {
	if m == nil {
		return
	}
	m.uploads.Inc()
	m.ScriptLoaded(paragraphs)
}

// ScriptLoaded tracks the script length after any load, uploaded or sent
// by a client.
func (m *metrics) ScriptLoaded(paragraphs int) {
	if m == nil {
		return
	}
	m.scriptLen.Set(float64(paragraphs))
}

func (m *metrics) Prompters(n int) {
	if m == nil {
		return
	}
	m.prompters.Set(float64(n))
}

func (m *metrics) recordSlowConnection() {
	if m == nil {
		return
	}
	m.slowDisconnect.Inc()
}

var _ session.Observer = (*metrics)(nil)
