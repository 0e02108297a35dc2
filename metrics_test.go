/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordsSessionActivity(t *testing.T) {
	m, err := newMetrics("test", prometheus.NewRegistry())
	require.NoError(t, err)

	m.Event("scroll")
	m.Event("scroll")
	m.Event("jump")
	m.Event("made_up_by_a_client")
	m.Dropped()
	m.Uploaded(12)
	m.Prompters(3)
	m.recordSlowConnection()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("scroll")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("jump")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("other")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.scriptLen))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.prompters))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slowDisconnect))
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := newMetrics("dup", reg)
	require.NoError(t, err)

	_, err = newMetrics("dup", reg)
	assert.Error(t, err)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics

	assert.NotPanics(t, func() {
		m.Event("scroll")
		m.Dropped()
		m.Uploaded(1)
		m.ScriptLoaded(1)
		m.Prompters(1)
		m.recordSlowConnection()
	})
}

func TestMetricsScriptLoadedKeepsUploadCount(t *testing.T) {
	m, err := newMetrics("load", prometheus.NewRegistry())
	require.NoError(t, err)

	m.Uploaded(4)
	m.ScriptLoaded(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.scriptLen))
}
