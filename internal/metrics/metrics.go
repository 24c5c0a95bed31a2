// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Event outcome label values for DanmakuEvents.
const (
	OutcomeEnqueued              = "enqueued"
	OutcomeEmitted               = "emitted"
	OutcomeSuppressedProbability = "suppressed_probability"
	OutcomeSuppressedCooldown    = "suppressed_cooldown"
)

// Drop reason label values for MessagesDropped.
const (
	DropQueueFull    = "queue_full"
	DropRenderFailed = "render_failed"
)

var (
	// Probe metrics
	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moyuban_probe_duration_seconds",
			Help:    "Duration of foreground window probes in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// Sampler metrics
	SamplerTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moyuban_sampler_ticks_total",
			Help: "Total number of sampling ticks by outcome",
		},
		[]string{"outcome"}, // "ok", "probe_failed", "disabled"
	)

	SnapshotWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moyuban_snapshot_writes_total",
			Help: "Total number of activity snapshot persistence attempts",
		},
		[]string{"status"}, // "ok", "error"
	)

	// Event engine metrics
	DanmakuEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moyuban_danmaku_events_total",
			Help: "Total number of danmaku candidates by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	EventQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moyuban_event_queue_depth",
			Help: "Current number of pending danmaku candidates",
		},
	)

	// Output metrics
	OutputQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moyuban_output_queue_depth",
			Help: "Current number of materialized messages waiting to be pulled",
		},
	)

	MessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moyuban_messages_dropped_total",
			Help: "Total number of messages dropped before display",
		},
		[]string{"reason"}, // "queue_full", "render_failed"
	)

	// Lifecycle metrics
	ConfigReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moyuban_config_reloads_total",
			Help: "Total number of configuration reload attempts",
		},
		[]string{"status"}, // "ok", "rejected"
	)

	SnapshotsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moyuban_snapshots_pruned_total",
			Help: "Total number of snapshot rows removed by retention cleanup",
		},
	)
)

// ObserveProbe records one probe attempt.
func ObserveProbe(d time.Duration) {
	ProbeDuration.Observe(d.Seconds())
}

// RecordTick records one sampling tick with its outcome.
func RecordTick(outcome string) {
	SamplerTicks.WithLabelValues(outcome).Inc()
}

// RecordSnapshotWrite records one persistence attempt.
func RecordSnapshotWrite(err error) {
	if err != nil {
		SnapshotWrites.WithLabelValues("error").Inc()
		return
	}
	SnapshotWrites.WithLabelValues("ok").Inc()
}

// RecordEvent records one candidate outcome for a category.
func RecordEvent(category, outcome string) {
	DanmakuEvents.WithLabelValues(category, outcome).Inc()
}
