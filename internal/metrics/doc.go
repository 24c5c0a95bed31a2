// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

/*
Package metrics instruments the sampling pipeline with Prometheus
collectors.

The overlay itself exposes no scrape endpoint. Collectors register on
the default registry so a host process that embeds the engine can mount
promhttp.Handler() and get the full series without extra wiring:

	http.Handle("/metrics", promhttp.Handler())

Available series:

	moyuban_probe_duration_seconds        histogram  platform probe latency
	moyuban_sampler_ticks_total           counter    labels: outcome (ok, probe_failed, disabled)
	moyuban_snapshot_writes_total         counter    labels: status (ok, error)
	moyuban_danmaku_events_total          counter    labels: category, outcome
	moyuban_event_queue_depth             gauge      pending candidates
	moyuban_output_queue_depth            gauge      materialized messages waiting for pull
	moyuban_messages_dropped_total        counter    labels: reason (queue_full, render_failed)
	moyuban_config_reloads_total          counter    labels: status (ok, rejected)
	moyuban_snapshots_pruned_total        counter    rows removed by retention cleanup

Cardinality stays bounded: every label draws from a closed set (five
event categories, four event outcomes, fixed reasons).
*/
package metrics
