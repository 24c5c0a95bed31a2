// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package sampler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/moyuban/moyuban/internal/behavior"
	"github.com/moyuban/moyuban/internal/engine"
	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/metrics"
	"github.com/moyuban/moyuban/internal/models"
	"github.com/moyuban/moyuban/internal/probe"
	"github.com/moyuban/moyuban/internal/templates"
)

// SnapshotWriter persists activity snapshots.
//
// Satisfied by *database.DB.
type SnapshotWriter interface {
	InsertSnapshot(ctx context.Context, s *models.ActivitySnapshot) error
}

// EmitFunc receives each materialized message. Implementations must
// not block; the orchestrator's implementation drops the oldest
// message when its queue is full.
type EmitFunc func(*models.DanmakuMessage)

// Sampler is the supervised sampling loop.
type Sampler struct {
	prober   probe.Prober
	store    SnapshotWriter
	analyzer *behavior.Analyzer
	engine   *engine.Engine
	bank     *templates.Store
	emit     EmitFunc

	// interval is the tick period in nanoseconds; atomic so config
	// reload can change it without stopping the loop. The new period
	// takes effect after the current tick.
	interval atomic.Int64

	// enabled gates the pipeline without tearing the service down.
	enabled atomic.Bool
}

// New creates a sampler ticking at the given interval.
func New(prober probe.Prober, store SnapshotWriter, analyzer *behavior.Analyzer,
	eng *engine.Engine, bank *templates.Store, interval time.Duration, emit EmitFunc,
) *Sampler {
	s := &Sampler{
		prober:   prober,
		store:    store,
		analyzer: analyzer,
		engine:   eng,
		bank:     bank,
		emit:     emit,
	}
	s.interval.Store(int64(interval))
	s.enabled.Store(true)
	return s
}

// SetInterval changes the tick period. Takes effect after the tick
// currently being waited on.
func (s *Sampler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.interval.Store(int64(d))
}

// SetEnabled pauses or resumes the pipeline. A paused sampler keeps
// ticking but does nothing per tick, so resume is immediate.
func (s *Sampler) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

// Serve implements suture.Service. It ticks until the context is
// canceled and always stops within one interval of cancellation.
func (s *Sampler) Serve(ctx context.Context) error {
	logging.Info().
		Dur("interval", s.intervalDur()).
		Msg("activity sampler started")

	timer := time.NewTimer(s.intervalDur())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("activity sampler stopped")
			return ctx.Err()
		case <-timer.C:
			s.Tick(ctx)
			timer.Reset(s.intervalDur())
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *Sampler) String() string {
	return "activity-sampler"
}

// Tick runs one full pipeline pass. Exported so the CLI's one-shot
// mode can drive the pipeline without the service loop.
func (s *Sampler) Tick(ctx context.Context) {
	if !s.enabled.Load() {
		metrics.RecordTick("disabled")
		return
	}

	start := time.Now()
	snapshot := s.prober.Probe(ctx)
	metrics.ObserveProbe(time.Since(start))
	if snapshot == nil {
		metrics.RecordTick("probe_failed")
		logging.Debug().Msg("foreground probe returned nothing, skipping tick")
		return
	}

	if err := s.store.InsertSnapshot(ctx, snapshot); err != nil {
		// Analysis only needs the in-memory snapshot; keep going.
		metrics.RecordSnapshotWrite(err)
		logging.Warn().Err(err).Msg("failed to persist activity snapshot")
	} else {
		metrics.RecordSnapshotWrite(nil)
	}

	info := s.analyzer.Analyze(snapshot)
	s.engine.ProcessBehavior(info)

	for _, event := range s.engine.Consume(1) {
		s.materialize(event)
	}
	metrics.RecordTick("ok")
}

// materialize renders one admitted event and hands it to the emit
// callback. Render failures drop the event; its cooldown slot is
// already spent, which keeps admission accounting simple.
func (s *Sampler) materialize(event *models.DanmakuEvent) {
	tone := models.TrendDefaultTone[event.Category]
	text, used, err := s.bank.Materialize(event, tone)
	if err != nil {
		metrics.MessagesDropped.WithLabelValues(metrics.DropRenderFailed).Inc()
		return
	}

	logging.Info().
		Str("event_id", event.ID.String()).
		Str("category", string(event.Category)).
		Str("tone", string(used)).
		Str("text", text).
		Msg("danmaku message ready")

	s.emit(&models.DanmakuMessage{Event: event, Text: text, Tone: used})
}

func (s *Sampler) intervalDur() time.Duration {
	return time.Duration(s.interval.Load())
}
