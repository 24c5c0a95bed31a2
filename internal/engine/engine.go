// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package engine

import (
	"container/heap"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moyuban/moyuban/internal/cooldown"
	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/metrics"
	"github.com/moyuban/moyuban/internal/models"
)

// Placeholders substituted for fields a snapshot could not provide.
// Template rendering never sees an empty string.
const (
	unknownDomainPlaceholder = "未知网站"
	unknownAppPlaceholder    = "未知应用"
)

// Stats are the engine's pipeline counters.
type Stats struct {
	Enqueued                int64 `json:"enqueued"`
	Emitted                 int64 `json:"emitted"`
	SuppressedByProbability int64 `json:"suppressed_by_probability"`
	SuppressedByCooldown    int64 `json:"suppressed_by_cooldown"`
	QueueDepth              int   `json:"queue_depth"`
}

// Engine turns qualifying behavior trends into danmaku events. Safe for
// concurrent use.
type Engine struct {
	mu sync.Mutex

	queue eventQueue
	seq   uint64

	triggerProbability float64
	jitterRangeSec     int64

	cooldowns *cooldown.Manager

	stats Stats

	// rng drives the probability gate and the jitter; injectable so
	// tests can pin outcomes. Guarded by mu: rand.Rand is not
	// goroutine-safe.
	rng *rand.Rand
}

// New creates an engine over the given cooldown manager.
func New(cooldowns *cooldown.Manager, triggerProbability float64, jitterRangeSec int) *Engine {
	return &Engine{
		triggerProbability: clampProbability(triggerProbability),
		jitterRangeSec:     int64(max(jitterRangeSec, 0)),
		cooldowns:          cooldowns,
		rng:                rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // jitter, not crypto
	}
}

// ProcessBehavior evaluates one analyzer result. A none trend is not an
// event. Qualifying trends pass a probability gate before enqueueing;
// suppressed candidates are counted and never retried.
func (e *Engine) ProcessBehavior(info *models.BehaviorInfo) {
	if info == nil || info.Trend == models.TrendNone {
		return
	}

	priority, ok := models.TrendPriority[info.Trend]
	if !ok {
		logging.Warn().Str("trend", string(info.Trend)).Msg("trend has no priority mapping, dropping")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rng.Float64() >= e.triggerProbability {
		e.stats.SuppressedByProbability++
		metrics.RecordEvent(string(info.Trend), metrics.OutcomeSuppressedProbability)
		return
	}

	event := &models.DanmakuEvent{
		ID:        uuid.New(),
		Category:  info.Trend,
		Priority:  priority,
		Context:   BuildContext(info),
		Timestamp: info.Timestamp,
		Behavior:  info,
	}

	e.seq++
	heap.Push(&e.queue, &queuedEvent{event: event, seq: e.seq})
	e.stats.Enqueued++
	metrics.RecordEvent(string(info.Trend), metrics.OutcomeEnqueued)
	metrics.EventQueueDepth.Set(float64(e.queue.Len()))

	logging.Debug().
		Str("event_id", event.ID.String()).
		Str("category", string(event.Category)).
		Int("priority", int(event.Priority)).
		Msg("danmaku candidate enqueued")
}

// Consume pops up to maxEvents candidates in priority order and returns
// the ones the cooldown manager admits. Admitted events get a jittered
// emission timestamp and are recorded against their category and
// default tone. Rejected candidates are dropped, not requeued.
func (e *Engine) Consume(maxEvents int) []*models.DanmakuEvent {
	if maxEvents <= 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*models.DanmakuEvent
	for popped := 0; popped < maxEvents && e.queue.Len() > 0; popped++ {
		qe := heap.Pop(&e.queue).(*queuedEvent)
		event := qe.event

		tone := models.TrendDefaultTone[event.Category]
		if !e.cooldowns.CanShow(event.Category, tone) {
			e.stats.SuppressedByCooldown++
			metrics.RecordEvent(string(event.Category), metrics.OutcomeSuppressedCooldown)
			logging.Debug().
				Str("category", string(event.Category)).
				Str("tone", string(tone)).
				Msg("danmaku candidate suppressed by cooldown")
			continue
		}

		event.Timestamp += e.jitter()
		e.cooldowns.Record(event.Category, tone)
		e.stats.Emitted++
		metrics.RecordEvent(string(event.Category), metrics.OutcomeEmitted)
		out = append(out, event)
	}
	metrics.EventQueueDepth.Set(float64(e.queue.Len()))
	return out
}

// jitter returns a uniform offset in [-jitterRangeSec, +jitterRangeSec].
// Caller holds mu.
func (e *Engine) jitter() int64 {
	if e.jitterRangeSec == 0 {
		return 0
	}
	return e.rng.Int63n(2*e.jitterRangeSec+1) - e.jitterRangeSec
}

// ClearQueue discards all pending candidates.
func (e *Engine) ClearQueue() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = e.queue[:0]
	metrics.EventQueueDepth.Set(0)
}

// QueueDepth reports the number of pending candidates.
func (e *Engine) QueueDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

// UpdateTriggerProbability replaces the gate probability, clamped to
// [0, 1]. Takes effect on the next ProcessBehavior call.
func (e *Engine) UpdateTriggerProbability(p float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.triggerProbability = clampProbability(p)
}

// UpdateJitterRange replaces the jitter half-range in seconds. Negative
// values are treated as zero.
func (e *Engine) UpdateJitterRange(sec int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jitterRangeSec = int64(max(sec, 0))
}

// StatsSnapshot returns a copy of the pipeline counters with the
// current queue depth filled in.
func (e *Engine) StatsSnapshot() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.QueueDepth = e.queue.Len()
	return s
}

// BuildContext materializes the template variable map for one behavior
// result. Every key in models.ContextKeys is present and non-empty.
func BuildContext(info *models.BehaviorInfo) map[string]string {
	app := info.App
	if app == "" {
		app = unknownAppPlaceholder
	}
	domain := info.Domain
	if domain == "" {
		domain = unknownDomainPlaceholder
	}
	return map[string]string{
		"app":             app,
		"app_type":        string(info.AppType),
		"app_type_name":   info.AppType.Name(),
		"domain":          domain,
		"domain_category": string(info.DomainCategory),
		"mode":            string(info.Mode),
		"mode_name":       info.Mode.Name(),
		"trend":           string(info.Trend),
		"duration_sec":    strconv.FormatInt(info.ActiveDurationSec, 10),
		"duration_min":    strconv.FormatInt(info.ActiveDurationSec/60, 10),
	}
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// queuedEvent pairs an event with its arrival sequence so equal
// priorities pop in FIFO order.
type queuedEvent struct {
	event *models.DanmakuEvent
	seq   uint64
}

// eventQueue is a min-heap on (priority, seq).
type eventQueue []*queuedEvent

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].event.Priority != q[j].event.Priority {
		return q[i].event.Priority < q[j].event.Priority
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*queuedEvent)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
