// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package orchestrator

import (
	"sync"

	"github.com/moyuban/moyuban/internal/metrics"
	"github.com/moyuban/moyuban/internal/models"
)

// outputQueueCapacity bounds the materialized messages waiting for the
// host. Sixteen covers minutes of emissions at the tightest cooldowns.
const outputQueueCapacity = 16

// outputQueue is a bounded FIFO that drops the oldest entry on
// overflow. Push never blocks, so the sampler tick stays fast even
// when the host stops pulling.
type outputQueue struct {
	mu       sync.Mutex
	items    []*models.DanmakuMessage
	capacity int
}

func newOutputQueue(capacity int) *outputQueue {
	return &outputQueue{capacity: capacity}
}

func (q *outputQueue) push(m *models.DanmakuMessage) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.capacity {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
		metrics.MessagesDropped.WithLabelValues(metrics.DropQueueFull).Inc()
	}
	q.items = append(q.items, m)
	metrics.OutputQueueDepth.Set(float64(len(q.items)))
}

// pull returns the oldest message, or nil when the queue is empty.
func (q *outputQueue) pull() *models.DanmakuMessage {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	m := q.items[0]
	copy(q.items, q.items[1:])
	q.items[len(q.items)-1] = nil
	q.items = q.items[:len(q.items)-1]
	metrics.OutputQueueDepth.Set(float64(len(q.items)))
	return m
}

func (q *outputQueue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *outputQueue) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	metrics.OutputQueueDepth.Set(0)
}
