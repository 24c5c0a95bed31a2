// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package orchestrator

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/moyuban/moyuban/internal/cooldown"
	"github.com/moyuban/moyuban/internal/database"
	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/metrics"
)

// janitor is the maintenance-layer service: it bounds cooldown state
// every minute and prunes expired snapshots once a day (and once at
// startup, so a long-stopped installation trims immediately).
type janitor struct {
	db        *database.DB
	cooldowns *cooldown.Manager

	retentionDays atomic.Int64

	// checkInterval is shortened in tests.
	checkInterval time.Duration
	pruneInterval time.Duration
}

func newJanitor(db *database.DB, cooldowns *cooldown.Manager, retentionDays int) *janitor {
	j := &janitor{
		db:            db,
		cooldowns:     cooldowns,
		checkInterval: time.Minute,
		pruneInterval: 24 * time.Hour,
	}
	j.retentionDays.Store(int64(retentionDays))
	return j
}

// SetRetentionDays changes the pruning horizon; used by config reload.
func (j *janitor) SetRetentionDays(days int) {
	if days > 0 {
		j.retentionDays.Store(int64(days))
	}
}

// Serve implements suture.Service.
func (j *janitor) Serve(ctx context.Context) error {
	j.prune(ctx)
	lastPrune := time.Now()

	ticker := time.NewTicker(j.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.cooldowns.Cleanup(time.Hour)
			if time.Since(lastPrune) >= j.pruneInterval {
				j.prune(ctx)
				lastPrune = time.Now()
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (j *janitor) String() string {
	return "retention-janitor"
}

func (j *janitor) prune(ctx context.Context) {
	days := int(j.retentionDays.Load())
	removed, err := j.db.Cleanup(ctx, days)
	if err != nil {
		logging.Error().Err(err).Int("retention_days", days).Msg("snapshot retention cleanup failed")
		return
	}
	if removed > 0 {
		metrics.SnapshotsPruned.Add(float64(removed))
		logging.Info().Int64("removed", removed).Int("retention_days", days).Msg("pruned expired snapshots")
	}
}
