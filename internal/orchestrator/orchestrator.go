// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/moyuban/moyuban/internal/behavior"
	"github.com/moyuban/moyuban/internal/classify"
	"github.com/moyuban/moyuban/internal/config"
	"github.com/moyuban/moyuban/internal/cooldown"
	"github.com/moyuban/moyuban/internal/database"
	"github.com/moyuban/moyuban/internal/engine"
	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/metrics"
	"github.com/moyuban/moyuban/internal/models"
	"github.com/moyuban/moyuban/internal/probe"
	"github.com/moyuban/moyuban/internal/sampler"
	"github.com/moyuban/moyuban/internal/supervisor"
	"github.com/moyuban/moyuban/internal/templates"
)

// stopTimeout bounds how long Stop waits for the supervisor tree.
const stopTimeout = 15 * time.Second

// Stats aggregates counters from every pipeline stage.
type Stats struct {
	Running          bool                `json:"running"`
	Cooldown         cooldown.Stats      `json:"cooldown"`
	Engine           engine.Stats        `json:"engine"`
	TemplateBank     templates.BankStats `json:"template_bank"`
	OutputQueueDepth int                 `json:"output_queue_depth"`
}

// Orchestrator wires the pipeline together and manages its lifecycle.
type Orchestrator struct {
	mu sync.Mutex

	cfg *config.Config

	db        *database.DB
	apps      *classify.AppClassifier
	domains   *classify.DomainClassifier
	analyzer  *behavior.Analyzer
	cooldowns *cooldown.Manager
	engine    *engine.Engine
	bank      *templates.Store
	sampler   *sampler.Sampler
	janitor   *janitor

	outputs *outputQueue

	running bool
	cancel  context.CancelFunc
	treeErr <-chan error
}

// New builds the full pipeline from configuration, using the platform
// prober for the host OS.
func New(cfg *config.Config) (*Orchestrator, error) {
	return NewWithProber(cfg, probe.NewPlatformProber())
}

// NewWithProber is New with an injected prober; tests use scripted
// probers to drive the pipeline deterministically.
func NewWithProber(cfg *config.Config, prober probe.Prober) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("orchestrator: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	apps, err := classify.NewAppClassifier(cfg.Rules.AppRulesPath)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	domains, err := classify.NewDomainClassifier(cfg.Rules.DomainRulesPath)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	bank, err := templates.NewStore(cfg.Rules.TemplatesPath)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	cooldowns := cooldown.New(cooldownConfig(cfg.Behavior))
	eng := engine.New(cooldowns, cfg.Behavior.TriggerProbability, cfg.Behavior.JitterRangeSec)
	analyzer := behavior.NewAnalyzer(apps, domains, behavior.DefaultThresholds())

	o := &Orchestrator{
		cfg:       cfg,
		db:        db,
		apps:      apps,
		domains:   domains,
		analyzer:  analyzer,
		cooldowns: cooldowns,
		engine:    eng,
		bank:      bank,
		outputs:   newOutputQueue(outputQueueCapacity),
		janitor:   newJanitor(db, cooldowns, cfg.Behavior.RetentionDays),
	}
	o.sampler = sampler.New(prober, db, analyzer, eng, bank,
		cfg.Behavior.CollectionIntervalDuration(), o.outputs.push)
	o.sampler.SetEnabled(cfg.Behavior.Enabled)

	return o, nil
}

// Start launches the supervised pipeline. Calling Start on a running
// orchestrator is a no-op.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return nil
	}

	// A suture supervisor is single-use after Serve returns, so each
	// start builds a fresh tree over the long-lived services.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddPipelineService(o.sampler)
	tree.AddMaintenanceService(o.janitor)

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.treeErr = tree.ServeBackground(ctx)
	o.running = true

	logging.Info().
		Bool("enabled", o.cfg.Behavior.Enabled).
		Int("interval_sec", o.cfg.Behavior.CollectionInterval).
		Msg("behavior engine started")
	return nil
}

// Stop shuts the pipeline down and waits for the services to exit.
// Calling Stop on a stopped orchestrator is a no-op.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.running {
		return nil
	}

	o.cancel()
	select {
	case <-o.treeErr:
	case <-time.After(stopTimeout):
		logging.Error().Msg("supervisor tree did not stop in time")
	}
	o.running = false

	logging.Info().Msg("behavior engine stopped")
	return nil
}

// Close stops the pipeline and releases the snapshot store.
func (o *Orchestrator) Close() error {
	if err := o.Stop(); err != nil {
		return err
	}
	return o.db.Close()
}

// PullNextMessage returns the oldest pending danmaku message, or nil
// when none is waiting. The host overlay polls this.
func (o *Orchestrator) PullNextMessage() *models.DanmakuMessage {
	return o.outputs.pull()
}

// ReloadConfig applies a new configuration atomically: an invalid
// config is rejected as a whole and the running config stays in
// effect. Rule and template files are reloaded before any scalar is
// propagated, so a bad file also rejects the reload.
func (o *Orchestrator) ReloadConfig(next *config.Config) error {
	if next == nil {
		return fmt.Errorf("%w: nil config", config.ErrInvalid)
	}
	if err := next.Validate(); err != nil {
		metrics.ConfigReloads.WithLabelValues("rejected").Inc()
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.reloadRules(next); err != nil {
		metrics.ConfigReloads.WithLabelValues("rejected").Inc()
		return err
	}

	o.sampler.SetInterval(next.Behavior.CollectionIntervalDuration())
	o.sampler.SetEnabled(next.Behavior.Enabled)
	o.engine.UpdateTriggerProbability(next.Behavior.TriggerProbability)
	o.engine.UpdateJitterRange(next.Behavior.JitterRangeSec)
	cd := cooldownConfig(next.Behavior)
	o.cooldowns.UpdateConfig(cd.Global, cd.Category, cd.Tone)
	o.janitor.SetRetentionDays(next.Behavior.RetentionDays)

	o.cfg = next
	metrics.ConfigReloads.WithLabelValues("ok").Inc()

	logging.Info().
		Float64("trigger_probability", next.Behavior.TriggerProbability).
		Int("interval_sec", next.Behavior.CollectionInterval).
		Bool("enabled", next.Behavior.Enabled).
		Msg("configuration reloaded")
	return nil
}

// reloadRules refreshes classifier tables and the template bank when
// their paths changed. Each Reload keeps its previous table on error.
func (o *Orchestrator) reloadRules(next *config.Config) error {
	if next.Rules.AppRulesPath != o.cfg.Rules.AppRulesPath {
		if err := o.apps.Reload(next.Rules.AppRulesPath); err != nil {
			return err
		}
	}
	if next.Rules.DomainRulesPath != o.cfg.Rules.DomainRulesPath {
		if err := o.domains.Reload(next.Rules.DomainRulesPath); err != nil {
			return err
		}
	}
	if next.Rules.TemplatesPath != o.cfg.Rules.TemplatesPath {
		if err := o.bank.Reload(next.Rules.TemplatesPath); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports counters from every stage plus queue depth.
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	running := o.running
	o.mu.Unlock()

	return Stats{
		Running:          running,
		Cooldown:         o.cooldowns.StatsSnapshot(),
		Engine:           o.engine.StatsSnapshot(),
		TemplateBank:     o.bank.Stats(),
		OutputQueueDepth: o.outputs.depth(),
	}
}

// SnapshotStats reports persisted snapshot counts from the store.
func (o *Orchestrator) SnapshotStats(ctx context.Context) (models.SnapshotStats, error) {
	return o.db.Stats(ctx)
}

// RunOnce drives a single pipeline tick synchronously, bypassing the
// service loop. Used by the CLI's one-shot mode.
func (o *Orchestrator) RunOnce(ctx context.Context) *models.DanmakuMessage {
	o.sampler.Tick(ctx)
	return o.outputs.pull()
}

// cooldownConfig converts the config's integer seconds to durations.
func cooldownConfig(b config.BehaviorConfig) cooldown.Config {
	return cooldown.Config{
		Global:   time.Duration(b.GlobalCooldown) * time.Second,
		Category: time.Duration(b.CategoryCooldown) * time.Second,
		Tone:     time.Duration(b.ToneCooldown) * time.Second,
	}
}
