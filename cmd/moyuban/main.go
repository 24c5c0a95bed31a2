// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

// Package main runs the Moyuban behavior engine as a standalone
// process.
//
// The engine samples the foreground window, classifies the activity,
// and turns sustained patterns (deep focus, slacking onset, window
// hopping) into short danmaku messages. A desktop overlay normally
// embeds the orchestrator as a library and pulls messages itself; this
// binary exists for development and headless use, printing each
// message to stdout.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - MOYUBAN_* environment variables
//   - Config file (-config flag, $MOYUBAN_CONFIG, or config.yaml)
//   - Built-in defaults
//
// # Flags
//
//	-config path   explicit config file
//	-once          run a single sampling tick, print any message, exit
//	-version       print version and exit
//
// # Signal Handling
//
// SIGINT and SIGTERM stop the pipeline gracefully: the supervisor tree
// shuts its services down and the snapshot store is closed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moyuban/moyuban/internal/config"
	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/orchestrator"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (default: auto-discover)")
	once := flag.Bool("once", false, "run a single sampling tick and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("moyuban", version)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Bool("enabled", cfg.Behavior.Enabled).
		Msg("starting moyuban behavior engine")

	o, err := orchestrator.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build pipeline")
	}
	defer func() {
		if err := o.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing pipeline")
		}
	}()

	if *once {
		runOnce(o)
		return
	}

	if err := o.Start(); err != nil {
		logging.Fatal().Err(err).Msg("failed to start pipeline")
	}

	run(o)

	if err := o.Stop(); err != nil {
		logging.Error().Err(err).Msg("error stopping pipeline")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// run polls for materialized messages and prints them until a
// termination signal arrives.
func run(o *orchestrator.Orchestrator) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("shutting down")
			return
		case <-ticker.C:
			for m := o.PullNextMessage(); m != nil; m = o.PullNextMessage() {
				fmt.Printf("[%s|%s] %s\n", m.Event.Category, m.Tone, m.Text)
			}
		}
	}
}

// runOnce drives a single pipeline tick, useful for probing a setup
// without leaving the engine running.
func runOnce(o *orchestrator.Orchestrator) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if m := o.RunOnce(ctx); m != nil {
		fmt.Printf("[%s|%s] %s\n", m.Event.Category, m.Tone, m.Text)
		return
	}
	fmt.Println("no message this tick")
}
