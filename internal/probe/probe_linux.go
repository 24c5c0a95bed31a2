// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

//go:build linux

package probe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/models"
)

// probeTimeout bounds the xdotool invocation. The sampling period is
// seconds; a stuck display server must not stall the tick.
const probeTimeout = 250 * time.Millisecond

// linuxProber shells out to xdotool on X11. Wayland sessions have no
// portable foreground-window query; they yield nil every tick.
type linuxProber struct {
	warnedWayland bool
}

func newPlatformProber() Prober {
	return &linuxProber{}
}

// Probe implements Prober.
func (p *linuxProber) Probe(ctx context.Context) *models.ActivitySnapshot {
	if os.Getenv("WAYLAND_DISPLAY") != "" && os.Getenv("DISPLAY") == "" {
		if !p.warnedWayland {
			logging.Warn().Msg("wayland session without XWayland, foreground probe unavailable")
			p.warnedWayland = true
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	// One xdotool call emits the pid and the title on two lines.
	out, err := exec.CommandContext(ctx, "xdotool", "getactivewindow", "getwindowpid", "getwindowname").Output()
	if err != nil {
		logging.Debug().Err(err).Msg("xdotool probe failed")
		return nil
	}

	lines := strings.SplitN(strings.TrimRight(string(out), "\n"), "\n", 2)
	if len(lines) < 2 {
		return nil
	}

	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || pid <= 0 {
		return nil
	}
	title := lines[1]

	app := processComm(pid)
	if app == "" {
		return nil
	}

	return buildSnapshot(app, title, time.Now().Unix())
}

// processComm resolves a pid to its short command name via procfs.
func processComm(pid int) string {
	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		logging.Debug().Err(err).Int("pid", pid).Msg("failed to read process comm")
		return ""
	}
	return strings.TrimSpace(string(comm))
}
