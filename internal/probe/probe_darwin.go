// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

//go:build darwin

package probe

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/models"
)

const probeTimeout = 250 * time.Millisecond

// frontmostScript returns "<process name>\n<window title>"; the title
// line is empty when the app has no windows.
const frontmostScript = `
tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	set windowTitle to ""
	try
		set windowTitle to name of front window of frontApp
	end try
end tell
return appName & "\n" & windowTitle`

// darwinProber queries System Events through osascript.
type darwinProber struct{}

func newPlatformProber() Prober {
	return &darwinProber{}
}

// Probe implements Prober.
func (p *darwinProber) Probe(ctx context.Context) *models.ActivitySnapshot {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "osascript", "-e", frontmostScript).Output()
	if err != nil {
		logging.Debug().Err(err).Msg("osascript probe failed")
		return nil
	}

	lines := strings.SplitN(strings.TrimRight(string(out), "\n"), "\n", 2)
	app := strings.TrimSpace(lines[0])
	if app == "" {
		return nil
	}
	title := ""
	if len(lines) > 1 {
		title = lines[1]
	}

	return buildSnapshot(app, title, time.Now().Unix())
}
