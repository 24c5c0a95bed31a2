// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package probe

import (
	"context"
	"regexp"
	"strings"

	"github.com/moyuban/moyuban/internal/models"
)

// Prober returns the current foreground-window snapshot, or nil if no
// foreground window exists or the query fails. Implementations must
// never panic across this boundary.
type Prober interface {
	Probe(ctx context.Context) *models.ActivitySnapshot
}

// NewPlatformProber returns the prober for the current platform.
func NewPlatformProber() Prober {
	return newPlatformProber()
}

// knownBrowsers maps lowercased browser executable names (without
// extension) to true. URL extraction is only attempted for these.
var knownBrowsers = map[string]bool{
	"chrome":    true,
	"chromium":  true,
	"msedge":    true,
	"firefox":   true,
	"safari":    true,
	"brave":     true,
	"opera":     true,
	"vivaldi":   true,
	"360se":     true,
	"qqbrowser": true,
}

// IsBrowser reports whether the process name is a known browser.
// Matching is case-insensitive and ignores the .exe suffix.
func IsBrowser(app string) bool {
	name := strings.TrimSuffix(strings.ToLower(app), ".exe")
	return knownBrowsers[name]
}

var (
	// Full URLs embedded in titles, e.g. "https://github.com/x - Chrome".
	urlPattern = regexp.MustCompile(`(?i)\bhttps?://[^\s"'<>]+`)

	// Bare hostnames, e.g. "bilibili.com - 哔哩哔哩". Requires at least
	// one dot and a plausible TLD to avoid matching "main.go".
	hostPattern = regexp.MustCompile(`(?i)\b(?:[a-z0-9-]+\.)+(?:com|cn|net|org|io|dev|tv|co|me|app|ai|edu|gov)\b(?:/[^\s"'<>]*)?`)
)

// ExtractURL scans a browser window title for a URL-like substring.
// Returns empty when nothing plausible is found.
func ExtractURL(title string) string {
	if m := urlPattern.FindString(title); m != "" {
		return strings.TrimRight(m, ".,;:)")
	}
	if m := hostPattern.FindString(title); m != "" {
		return "https://" + strings.TrimRight(m, ".,;:)")
	}
	return ""
}

// buildSnapshot assembles a snapshot from raw probe output, applying
// browser URL extraction.
func buildSnapshot(app, title string, timestamp int64) *models.ActivitySnapshot {
	s := &models.ActivitySnapshot{
		App:         app,
		WindowTitle: title,
		Timestamp:   timestamp,
	}
	if IsBrowser(app) {
		s.URL = ExtractURL(title)
	}
	return s
}
