// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

/*
Package probe captures the current foreground window as an
ActivitySnapshot.

One operation: Probe. It returns nil when no foreground window exists
or the platform query fails; failures never cross the API boundary as
errors or panics. Platform backends are selected by build tags:

  - windows: user32/kernel32 via golang.org/x/sys/windows
  - linux:   xdotool (X11); Wayland sessions yield nil
  - darwin:  osascript against System Events
  - others:  stub returning nil

URL extraction is best-effort: when the process is a known browser the
window title is scanned for a URL-like substring; otherwise the URL
stays empty. A probe must complete well under the sampling period
(target p95 < 50 ms); exec-based backends carry a short intrinsic
timeout.
*/
package probe
