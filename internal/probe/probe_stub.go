// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

//go:build !windows && !linux && !darwin

package probe

import (
	"context"

	"github.com/moyuban/moyuban/internal/models"
)

// stubProber is used on platforms without a foreground-window query.
// Every tick yields nil, so the pipeline idles.
type stubProber struct{}

func newPlatformProber() Prober {
	return &stubProber{}
}

// Probe implements Prober.
func (p *stubProber) Probe(_ context.Context) *models.ActivitySnapshot {
	return nil
}
