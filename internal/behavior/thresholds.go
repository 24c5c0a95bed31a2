// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package behavior

// Thresholds holds the trend detection boundaries in seconds. All of
// trend tuning lives here; nothing else hardcodes a duration.
type Thresholds struct {
	// FocusSteadySec: production held at least this long.
	FocusSteadySec int64

	// MoyuStartSec: consumption held this long right after production.
	MoyuStartSec int64

	// MoyuSteadySec: consumption held this long regardless of what
	// came before.
	MoyuSteadySec int64

	// ModeSwitchWindowSec: a mode change counts as a switch only while
	// the new state is younger than this.
	ModeSwitchWindowSec int64

	// TaskSwitchWindowSec: same for app changes.
	TaskSwitchWindowSec int64
}

// DefaultThresholds returns the production tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FocusSteadySec:      20 * 60,
		MoyuStartSec:        3 * 60,
		MoyuSteadySec:       15 * 60,
		ModeSwitchWindowSec: 60,
		TaskSwitchWindowSec: 30,
	}
}

// Title lexicons for mode determination, scanned case-insensitively.
// The canonical lists are bilingual; product review pending on the
// exact token set.
var (
	productionTitleTokens  = []string{"edit", "write", "code", "develop", "编辑", "写", "开发", "代码"}
	consumptionTitleTokens = []string{"watch", "video", "browse", "视频", "看", "浏览"}
)
