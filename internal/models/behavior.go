// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package models

// AppCategory classifies a process executable into a coarse bucket.
type AppCategory string

const (
	AppBrowser AppCategory = "browser"
	AppIDE     AppCategory = "ide"
	AppOffice  AppCategory = "office"
	AppIM      AppCategory = "im"
	AppVideo   AppCategory = "video"
	AppPlayer  AppCategory = "player"
	AppGame    AppCategory = "game"
	AppTool    AppCategory = "tool"
	AppSystem  AppCategory = "system"
	AppOther   AppCategory = "other"
)

// DomainCategory classifies a website domain.
type DomainCategory string

const (
	DomainCode     DomainCategory = "code"
	DomainDoc      DomainCategory = "doc"
	DomainVideo    DomainCategory = "video"
	DomainSocial   DomainCategory = "social"
	DomainShopping DomainCategory = "shopping"
	DomainSearch   DomainCategory = "search"
	DomainAI       DomainCategory = "ai"
	DomainEmail    DomainCategory = "email"
	DomainOther    DomainCategory = "other"
)

// ContentMode states whether the current activity is creating or
// consuming content.
type ContentMode string

const (
	ModeProduction  ContentMode = "production"
	ModeConsumption ContentMode = "consumption"
	ModeNeutral     ContentMode = "neutral"
	ModeUnknown     ContentMode = "unknown"
)

// BehaviorTrend is a transient label describing a sustained or
// transitional state that qualifies for a danmaku event.
type BehaviorTrend string

const (
	TrendFocusSteady BehaviorTrend = "focus_steady"
	TrendMoyuStart   BehaviorTrend = "moyu_start"
	TrendMoyuSteady  BehaviorTrend = "moyu_steady"
	TrendModeSwitch  BehaviorTrend = "mode_switch"
	TrendTaskSwitch  BehaviorTrend = "task_switch"
	TrendNone        BehaviorTrend = "none"
)

// BehaviorInfo is the analyzer's output for one snapshot. Derived data;
// never persisted.
type BehaviorInfo struct {
	App               string         `json:"app"`
	AppType           AppCategory    `json:"app_type"`
	URL               string         `json:"url"`
	Domain            string         `json:"domain"`
	DomainCategory    DomainCategory `json:"domain_category"`
	Mode              ContentMode    `json:"mode"`
	ActiveDurationSec int64          `json:"active_duration_sec"`
	Trend             BehaviorTrend  `json:"trend"`
	Timestamp         int64          `json:"timestamp"`
}

// appCategoryNames humanizes app categories for template variables.
var appCategoryNames = map[AppCategory]string{
	AppBrowser: "浏览器",
	AppIDE:     "开发工具",
	AppOffice:  "办公软件",
	AppIM:      "聊天工具",
	AppVideo:   "视频软件",
	AppPlayer:  "播放器",
	AppGame:    "游戏",
	AppTool:    "工具",
	AppSystem:  "系统",
	AppOther:   "其他",
}

// Name returns the humanized (Chinese) name of the category.
func (c AppCategory) Name() string {
	if name, ok := appCategoryNames[c]; ok {
		return name
	}
	return appCategoryNames[AppOther]
}

var contentModeNames = map[ContentMode]string{
	ModeProduction:  "生产模式",
	ModeConsumption: "消费模式",
	ModeNeutral:     "中性模式",
	ModeUnknown:     "未知模式",
}

// Name returns the humanized (Chinese) name of the mode.
func (m ContentMode) Name() string {
	if name, ok := contentModeNames[m]; ok {
		return name
	}
	return contentModeNames[ModeUnknown]
}
