// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package models

import "github.com/google/uuid"

// EventPriority orders candidate events. Lower value means higher
// priority.
type EventPriority int

const (
	PriorityHigh   EventPriority = 1
	PriorityMedium EventPriority = 2
	PriorityLow    EventPriority = 3
)

// Tone is the stylistic axis of the template banks.
type Tone string

const (
	ToneTucao   Tone = "吐槽"
	ToneTiaokan Tone = "调侃"
	ToneGuli    Tone = "鼓励"
	ToneGuancha Tone = "观察"
	ToneChigua  Tone = "吃瓜"
	ToneJianyi  Tone = "建议"
)

// Tones lists every tone a template bank may carry.
var Tones = []Tone{ToneTucao, ToneTiaokan, ToneGuli, ToneGuancha, ToneChigua, ToneJianyi}

// DanmakuEvent is a candidate message queued for emission. Category is
// always a BehaviorTrend other than TrendNone.
type DanmakuEvent struct {
	ID       uuid.UUID         `json:"id"`
	Category BehaviorTrend     `json:"category"`
	Priority EventPriority     `json:"priority"`
	Context  map[string]string `json:"context"`
	// Timestamp is the jittered emission time in seconds since epoch.
	Timestamp int64         `json:"timestamp"`
	Behavior  *BehaviorInfo `json:"behavior_info,omitempty"`
}

// DanmakuMessage is a materialized event: display text plus the tone
// the template bank actually used. This is what the overlay pulls.
type DanmakuMessage struct {
	Event *DanmakuEvent `json:"event"`
	Text  string        `json:"text"`
	Tone  Tone          `json:"tone"`
}

// TrendPriority maps each emittable trend to its queue priority.
var TrendPriority = map[BehaviorTrend]EventPriority{
	TrendMoyuStart:   PriorityHigh,
	TrendFocusSteady: PriorityMedium,
	TrendMoyuSteady:  PriorityMedium,
	TrendModeSwitch:  PriorityLow,
	TrendTaskSwitch:  PriorityLow,
}

// TrendDefaultTone maps each emittable trend to the tone its messages
// default to when consumed.
var TrendDefaultTone = map[BehaviorTrend]Tone{
	TrendMoyuStart:   ToneTiaokan,
	TrendMoyuSteady:  ToneTucao,
	TrendFocusSteady: ToneGuli,
	TrendModeSwitch:  ToneGuancha,
	TrendTaskSwitch:  ToneJianyi,
}

// EmittableTrends lists the trends that may become events, i.e. every
// trend except TrendNone. Template banks are keyed by these.
var EmittableTrends = []BehaviorTrend{
	TrendFocusSteady,
	TrendMoyuStart,
	TrendMoyuSteady,
	TrendModeSwitch,
	TrendTaskSwitch,
}

// ContextKeys is the closed schema of template variables. Every
// template placeholder is validated against this set at load time, and
// the engine populates exactly these keys on each event.
var ContextKeys = []string{
	"app",
	"app_type",
	"app_type_name",
	"domain",
	"domain_category",
	"mode",
	"mode_name",
	"trend",
	"duration_sec",
	"duration_min",
}
