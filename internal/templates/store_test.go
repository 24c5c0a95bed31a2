// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/moyuban/moyuban/internal/models"
)

func writeBank(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write bank: %v", err)
	}
	return path
}

func fullContext() map[string]string {
	return map[string]string{
		"app":             "chrome.exe",
		"app_type":        "browser",
		"app_type_name":   "浏览器",
		"domain":          "bilibili.com",
		"domain_category": "video",
		"mode":            "consumption",
		"mode_name":       "消费模式",
		"trend":           "moyu_steady",
		"duration_sec":    "1200",
		"duration_min":    "20",
	}
}

func TestEmbeddedBankLoads(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatalf("embedded bank must load: %v", err)
	}

	stats := s.Stats()
	if stats.Categories != len(models.EmittableTrends) {
		t.Errorf("categories = %d, want %d", stats.Categories, len(models.EmittableTrends))
	}
	for _, trend := range models.EmittableTrends {
		if stats.ByCategory[trend] == 0 {
			t.Errorf("embedded bank has no templates for %q", trend)
		}
	}
}

func TestEmbeddedBankCoversDefaultTones(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatalf("embedded bank must load: %v", err)
	}

	for _, trend := range models.EmittableTrends {
		want := models.TrendDefaultTone[trend]
		template, used, err := s.Pick(trend, want)
		if err != nil {
			t.Errorf("pick(%s, %s): %v", trend, want, err)
			continue
		}
		if used != want {
			t.Errorf("pick(%s, %s) fell back to %q; default tone must exist", trend, want, used)
		}
		if template == "" {
			t.Errorf("pick(%s, %s) returned empty template", trend, want)
		}
	}
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	ctx := fullContext()
	ctx["domain"] = "github.com"

	got, err := Render("已专注{duration_min}分钟在{domain}上", ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "已专注20分钟在github.com上" {
		t.Errorf("render = %q", got)
	}
}

func TestRenderFailsOnMissingVariable(t *testing.T) {
	if _, err := Render("看看{bogus}这个", fullContext()); err == nil {
		t.Error("render with unknown variable must fail")
	}
}

func TestToneFallback(t *testing.T) {
	path := writeBank(t, `{
		"moyu_start": {
			"调侃": ["摸鱼啦：{domain}"]
		}
	}`)
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	template, used, err := s.Pick(models.TrendMoyuStart, models.ToneGuli)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if used != models.ToneTiaokan {
		t.Errorf("fallback tone = %q, want 调侃", used)
	}
	if template != "摸鱼啦：{domain}" {
		t.Errorf("template = %q", template)
	}
}

func TestPickUnknownCategory(t *testing.T) {
	path := writeBank(t, `{"moyu_start": {"调侃": ["x"]}}`)
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, _, err := s.Pick(models.TrendFocusSteady, models.ToneGuli); err == nil {
		t.Error("pick for a category the bank lacks must fail")
	}
}

func TestReloadRejectsInvalidBank(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	before := s.Stats()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown category", `{"coffee_break": {"调侃": ["x"]}}`},
		{"unknown tone", `{"moyu_start": {"严肃": ["x"]}}`},
		{"unknown placeholder", `{"moyu_start": {"调侃": ["{username}在摸鱼"]}}`},
		{"malformed braces", `{"moyu_start": {"调侃": ["{domain 打开了"]}}`},
		{"blank template", `{"moyu_start": {"调侃": ["  "]}}`},
		{"invalid json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Reload(writeBank(t, tt.content)); err == nil {
				t.Error("reload must reject the bank")
			}
		})
	}

	after := s.Stats()
	if after.Templates != before.Templates {
		t.Errorf("failed reloads changed the active bank: %d -> %d", before.Templates, after.Templates)
	}
}

func TestMaterialize(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	event := &models.DanmakuEvent{
		ID:       uuid.New(),
		Category: models.TrendMoyuSteady,
		Priority: models.PriorityMedium,
		Context:  fullContext(),
	}
	for i := 0; i < 50; i++ {
		text, used, err := s.Materialize(event, models.TrendDefaultTone[event.Category])
		if err != nil {
			t.Fatalf("materialize: %v", err)
		}
		if text == "" || strings.ContainsAny(text, "{}") {
			t.Fatalf("materialized text %q still carries placeholders", text)
		}
		if used != models.ToneTucao {
			t.Fatalf("tone = %q, want default 吐槽", used)
		}
	}
}
