// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

//go:build windows

package probe

import (
	"context"
	"path/filepath"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/moyuban/moyuban/internal/logging"
	"github.com/moyuban/moyuban/internal/models"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessID = user32.NewProc("GetWindowThreadProcessId")
)

// windowsProber reads the foreground window via user32/kernel32.
type windowsProber struct{}

func newPlatformProber() Prober {
	return &windowsProber{}
}

// Probe implements Prober. All failures are logged at debug and
// surfaced as nil; the sampler simply skips the tick.
func (p *windowsProber) Probe(_ context.Context) (snapshot *models.ActivitySnapshot) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Msg("foreground probe panicked")
			snapshot = nil
		}
	}()

	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil
	}

	title := windowTitle(hwnd)

	var pid uint32
	procGetWindowThreadProcessID.Call(hwnd, uintptr(unsafe.Pointer(&pid))) //nolint:errcheck // pid stays 0 on failure
	if pid == 0 {
		return nil
	}

	app := processImageName(pid)
	if app == "" {
		return nil
	}

	return buildSnapshot(app, title, time.Now().Unix())
}

// windowTitle reads the window caption, empty on failure.
func windowTitle(hwnd uintptr) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// processImageName resolves a pid to its executable base name.
func processImageName(pid uint32) string {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		logging.Debug().Err(err).Uint32("pid", pid).Msg("OpenProcess failed")
		return ""
	}
	defer windows.CloseHandle(handle) //nolint:errcheck

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(handle, 0, &buf[0], &size); err != nil {
		logging.Debug().Err(err).Uint32("pid", pid).Msg("QueryFullProcessImageName failed")
		return ""
	}
	return filepath.Base(windows.UTF16ToString(buf[:size]))
}
