//go:build !windows

package capture

import (
	"errors"

	"github.com/tanpero/yi-ime/global"
)

// ErrHookInstallFailed marks a failed hook install. On non-Windows
// platforms there is no real low-level keyboard hook to install.
var ErrHookInstallFailed = errors.New("capture: hook install failed")

// Hook is a non-Windows stand-in with no real interceptor wired up, kept so
// the module and its tests compile on any platform. The real
// implementation lives in capture_windows.go.
type Hook struct {
	events chan KeyEvent
}

// NewHook returns the non-Windows stub hook. onF4 is accepted for
// signature parity but never invoked.
func NewHook(flags *global.Flags, onF4 func()) *Hook {
	return &Hook{events: make(chan KeyEvent)}
}

// Events returns an empty, never-written channel.
func (h *Hook) Events() <-chan KeyEvent { return h.events }

// Install always fails on this platform.
func (h *Hook) Install() error { return ErrHookInstallFailed }

// Uninstall is a no-op.
func (h *Hook) Uninstall() error { return nil }

// Run returns immediately; there is no message loop to pump.
func (h *Hook) Run() error { return nil }
