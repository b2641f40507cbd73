//go:build windows

package capture

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/tanpero/yi-ime/global"
	"github.com/tanpero/yi-ime/logging"
)

// ErrHookInstallFailed marks a failed SetWindowsHookExW call.
var ErrHookInstallFailed = errors.New("capture: hook install failed")

var (
	moduser32           = syscall.NewLazySystemDLL("user32.dll")
	procSetWindowsHook  = moduser32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHk = moduser32.NewProc("UnhookWindowsHookEx")
	procCallNextHook    = moduser32.NewProc("CallNextHookEx")
	procGetMessage      = moduser32.NewProc("GetMessageW")
	procGetKeyState     = moduser32.NewProc("GetKeyState")
)

const (
	whKeyboardLL = 13
	hcAction     = 0

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105

	llkhfUp = 0x80
)

// kbdllHookStruct mirrors Win32's KBDLLHOOKSTRUCT.
type kbdllHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

// Hook installs the process-wide WH_KEYBOARD_LL interceptor and turns
// accepted events into a buffered channel of KeyEvents, mirroring the
// guard order the capture table specifies: the injecting re-entrancy
// bypass, then the F4 hotkey, then activation, then the per-key table
// itself (encoded in IsLetter/IsDigit1to9/IsPunctuation plus the
// always-forwarded Back/Space/Escape keys).
type Hook struct {
	flags  *global.Flags
	events chan KeyEvent
	handle uintptr
	mu     sync.Mutex
	onF4   func()
}

// NewHook returns an uninstalled Hook sharing flags with the session. Call
// Install to start receiving events on Events().
func NewHook(flags *global.Flags, onF4 func()) *Hook {
	return &Hook{flags: flags, events: make(chan KeyEvent, 64), onF4: onF4}
}

// Events returns the channel of key events accepted past the capture
// table. The caller (the session's dispatch loop) must keep draining it.
func (h *Hook) Events() <-chan KeyEvent { return h.events }

// Install registers the low-level keyboard hook for the current thread's
// message queue. The caller must run a Win32 message loop (GetMessage)
// afterward for the hook to actually fire.
func (h *Hook) Install() error {
	hookProc := syscall.NewCallback(h.lowLevelKeyboardProc)
	r, _, err := procSetWindowsHook.Call(
		uintptr(whKeyboardLL),
		hookProc,
		0,
		0,
	)
	if r == 0 {
		return fmt.Errorf("%w: %v", ErrHookInstallFailed, err)
	}
	h.mu.Lock()
	h.handle = r
	h.mu.Unlock()
	return nil
}

// Uninstall removes the hook. Safe to call once at process shutdown.
func (h *Hook) Uninstall() error {
	h.mu.Lock()
	handle := h.handle
	h.handle = 0
	h.mu.Unlock()
	if handle == 0 {
		return nil
	}
	r, _, err := procUnhookWindowsHk.Call(handle)
	if r == 0 {
		return fmt.Errorf("capture: unhook failed: %v", err)
	}
	return nil
}

// Run pumps the Win32 message loop on the calling thread (which must be
// the same thread Install was called from), blocking until GetMessage
// returns 0 or an error.
func (h *Hook) Run() error {
	var msg [48]byte // MSG is smaller than this; oversized for alignment safety
	for {
		r, _, err := procGetMessage.Call(
			uintptr(unsafe.Pointer(&msg[0])), 0, 0, 0,
		)
		switch int32(r) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("capture: GetMessage failed: %v", err)
		}
	}
}

func shiftPressed() bool {
	r, _, _ := procGetKeyState.Call(uintptr(VKShift))
	return r&0x8000 != 0
}

// toggleEnglishState flips between EnglishYi and onState, mirroring
// global_hook.rs's Shift/CapsLock handlers: pressing the key again (or
// pressing the other modifier) always returns to Yi mode.
func (h *Hook) toggleEnglishState(onState global.EnglishState) {
	if h.flags.EnglishState() == global.EnglishYi {
		h.flags.SetEnglishState(onState)
	} else {
		h.flags.SetEnglishState(global.EnglishYi)
	}
}

// lowLevelKeyboardProc is the WH_KEYBOARD_LL callback. It must return
// quickly; all it does is classify the event against the capture table and
// hand accepted ones to the buffered channel.
func (h *Hook) lowLevelKeyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode == hcAction {
		info := (*kbdllHookStruct)(unsafe.Pointer(lParam))
		isDown := wParam == wmKeyDown || wParam == wmSysKeyDown

		if h.flags.Injecting() {
			// Synthesized keystrokes from our own injector must never be
			// re-captured.
			return callNext(nCode, wParam, lParam)
		}

		if info.vkCode == VKF4 && isDown {
			if h.onF4 != nil {
				h.onF4()
			}
			return callNext(nCode, wParam, lParam)
		}

		if !h.flags.IsActive() {
			return callNext(nCode, wParam, lParam)
		}

		// Shift and CapsLock toggle the English pass-through state, but
		// only while the composition buffer is empty; mid-composition
		// they are left for the classify table below like any other key.
		if isDown && h.flags.BufferEmpty() {
			switch info.vkCode {
			case VKShift:
				h.toggleEnglishState(global.EnglishLowerCase)
				return callNext(nCode, wParam, lParam)
			case VKCapital:
				h.toggleEnglishState(global.EnglishUpperCase)
				return callNext(nCode, wParam, lParam)
			}
		}

		if accepted, ev := h.classify(info.vkCode, info.scanCode, info.flags, isDown); accepted {
			select {
			case h.events <- ev:
			default:
				logging.Logger().Warn().Msg("capture event queue full, dropping key")
			}
			return 1 // swallow: the session owns this keystroke
		}
	}
	return callNext(nCode, wParam, lParam)
}

// classify implements the capture table: letters are captured unless the
// buffer is empty and English pass-through is active (EnglishState !=
// EnglishYi), in which case the host application handles them directly;
// digits 1-9 only while the buffer is non-empty; Back/Space/Escape always
// when active; punctuation
// only while the buffer is non-empty, so idle punctuation passes through
// untouched.
func (h *Hook) classify(vk, scanCode, flags uint32, isDown bool) (bool, KeyEvent) {
	ev := KeyEvent{
		VKCode:    vk,
		ScanCode:  scanCode,
		Flags:     flags,
		IsKeyDown: isDown,
		Shift:     shiftPressed(),
	}
	bufferEmpty := h.flags.BufferEmpty()
	switch {
	case IsLetter(vk):
		if bufferEmpty && h.flags.EnglishState() != global.EnglishYi {
			return false, ev
		}
		return true, ev
	case IsDigit1to9(vk):
		return !bufferEmpty, ev
	case IsPunctuation(vk):
		return !bufferEmpty, ev
	case vk == VKBack, vk == VKSpace, vk == VKEscape:
		return true, ev
	}
	return false, ev
}

func callNext(nCode int, wParam, lParam uintptr) uintptr {
	r, _, _ := procCallNextHook.Call(0, uintptr(nCode), wParam, lParam)
	return r
}
