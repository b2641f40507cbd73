//go:build windows

package inject

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32 = syscall.NewLazySystemDLL("kernel32.dll")
	moduser32   = syscall.NewLazySystemDLL("user32.dll")

	procGlobalAlloc      = modkernel32.NewProc("GlobalAlloc")
	procGlobalLock       = modkernel32.NewProc("GlobalLock")
	procGlobalUnlock     = modkernel32.NewProc("GlobalUnlock")
	procOpenClipboard    = moduser32.NewProc("OpenClipboard")
	procCloseClipboard   = moduser32.NewProc("CloseClipboard")
	procEmptyClipboard   = moduser32.NewProc("EmptyClipboard")
	procSetClipboardData = moduser32.NewProc("SetClipboardData")
	procSendInput        = moduser32.NewProc("SendInput")
)

const (
	gmemMoveable  = 0x0002
	cfUnicodeText = 13
)

func globalAlloc(flags, size uintptr) (uintptr, error) {
	r, _, err := procGlobalAlloc.Call(flags, size)
	if r == 0 {
		return 0, fmt.Errorf("GlobalAlloc: %v", err)
	}
	return r, nil
}

func globalLock(h uintptr) (uintptr, error) {
	r, _, err := procGlobalLock.Call(h)
	if r == 0 {
		return 0, fmt.Errorf("GlobalLock: %v", err)
	}
	return r, nil
}

func globalUnlock(h uintptr) error {
	r, _, err := procGlobalUnlock.Call(h)
	// GlobalUnlock returns 0 both on "became unlocked" and on failure;
	// only treat it as an error if GetLastError is non-zero.
	if r == 0 && err != nil {
		if errno, ok := err.(syscall.Errno); ok && errno != 0 {
			return fmt.Errorf("GlobalUnlock: %v", err)
		}
	}
	return nil
}

func openClipboard() error {
	r, _, err := procOpenClipboard.Call(0)
	if r == 0 {
		return fmt.Errorf("OpenClipboard: %v", err)
	}
	return nil
}

func closeClipboard() error {
	r, _, err := procCloseClipboard.Call()
	if r == 0 {
		return fmt.Errorf("CloseClipboard: %v", err)
	}
	return nil
}

func emptyClipboard() error {
	r, _, err := procEmptyClipboard.Call()
	if r == 0 {
		return fmt.Errorf("EmptyClipboard: %v", err)
	}
	return nil
}

func setClipboardData(format, h uintptr) error {
	r, _, err := procSetClipboardData.Call(format, h)
	if r == 0 {
		return fmt.Errorf("SetClipboardData: %v", err)
	}
	return nil
}

// keyboardInput mirrors Win32's INPUT/KEYBDINPUT for a virtual-key event.
type keyboardInput struct {
	inputType uint32
	// KEYBDINPUT plus padding to match the union's size on 64-bit.
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
	padding     uint64
}

const (
	inputKeyboard  = 1
	keyEventFKeyUp = 0x0002
	vkControl      = 0x11
	vkV            = 0x56
)

func sendInput(inputs []keyboardInput) error {
	n := uintptr(len(inputs))
	size := unsafe.Sizeof(keyboardInput{})
	r, _, err := procSendInput.Call(n, uintptr(unsafe.Pointer(&inputs[0])), size)
	if r != n {
		return fmt.Errorf("SendInput: sent %d of %d: %v", r, n, err)
	}
	return nil
}

func sendCtrlV() error {
	down := func(vk uint16) keyboardInput {
		return keyboardInput{inputType: inputKeyboard, wVk: vk}
	}
	up := func(vk uint16) keyboardInput {
		return keyboardInput{inputType: inputKeyboard, wVk: vk, dwFlags: keyEventFKeyUp}
	}
	return sendInput([]keyboardInput{
		down(vkControl), down(vkV), up(vkV), up(vkControl),
	})
}

// ClipboardChannel is the fallback text-commit path: it stages text on the
// system clipboard and synthesizes a Ctrl+V keystroke, restoring nothing —
// like the original, it treats the clipboard as transient scratch space
// owned by the input method while injecting is true.
type ClipboardChannel struct {
	settleDelay time.Duration
}

// NewClipboardChannel returns a Windows clipboard-paste fallback channel.
func NewClipboardChannel() *ClipboardChannel {
	return &ClipboardChannel{settleDelay: 50 * time.Millisecond}
}

func (c *ClipboardChannel) Name() string { return "clipboard" }

func (c *ClipboardChannel) Init() error { return nil }

func (c *ClipboardChannel) Close() error { return nil }

func (c *ClipboardChannel) Insert(text string) error {
	utf16, err := windows.UTF16FromString(text)
	if err != nil {
		return fmt.Errorf("clipboard: encode utf16: %w", err)
	}
	size := uintptr(len(utf16)) * 2

	if err := openClipboard(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	defer closeClipboard()

	if err := emptyClipboard(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}

	h, err := globalAlloc(gmemMoveable, size)
	if err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	ptr, err := globalLock(h)
	if err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	dst := unsafe.Slice((*uint16)(unsafe.Pointer(ptr)), len(utf16))
	copy(dst, utf16)
	if err := globalUnlock(h); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if err := setClipboardData(cfUnicodeText, h); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}

	time.Sleep(c.settleDelay)
	if err := sendCtrlV(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
