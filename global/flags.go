// Package global holds the handful of process-wide flags the capture
// thread and the session thread must both observe: activation state,
// whether the composition buffer is empty, the injector's re-entrancy bit,
// and the English pass-through sub-state. Spec.md §9 calls for these to be
// modeled as atomics behind disciplined accessors rather than ad-hoc
// mutable statics, so Flags wraps sync/atomic and exposes named methods
// instead of exported fields.
package global

import "sync/atomic"

// EnglishState is the capture layer's letter-key routing mode.
type EnglishState int32

const (
	// EnglishYi routes letter keys into the Yi composition buffer.
	EnglishYi EnglishState = iota
	// EnglishLowerCase passes letter keys through to the host application.
	EnglishLowerCase
	// EnglishUpperCase passes letter keys through to the host application;
	// distinguished from EnglishLowerCase only for CapsLock/Shift toggling
	// symmetry, both behave identically at the capture table.
	EnglishUpperCase
)

// Flags is the shared state record read by the capture thread and written
// by the session thread (and vice versa for is_active, which the capture
// thread's hotkey handler flips directly).
type Flags struct {
	active    atomic.Bool
	bufEmpty  atomic.Bool
	injecting atomic.Bool
	english   atomic.Int32
}

// New returns Flags in their startup state: inactive, buffer empty, not
// injecting, Yi letter routing.
func New() *Flags {
	f := &Flags{}
	f.bufEmpty.Store(true)
	f.english.Store(int32(EnglishYi))
	return f
}

// IsActive reports whether the input method is currently toggled on.
func (f *Flags) IsActive() bool { return f.active.Load() }

// ToggleActive flips is_active and returns the new value. Called only by
// the capture thread's F4 handler.
func (f *Flags) ToggleActive() bool {
	for {
		old := f.active.Load()
		if f.active.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// BufferEmpty reports whether the composition buffer was empty as of the
// last SetBufferEmpty call. This is a derived, read-only mirror of the
// session's buffer length — spec.md §9's open question is resolved by
// giving it no independent settable state outside this accessor pair.
func (f *Flags) BufferEmpty() bool { return f.bufEmpty.Load() }

// SetBufferEmpty updates the mirrored buffer-empty bit. Called by the
// session after every key handler turn.
func (f *Flags) SetBufferEmpty(empty bool) { f.bufEmpty.Store(empty) }

// Injecting reports whether the committer currently holds the re-entrancy
// bit.
func (f *Flags) Injecting() bool { return f.injecting.Load() }

// SetInjecting brackets the commit critical section; acquire/release
// ordering comes from atomic.Bool's built-in memory ordering in Go.
func (f *Flags) SetInjecting(v bool) { f.injecting.Store(v) }

// EnglishState returns the current letter-key routing mode.
func (f *Flags) EnglishState() EnglishState { return EnglishState(f.english.Load()) }

// SetEnglishState updates the letter-key routing mode.
func (f *Flags) SetEnglishState(s EnglishState) { f.english.Store(int32(s)) }
