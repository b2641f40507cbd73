package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanpero/yi-ime/candidate"
	"github.com/tanpero/yi-ime/capture"
	"github.com/tanpero/yi-ime/dict"
	"github.com/tanpero/yi-ime/global"
	"github.com/tanpero/yi-ime/inject"
	"github.com/tanpero/yi-ime/session"
)

// fakeWindow is a minimal CandidateWindow recording shown items and a
// manually driven selection, enough to exercise Session without any real
// UI toolkit.
type fakeWindow struct {
	items    []candidate.Item
	buffer   string
	hidden   bool
	selected int // -1 means none
}

func newFakeWindow() *fakeWindow { return &fakeWindow{selected: -1} }

func (w *fakeWindow) ShowCandidates(items []candidate.Item, buffer string) {
	w.items = items
	w.buffer = buffer
	w.hidden = false
}

func (w *fakeWindow) Hide() {
	w.hidden = true
	w.items = nil
	w.selected = -1
}

func (w *fakeWindow) CandidateCount() int { return len(w.items) }

func (w *fakeWindow) SelectByNumber(n int) (candidate.Item, bool) {
	idx := n - 1
	if idx < 0 || idx >= len(w.items) {
		return "", false
	}
	return w.items[idx], true
}

func (w *fakeWindow) SelectedCandidate() (candidate.Item, bool) {
	if w.selected < 0 || w.selected >= len(w.items) {
		return "", false
	}
	return w.items[w.selected], true
}

// fakeChannel records every Insert call; used as both primary (forced to
// fail init, so it never serves) and fallback channel in tests.
type fakeChannel struct {
	name     string
	failInit bool
	inserted []string
	closed   bool
}

func (c *fakeChannel) Name() string { return c.name }
func (c *fakeChannel) Init() error {
	if c.failInit {
		return inject.ErrInjectorInitFailed
	}
	return nil
}
func (c *fakeChannel) Insert(text string) error {
	c.inserted = append(c.inserted, text)
	return nil
}
func (c *fakeChannel) Close() error { c.closed = true; return nil }

func newTestSession(t *testing.T, syllables, radicals string) (*session.Session, *fakeWindow, *fakeChannel) {
	t.Helper()
	d, err := dict.LoadFromBytes([]byte(syllables), []byte(radicals))
	require.NoError(t, err)

	builder := candidate.New(d)
	win := newFakeWindow()
	flags := global.New()
	primary := &fakeChannel{name: "primary", failInit: true}
	fallback := &fakeChannel{name: "fallback"}
	inj := inject.New(primary, fallback)

	s := session.New(builder, inj, win, flags)
	return s, win, fallback
}

func keyDown(vk uint32) capture.KeyEvent {
	return capture.KeyEvent{VKCode: vk, IsKeyDown: true}
}

func letterKey(r byte) capture.KeyEvent {
	return keyDown(uint32(r-'a') + 0x41)
}

func TestSession_CommitByDigit(t *testing.T) {
	s, win, fallback := newTestSession(t, `{"ꁧ": "bo"}`, `{}`)

	s.HandleKey(letterKey('b'))
	s.HandleKey(letterKey('o'))
	require.NotEmpty(t, win.items)

	s.HandleKey(keyDown(0x31)) // '1'
	require.Len(t, fallback.inserted, 1)
	assert.Equal(t, "ꁧ", fallback.inserted[0])
	assert.True(t, s.BufferEmpty())
}

func TestSession_AmbiguousBoundaryBothReachable(t *testing.T) {
	s, win, _ := newTestSession(t, `{"ꀠ": "ba", "ꀡ": "bap", "ꀋ": "p"}`, `{}`)

	s.HandleKey(letterKey('b'))
	s.HandleKey(letterKey('a'))
	s.HandleKey(letterKey('p'))

	var sawExact, sawSplit bool
	for _, item := range win.items {
		if item == "ꀡ (bap)" {
			sawExact = true
		}
		if item == "ꀠꀋ (ba-p)" {
			sawSplit = true
		}
	}
	assert.True(t, sawExact)
	assert.True(t, sawSplit)
}

func TestSession_SpaceCommitsRawBufferWhenNoSelection(t *testing.T) {
	s, _, fallback := newTestSession(t, `{"ꇤ": "ka"}`, `{}`)

	s.HandleKey(letterKey('k'))
	s.HandleKey(letterKey('a'))
	s.HandleKey(keyDown(capture.VKSpace))

	require.Len(t, fallback.inserted, 1)
	assert.True(t, s.BufferEmpty())
}

func TestSession_BackspaceShrinksBufferAndHidesWhenEmpty(t *testing.T) {
	s, win, _ := newTestSession(t, `{"ꁧ": "bo"}`, `{}`)

	s.HandleKey(letterKey('b'))
	s.HandleKey(letterKey('o'))
	require.False(t, win.hidden)

	s.HandleKey(keyDown(capture.VKBack))
	s.HandleKey(keyDown(capture.VKBack))
	assert.True(t, win.hidden)
	assert.True(t, s.BufferEmpty())
}

func TestSession_EscapeClearsBuffer(t *testing.T) {
	s, win, _ := newTestSession(t, `{"ꁧ": "bo"}`, `{}`)

	s.HandleKey(letterKey('b'))
	s.HandleKey(keyDown(capture.VKEscape))

	assert.True(t, s.BufferEmpty())
	assert.True(t, win.hidden)
}

func TestSession_PunctuationWithEmptyBufferIsNoOp(t *testing.T) {
	// Idle punctuation pass-through is the capture layer's job (it never
	// forwards a punctuation key while the buffer is empty); Session itself
	// must not act on one if it somehow arrives with an empty buffer.
	s, _, fallback := newTestSession(t, `{"ꁧ": "bo"}`, `{}`)

	s.HandleKey(keyDown(capture.VKComma))
	assert.Empty(t, fallback.inserted)
}

func TestSession_PunctuationUsesPlainFormWithoutShift(t *testing.T) {
	s, _, fallback := newTestSession(t, `{"ꁧ": "bo"}`, `{}`)

	s.HandleKey(letterKey('b'))
	s.HandleKey(keyDown(capture.VKComma))
	require.Len(t, fallback.inserted, 1)
	assert.Equal(t, "，", fallback.inserted[0])
}

func TestSession_PunctuationUsesShiftFormWithShift(t *testing.T) {
	s, _, fallback := newTestSession(t, `{"ꁧ": "bo"}`, `{}`)

	s.HandleKey(letterKey('b'))
	comma := keyDown(capture.VKComma)
	comma.Shift = true
	s.HandleKey(comma)
	require.Len(t, fallback.inserted, 1)
	assert.Equal(t, "《", fallback.inserted[0])
}

func TestSession_HTMLRubyCommitFormat(t *testing.T) {
	s, win, fallback := newTestSession(t, `{"ꃅ": "mu", "ꀨ": "bu"}`, `{}`)
	s.SetMode(session.HtmlRuby)

	s.HandleKey(letterKey('m'))
	s.HandleKey(letterKey('u'))
	s.HandleKey(letterKey('b'))
	s.HandleKey(letterKey('u'))
	require.NotEmpty(t, win.items)

	win.selected = 0
	s.HandleKey(keyDown(capture.VKSpace))
	require.Len(t, fallback.inserted, 1)
	assert.Contains(t, fallback.inserted[0], "<ruby>")
	assert.Contains(t, fallback.inserted[0], "<rt>")
}
