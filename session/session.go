// Package session holds the composition-buffer state machine: it turns
// filtered capture.KeyEvents into buffer edits, candidate-window updates,
// and committed text, following the per-key policy table and the five
// commit formats.
package session

import (
	"strings"
	"time"

	"github.com/tanpero/yi-ime/candidate"
	"github.com/tanpero/yi-ime/capture"
	"github.com/tanpero/yi-ime/global"
	"github.com/tanpero/yi-ime/inject"
	"github.com/tanpero/yi-ime/logging"
	"github.com/tanpero/yi-ime/textutil"
)

// InputMode selects how a committed candidate is rendered into host text.
type InputMode int

const (
	// YiOnly commits just the Yi text.
	YiOnly InputMode = iota
	// PinyinThenYi commits "pinyin yi_text".
	PinyinThenYi
	// PinyinWithYiParen commits "pinyin（yi_text）" with full-width parens.
	PinyinWithYiParen
	// YiWithPinyinParen commits "yi_text（pinyin）" with full-width parens.
	YiWithPinyinParen
	// HtmlRuby commits an HTML ruby annotation zipping each Yi grapheme
	// with its pinyin segment.
	HtmlRuby
)

// defaultSettleDelay is the pause between an insert call and clearing the
// injecting flag, giving the host application time to process the
// synthesized input before the capture hook resumes forwarding keys.
const defaultSettleDelay = 50 * time.Millisecond

// CandidateWindow is the UI collaborator showing the ranked candidate list
// and tracking the user's selection.
type CandidateWindow interface {
	ShowCandidates(items []candidate.Item, buffer string)
	Hide()
	CandidateCount() int
	SelectByNumber(n int) (candidate.Item, bool)
	SelectedCandidate() (candidate.Item, bool)
}

// TrayController is the UI collaborator reflecting session-driven mode
// changes in the system tray icon/menu.
type TrayController interface {
	SetInputMode(mode InputMode)
	SetLanguage(active bool)
}

// punctuationTable maps a punctuation virtual key to its (plain, with-Shift)
// output pair.
var punctuationTable = map[uint32][2]string{
	capture.VKLBracket:  {"【", "{"},
	capture.VKRBracket:  {"】", "}"},
	capture.VKBackslash: {"、", "|"},
	capture.VKSemicolon: {"；", "："},
	capture.VKComma:     {"，", "《"},
	capture.VKPeriod:    {"。", "》"},
}

// Session is the per-process composition state machine.
type Session struct {
	buffer      string
	mode        InputMode
	builder     *candidate.Builder
	injector    *inject.Injector
	window      CandidateWindow
	flags       *global.Flags
	settleDelay time.Duration
}

// New returns a Session in its startup state: empty buffer, YiOnly mode,
// the default 50ms settle delay.
func New(builder *candidate.Builder, injector *inject.Injector, window CandidateWindow, flags *global.Flags) *Session {
	return &Session{builder: builder, injector: injector, window: window, flags: flags, mode: YiOnly, settleDelay: defaultSettleDelay}
}

// SetMode changes the commit format used by future commits.
func (s *Session) SetMode(mode InputMode) { s.mode = mode }

// SetSettleDelay overrides the post-commit pause before the injecting flag
// is released, per a loaded config's override.
func (s *Session) SetSettleDelay(d time.Duration) { s.settleDelay = d }

// Mode returns the current commit format.
func (s *Session) Mode() InputMode { return s.mode }

// BufferEmpty reports whether the composition buffer currently holds no
// characters; this is the single source of truth global.Flags.BufferEmpty
// mirrors after every key handled.
func (s *Session) BufferEmpty() bool { return s.buffer == "" }

// HandleKey dispatches one filtered key event per the per-key policy table.
// F4 hotkey toggling and Shift/CapsLock English-mode toggling are handled
// by the capture layer before an event ever reaches Session; only letters,
// digits 1-9, backspace, space, escape, and punctuation arrive here.
func (s *Session) HandleKey(event capture.KeyEvent) {
	if !event.IsKeyDown {
		return
	}

	switch {
	case capture.IsLetter(event.VKCode):
		s.handleLetter(event)
	case capture.IsDigit1to9(event.VKCode) && s.buffer != "":
		s.handleDigit(event)
	case event.VKCode == capture.VKBack:
		s.handleBackspace()
	case event.VKCode == capture.VKSpace && s.buffer != "":
		s.commitSelected()
	case event.VKCode == capture.VKEscape && s.buffer != "":
		s.clear()
	case capture.IsPunctuation(event.VKCode):
		s.handlePunctuation(event)
	}

	s.flags.SetBufferEmpty(s.BufferEmpty())
}

func (s *Session) handleLetter(event capture.KeyEvent) {
	candidateBuffer := s.buffer + string(capture.LetterRune(event.VKCode))
	if !s.builder.IsValidPrefix(candidateBuffer) {
		logging.Logger().Debug().Str("buffer", candidateBuffer).Msg("rejected invalid prefix")
		return
	}
	s.buffer = candidateBuffer
	s.refreshCandidates()
}

func (s *Session) handleDigit(event capture.KeyEvent) {
	n := capture.DigitValue(event.VKCode)
	item, ok := s.window.SelectByNumber(n)
	if !ok {
		return
	}
	s.commit(item)
}

func (s *Session) handleBackspace() {
	if s.buffer == "" {
		return
	}
	runes := []rune(s.buffer)
	s.buffer = string(runes[:len(runes)-1])
	if s.buffer == "" {
		s.window.Hide()
		return
	}
	s.refreshCandidates()
}

// handlePunctuation implements the Composing-row behavior only: Idle is
// "pass through", which the capture layer already achieves by never
// forwarding a punctuation key while the buffer is empty. It commits
// candidate #1, then appends the locale-appropriate mark chosen by the
// Shift modifier (not by buffer state).
func (s *Session) handlePunctuation(event capture.KeyEvent) {
	if s.buffer == "" {
		return
	}
	pair, ok := punctuationTable[event.VKCode]
	if !ok {
		return
	}
	mark := pair[0]
	if event.Shift {
		mark = pair[1]
	}
	if item, ok := s.window.SelectByNumber(1); ok {
		s.commit(item)
	} else {
		s.injectCommitted(s.buffer)
		s.clear()
	}
	s.injectCommitted(mark)
}

func (s *Session) refreshCandidates() {
	items := s.builder.Build(s.buffer)
	if len(items) == 0 {
		s.window.Hide()
		return
	}
	s.window.ShowCandidates(items, s.buffer)
}

// commitSelected commits the candidate window's current selection, or the
// raw buffer if nothing is selected.
func (s *Session) commitSelected() {
	if item, ok := s.window.SelectedCandidate(); ok {
		s.commit(item)
		return
	}
	s.injectCommitted(s.buffer)
	s.clear()
}

func (s *Session) commit(item candidate.Item) {
	yiText, pinyin := splitItem(item)
	s.injectCommitted(s.render(yiText, pinyin))
	s.clear()
}

func (s *Session) clear() {
	s.buffer = ""
	s.window.Hide()
}

// injectCommitted runs the exact commit sequence: inject, settle, then
// clear is the caller's responsibility so punctuation (which never touches
// the buffer) can skip it. The injecting re-entrancy flag is held across
// both the insert and the settle sleep, since the clipboard-paste fallback
// channel's synthesized keystrokes keep arriving at the capture hook after
// Insert itself has already returned.
func (s *Session) injectCommitted(text string) {
	s.flags.SetInjecting(true)
	defer s.flags.SetInjecting(false)

	if err := s.injector.Insert(text); err != nil {
		logging.Logger().Error().Err(err).Str("text", text).Msg("commit failed")
	}
	time.Sleep(s.settleDelay)
}

// render formats yiText/pinyin per the active InputMode.
func (s *Session) render(yiText, pinyin string) string {
	switch s.mode {
	case PinyinThenYi:
		return pinyin + " " + yiText
	case PinyinWithYiParen:
		return pinyin + "（" + yiText + "）"
	case YiWithPinyinParen:
		return yiText + "（" + pinyin + "）"
	case HtmlRuby:
		return renderHTMLRuby(yiText, pinyin)
	default:
		return yiText
	}
}

// splitItem parses a candidate.Item of the form "[radical] <yi> (<pinyin>)"
// or "<yi> (<pinyin>)" back into its two parts, stripping the optional
// radical tag.
func splitItem(item candidate.Item) (yiText, pinyin string) {
	s := strings.TrimPrefix(string(item), "[radical] ")
	open := strings.LastIndex(s, " (")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return s, ""
	}
	yiText = s[:open]
	pinyin = s[open+2 : len(s)-1]
	return yiText, pinyin
}

// renderHTMLRuby zips each grapheme of yiText against its pinyin segment,
// one <ruby> per grapheme. Graphemes beyond the last pinyin segment are
// annotated with the whole pinyin string.
func renderHTMLRuby(yiText, pinyin string) string {
	graphemes := textutil.Graphemes(yiText)
	segments := strings.Split(pinyin, "-")

	var b strings.Builder
	for i, g := range graphemes {
		seg := pinyin
		if i < len(segments) {
			seg = segments[i]
		}
		b.WriteString("<ruby>")
		b.WriteString(g)
		b.WriteString("<rp>(</rp><rt>")
		b.WriteString(seg)
		b.WriteString("</rt><rp>)</rp>")
		b.WriteString("</ruby>")
	}
	return b.String()
}
