// Package candidate builds the ranked candidate list shown to the user for
// a composition buffer, following the five-branch decision ladder: exact
// syllable, consonant-prefix completion, smart-conversion over the
// segmenter, a radical side-insert, and reference-mark (trailing 'w')
// expansion.
package candidate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tanpero/yi-ime/dict"
	"github.com/tanpero/yi-ime/segment"
)

// maxItems is the candidate cap, matching the 1-9 selection keys.
const maxItems = 9

// referenceMark is U+A015, "repeat previous syllable".
const referenceMark = "ꀕ"

var vowelHeads = map[byte]struct{}{
	'a': {}, 'e': {}, 'i': {}, 'o': {}, 'u': {},
}

// Item is one displayable candidate of the shape "<yi_text> (<pinyin>)",
// optionally prefixed with a "[radical] " tag. It is opaque to the
// candidate window; Session parses it back on commit.
type Item string

func formatItem(yiText, pinyin string) Item {
	return Item(fmt.Sprintf("%s (%s)", yiText, pinyin))
}

func formatRadicalItem(radical, pinyin string) Item {
	return Item(fmt.Sprintf("[radical] %s (%s)", radical, pinyin))
}

// Builder produces candidate lists for a composition buffer.
type Builder struct {
	d *dict.Dictionary
	s *segment.Segmenter
}

// New returns a Builder backed by d.
func New(d *dict.Dictionary) *Builder {
	return &Builder{d: d, s: segment.New(d)}
}

// Build returns an ordered list of at most nine Items for buffer. An empty
// list means no branch matched; the caller still shows the raw buffer.
func (b *Builder) Build(buffer string) []Item {
	if buffer == "" {
		return nil
	}

	isComplete := b.d.ContainsSyllable(buffer)
	var items []Item

	if isComplete {
		for _, yi := range firstN(b.d.Lookup(buffer), 3) {
			items = append(items, formatItem(yi, buffer))
		}
	}

	if len(buffer) <= 3 && b.d.HasPrefix(buffer) {
		items = appendConsonantCompletions(items, b.d, buffer, isComplete)
	}

	if len(items) < maxItems {
		items = appendSmartConversions(items, b.s, buffer)
	}

	if radical, ok := b.d.Radical(buffer); ok && isSingleSyllable(b.s, buffer) {
		items = append([]Item{formatRadicalItem(radical, buffer)}, items...)
	}

	if strings.HasSuffix(buffer, "w") && len(buffer) > 1 {
		items = appendReferenceMarkItems(items, b.s, buffer)
	}

	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

// IsValidPrefix reports whether buffer is a sequence the session should
// accept another keystroke onto: a complete syllable, a syllable/radical
// prefix, a segmentable sequence, or one of those with a trailing 'w'
// stripped.
func (b *Builder) IsValidPrefix(buffer string) bool {
	if b.isValidPrefixCore(buffer) {
		return true
	}
	if strings.HasSuffix(buffer, "w") {
		return b.isValidPrefixCore(strings.TrimSuffix(buffer, "w"))
	}
	return false
}

func (b *Builder) isValidPrefixCore(buffer string) bool {
	if b.d.ContainsSyllable(buffer) {
		return true
	}
	if b.d.HasPrefix(buffer) {
		return true
	}
	if len(b.s.Segment(buffer)) > 0 {
		return true
	}
	return false
}

func isSingleSyllable(s *segment.Segmenter, buffer string) bool {
	for _, r := range s.Segment(buffer) {
		if len(r.Segments) == 1 && r.Segments[0] == buffer {
			return true
		}
	}
	return false
}

type consonantMatch struct {
	yi       string
	pinyin   string
	priority bool
}

func appendConsonantCompletions(items []Item, d *dict.Dictionary, buffer string, isComplete bool) []Item {
	var matches []consonantMatch
	for _, m := range d.PrefixMatches(buffer) {
		for _, yi := range m.YiChars {
			matches = append(matches, consonantMatch{yi: yi, pinyin: m.Pinyin, priority: isVowelHead(m.Pinyin, buffer)})
		}
	}
	for _, m := range d.RadicalPrefixMatches(buffer) {
		matches = append(matches, consonantMatch{yi: m.YiChars[0], pinyin: m.Pinyin, priority: isVowelHead(m.Pinyin, buffer)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].priority != matches[j].priority {
			return matches[i].priority
		}
		if matches[i].pinyin != matches[j].pinyin {
			return matches[i].pinyin < matches[j].pinyin
		}
		return matches[i].yi < matches[j].yi
	})

	seen := make(map[consonantMatch]struct{}, len(matches))
	for _, m := range matches {
		if len(items) >= maxItems {
			break
		}
		if isComplete && m.pinyin == buffer {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		items = append(items, formatItem(m.yi, m.pinyin))
	}
	return items
}

// isVowelHead reports whether the character immediately following buffer in
// pinyin is a vowel, marking pinyin as one of the consonant's own canonical
// syllables rather than a longer unrelated completion.
func isVowelHead(pinyin, buffer string) bool {
	if len(pinyin) <= len(buffer) {
		return false
	}
	_, ok := vowelHeads[pinyin[len(buffer)]]
	return ok
}

func appendSmartConversions(items []Item, s *segment.Segmenter, buffer string) []Item {
	seen := make(map[Item]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	for _, result := range s.Segment(buffer) {
		combos := cartesianProduct(result.YiChars, 50)
		segmentation := strings.Join(result.Segments, "-")
		for _, combo := range firstN(combos, 3) {
			if len(items) >= maxItems {
				return items
			}
			item := formatItem(combo, segmentation)
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			items = append(items, item)
		}
		if len(items) >= maxItems {
			break
		}
	}
	return items
}

func appendReferenceMarkItems(items []Item, s *segment.Segmenter, buffer string) []Item {
	prefix := strings.TrimSuffix(buffer, "w")
	for _, result := range s.Segment(prefix) {
		if len(items) >= maxItems {
			break
		}
		combos := cartesianProduct(result.YiChars, 50)
		segmentation := strings.Join(result.Segments, "-") + "-w"
		for _, combo := range firstN(combos, 3) {
			if len(items) >= maxItems {
				break
			}
			items = append(items, formatItem(combo+referenceMark, segmentation))
		}
	}
	return items
}

// cartesianProduct builds every concatenation across groups (one per
// segment), truncated at cap to avoid combinatorial blow-up.
func cartesianProduct(groups [][]string, limit int) []string {
	combos := []string{""}
	for _, group := range groups {
		next := make([]string, 0, len(combos)*len(group))
		for _, prefix := range combos {
			for _, ch := range group {
				next = append(next, prefix+ch)
				if len(next) >= limit {
					break
				}
			}
			if len(next) >= limit {
				break
			}
		}
		combos = next
		if len(combos) > limit {
			combos = combos[:limit]
		}
	}
	return combos
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
