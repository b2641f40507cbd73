// Package dict loads and queries the two Yi dictionary resources: the
// syllable map (pinyin -> Yi characters) and the radical map (pinyin ->
// single radical). Both are built once at process start from embedded JSON
// and never mutated afterward, so every query here is a pure function safe
// for concurrent readers without any locking.
package dict

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tanpero/yi-ime/logging"
)

// ErrDictionaryMissing is returned when an embedded dictionary resource does
// not exist.
var ErrDictionaryMissing = errors.New("dict: resource missing")

// ErrDictionaryMalformed is returned when a dictionary resource is not a
// JSON object of strings (nor the tolerated legacy array-of-strings form).
var ErrDictionaryMalformed = errors.New("dict: resource malformed")

//go:embed data/syllables.json data/radicals.json
var embedded embed.FS

// Dictionary is the immutable set of lookup tables built from the syllable
// and radical resources.
type Dictionary struct {
	// syllables maps a pinyin key to the ordered Yi characters it produces.
	syllables map[string][]string
	// radicals maps a pinyin key to its single radical glyph.
	radicals map[string]string
	// syllableSet is the membership oracle over syllables' keys.
	syllableSet map[string]struct{}
}

// Stats summarizes a loaded Dictionary, used by the debug CLI and the
// startup log line.
type Stats struct {
	SyllableCount int
	RadicalCount  int
}

// Load builds a Dictionary from the embedded syllable and radical JSON
// resources.
func Load() (*Dictionary, error) {
	syllableRaw, err := embedded.ReadFile("data/syllables.json")
	if err != nil {
		return nil, fmt.Errorf("%w: data/syllables.json: %v", ErrDictionaryMissing, err)
	}
	radicalRaw, err := embedded.ReadFile("data/radicals.json")
	if err != nil {
		return nil, fmt.Errorf("%w: data/radicals.json: %v", ErrDictionaryMissing, err)
	}
	return LoadFromBytes(syllableRaw, radicalRaw)
}

// LoadFromBytes builds a Dictionary from raw JSON bytes, used directly by
// tests and by Load. It accepts both the current string-valued entry form
// and the legacy array-valued form for each key.
func LoadFromBytes(syllableJSON, radicalJSON []byte) (*Dictionary, error) {
	d := &Dictionary{
		syllables:   make(map[string][]string),
		radicals:    make(map[string]string),
		syllableSet: make(map[string]struct{}),
	}

	var syllableMap map[string]json.RawMessage
	if err := json.Unmarshal(syllableJSON, &syllableMap); err != nil {
		return nil, fmt.Errorf("%w: syllables: %v", ErrDictionaryMalformed, err)
	}
	for yiChar, raw := range syllableMap {
		pinyins, err := decodePinyinValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: syllables[%q]: %v", ErrDictionaryMalformed, yiChar, err)
		}
		for _, pinyin := range pinyins {
			d.syllables[pinyin] = append(d.syllables[pinyin], yiChar)
			d.syllableSet[pinyin] = struct{}{}
		}
	}

	var radicalMap map[string]json.RawMessage
	if err := json.Unmarshal(radicalJSON, &radicalMap); err != nil {
		return nil, fmt.Errorf("%w: radicals: %v", ErrDictionaryMalformed, err)
	}
	for radicalChar, raw := range radicalMap {
		pinyins, err := decodePinyinValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: radicals[%q]: %v", ErrDictionaryMalformed, radicalChar, err)
		}
		for _, pinyin := range pinyins {
			d.radicals[pinyin] = radicalChar
		}
	}

	logging.Logger().Info().
		Int("syllables", len(d.syllableSet)).
		Int("radicals", len(d.radicals)).
		Msg("dictionary loaded")

	return d, nil
}

// decodePinyinValue accepts either a JSON string or a JSON array of strings,
// per spec.md §4.A / §6's tolerated legacy form.
func decodePinyinValue(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var multi []string
	if err := json.Unmarshal(raw, &multi); err == nil {
		return multi, nil
	}
	return nil, fmt.Errorf("value is neither a string nor an array of strings")
}

// Lookup returns the Yi characters mapped from pinyin, or nil if absent.
func (d *Dictionary) Lookup(pinyin string) []string {
	return d.syllables[pinyin]
}

// Radical returns the radical mapped from pinyin and whether it was found.
func (d *Dictionary) Radical(pinyin string) (string, bool) {
	r, ok := d.radicals[pinyin]
	return r, ok
}

// ContainsSyllable reports whether pinyin is a member of the syllable set.
func (d *Dictionary) ContainsSyllable(pinyin string) bool {
	_, ok := d.syllableSet[pinyin]
	return ok
}

// PrefixMatch is one (pinyin, yi_chars) pair whose pinyin starts with a
// queried prefix.
type PrefixMatch struct {
	Pinyin  string
	YiChars []string
}

// PrefixMatches returns every syllable entry whose pinyin starts with
// prefix, sorted by pinyin length then lexicographically (mirrors the
// original's fuzzy_query ordering).
func (d *Dictionary) PrefixMatches(prefix string) []PrefixMatch {
	var out []PrefixMatch
	for pinyin, chars := range d.syllables {
		if strings.HasPrefix(pinyin, prefix) {
			out = append(out, PrefixMatch{Pinyin: pinyin, YiChars: chars})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Pinyin) != len(out[j].Pinyin) {
			return len(out[i].Pinyin) < len(out[j].Pinyin)
		}
		return out[i].Pinyin < out[j].Pinyin
	})
	return out
}

// RadicalPrefixMatches returns every radical entry whose pinyin starts with
// prefix.
func (d *Dictionary) RadicalPrefixMatches(prefix string) []PrefixMatch {
	var out []PrefixMatch
	for pinyin, radical := range d.radicals {
		if strings.HasPrefix(pinyin, prefix) {
			out = append(out, PrefixMatch{Pinyin: pinyin, YiChars: []string{radical}})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Pinyin) != len(out[j].Pinyin) {
			return len(out[i].Pinyin) < len(out[j].Pinyin)
		}
		return out[i].Pinyin < out[j].Pinyin
	})
	return out
}

// HasPrefix reports whether any syllable or radical pinyin starts with
// prefix — the "potential consonant" test from the candidate builder.
func (d *Dictionary) HasPrefix(prefix string) bool {
	for pinyin := range d.syllables {
		if strings.HasPrefix(pinyin, prefix) {
			return true
		}
	}
	for pinyin := range d.radicals {
		if strings.HasPrefix(pinyin, prefix) {
			return true
		}
	}
	return false
}

// Stats reports the size of the loaded tables.
func (d *Dictionary) Stats() Stats {
	return Stats{
		SyllableCount: len(d.syllableSet),
		RadicalCount:  len(d.radicals),
	}
}
