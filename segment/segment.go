// Package segment implements the dynamic-programming pinyin segmenter: it
// partitions an ASCII buffer into a deduplicated, confidence-ranked list of
// candidate syllable sequences, resolving the ambiguous letters (p t x r y)
// that can belong to either side of a syllable boundary.
package segment

import (
	"sort"
	"strings"

	"github.com/tanpero/yi-ime/dict"
)

const resultCap = 10

// ambiguous is the set of letters that may act as a preceding syllable's
// coda/tone or as the next syllable's onset. Per spec.md §9's design note,
// 'w' is deliberately excluded — it is handled as a late-stage reference
// mark expansion in the candidate builder instead.
var ambiguous = map[byte]struct{}{
	'p': {}, 't': {}, 'x': {}, 'r': {}, 'y': {},
}

func isAmbiguousChar(c byte) bool {
	_, ok := ambiguous[c]
	return ok
}

func containsAmbiguous(s string) bool {
	for i := 0; i < len(s); i++ {
		if isAmbiguousChar(s[i]) {
			return true
		}
	}
	return false
}

// Result is one candidate partitioning of the input: an ordered sequence of
// pinyin segments, the parallel Yi-character sets each segment maps to, and
// an overall confidence in [0, 1].
type Result struct {
	Segments   []string
	YiChars    [][]string
	Confidence float32
}

// Segmenter runs the DP segmentation algorithm against a Dictionary.
type Segmenter struct {
	d *dict.Dictionary
}

// New returns a Segmenter backed by d.
func New(d *dict.Dictionary) *Segmenter {
	return &Segmenter{d: d}
}

// Segment returns a deduplicated, descending-confidence list of at most
// ten Results for input. Empty input, or input containing characters
// outside [a-z], returns an empty list.
func (s *Segmenter) Segment(input string) []Result {
	if input == "" {
		return nil
	}
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c < 'a' || c > 'z' {
			return nil
		}
	}

	results := s.dpSegment(input)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return deduplicate(results, resultCap)
}

// dpSegment is the forward DP: dp[i] holds every partial Result that
// consumes exactly the first i bytes of input.
func (s *Segmenter) dpSegment(input string) []Result {
	n := len(input)
	dp := make([][]Result, n+1)
	dp[0] = []Result{{Segments: nil, YiChars: nil, Confidence: 1.0}}

	for i := 1; i <= n; i++ {
		var next []Result
		for j := 0; j < i; j++ {
			if len(dp[j]) == 0 {
				continue
			}
			segment := input[j:i]

			if yiChars := s.d.Lookup(segment); len(yiChars) > 0 {
				conf := segmentConfidence(segment)
				for _, prev := range dp[j] {
					next = append(next, extend(prev, segment, yiChars, conf))
				}
			}

			if i > j+1 {
				for _, pair := range ambiguousSplits(s.d, input[j:i]) {
					for _, prev := range dp[j] {
						r := prev
						r.Segments = append(append([]string{}, prev.Segments...), pair.segments...)
						r.YiChars = append(append([][]string{}, prev.YiChars...), pair.yiChars...)
						r.Confidence = prev.Confidence * pair.confidence
						next = append(next, r)
					}
				}
			}
		}
		dp[i] = next
	}

	return dp[n]
}

func extend(prev Result, segment string, yiChars []string, conf float32) Result {
	r := Result{
		Segments:   append(append([]string{}, prev.Segments...), segment),
		YiChars:    append(append([][]string{}, prev.YiChars...), append([]string{}, yiChars...)),
		Confidence: prev.Confidence * conf,
	}
	return r
}

type ambiguousSplit struct {
	segments   []string
	yiChars    [][]string
	confidence float32
}

// ambiguousSplits tries every interior split point of chars and keeps the
// ones where both halves are valid syllables, provided chars actually
// contains an ambiguous letter.
func ambiguousSplits(d *dict.Dictionary, chars string) []ambiguousSplit {
	if !containsAmbiguous(chars) {
		return nil
	}
	var out []ambiguousSplit
	for splitPos := 1; splitPos < len(chars); splitPos++ {
		left, right := chars[:splitPos], chars[splitPos:]
		leftChars, rightChars := d.Lookup(left), d.Lookup(right)
		if len(leftChars) == 0 || len(rightChars) == 0 {
			continue
		}
		conf := ambiguousConfidence(left, right)
		out = append(out, ambiguousSplit{
			segments:   []string{left, right},
			yiChars:    [][]string{append([]string{}, leftChars...), append([]string{}, rightChars...)},
			confidence: conf,
		})
	}
	return out
}

// segmentConfidence is the base-by-length score, multiplied by 0.8 when the
// segment contains an ambiguous letter, per spec.md §4.B.
func segmentConfidence(segment string) float32 {
	var base float32
	switch len(segment) {
	case 1:
		base = 0.6
	case 2:
		base = 0.9
	case 3:
		base = 0.8
	default:
		base = 0.7
	}
	if containsAmbiguous(segment) {
		base *= 0.8
	}
	return base
}

// ambiguousConfidence is the combined score for a two-way ambiguous split.
func ambiguousConfidence(left, right string) float32 {
	return (segmentConfidence(left) + segmentConfidence(right)) / 2.0 * 0.7
}

// deduplicate keeps the first (highest-confidence, since results are
// pre-sorted) occurrence of each distinct joined-segments key, capped at
// limit entries.
func deduplicate(results []Result, limit int) []Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]Result, 0, limit)
	for _, r := range results {
		key := strings.Join(r.Segments, "-")
		if _, dup := seen[key]; dup {
			continue
		}
		if len(out) >= limit {
			break
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
