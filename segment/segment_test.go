package segment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanpero/yi-ime/dict"
	"github.com/tanpero/yi-ime/segment"
)

var testDict = func() *dict.Dictionary {
	d, err := dict.LoadFromBytes([]byte(`{
		"ꀠ": "ba",
		"ꀡ": "bap",
		"ꀋ": "p",
		"ꁧ": "bo"
	}`), []byte(`{}`))
	if err != nil {
		panic(err)
	}
	return d
}()

func TestSegment_AmbiguousBoundary(t *testing.T) {
	s := segment.New(testDict)
	results := s.Segment("bap")
	require.NotEmpty(t, results)

	var sawWhole, sawSplit bool
	for _, r := range results {
		t.Logf("segments=%v confidence=%f", r.Segments, r.Confidence)
		switch {
		case len(r.Segments) == 1 && r.Segments[0] == "bap":
			sawWhole = true
			assert.InDelta(t, float32(0.8*0.8), r.Confidence, 1e-6)
		case len(r.Segments) == 2 && r.Segments[0] == "ba" && r.Segments[1] == "p":
			sawSplit = true
			assert.InDelta(t, float32((0.9+0.6*0.8)/2*0.7), r.Confidence, 1e-6)
		}
	}
	assert.True(t, sawWhole, "expected the whole-syllable segmentation [bap]")
	assert.True(t, sawSplit, "expected the ambiguous split [ba, p]")
}

func TestSegment_SortedDescendingAndDeduplicated(t *testing.T) {
	s := segment.New(testDict)
	results := s.Segment("bap")
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Confidence, results[i].Confidence)
	}
	seen := make(map[string]bool)
	for _, r := range results {
		key := ""
		for _, seg := range r.Segments {
			key += seg + "-"
		}
		assert.False(t, seen[key], "duplicate segmentation key %q", key)
		seen[key] = true
	}
}

func TestSegment_EmptyInput(t *testing.T) {
	s := segment.New(testDict)
	assert.Empty(t, s.Segment(""))
}

func TestSegment_RejectsNonLowercase(t *testing.T) {
	s := segment.New(testDict)
	assert.Empty(t, s.Segment("Bap"))
	assert.Empty(t, s.Segment("ba1"))
}

func TestSegment_SimpleSyllable(t *testing.T) {
	s := segment.New(testDict)
	results := s.Segment("bo")
	require.Len(t, results, 1)
	assert.Equal(t, []string{"bo"}, results[0].Segments)
	assert.Equal(t, [][]string{{"ꁧ"}}, results[0].YiChars)
}
