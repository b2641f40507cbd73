package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tanpero/yi-ime/textutil"
)

func TestGraphemes_SplitsYiCharacters(t *testing.T) {
	assert.Equal(t, []string{"ꃅ", "ꀨ"}, textutil.Graphemes("ꃅꀨ"))
}

func TestGraphemes_EmptyInput(t *testing.T) {
	assert.Empty(t, textutil.Graphemes(""))
}

func TestGraphemes_SingleCharacter(t *testing.T) {
	assert.Equal(t, []string{"ꁧ"}, textutil.Graphemes("ꁧ"))
}
