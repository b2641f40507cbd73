package global_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tanpero/yi-ime/global"
)

func TestNew_StartupState(t *testing.T) {
	f := global.New()
	assert.False(t, f.IsActive())
	assert.True(t, f.BufferEmpty())
	assert.False(t, f.Injecting())
	assert.Equal(t, global.EnglishYi, f.EnglishState())
}

func TestToggleActive(t *testing.T) {
	f := global.New()
	assert.True(t, f.ToggleActive())
	assert.True(t, f.IsActive())
	assert.False(t, f.ToggleActive())
	assert.False(t, f.IsActive())
}

func TestSetBufferEmpty(t *testing.T) {
	f := global.New()
	f.SetBufferEmpty(false)
	assert.False(t, f.BufferEmpty())
}

func TestSetEnglishState(t *testing.T) {
	f := global.New()
	f.SetEnglishState(global.EnglishUpperCase)
	assert.Equal(t, global.EnglishUpperCase, f.EnglishState())
}
