package inject_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanpero/yi-ime/inject"
)

type recordingChannel struct {
	name       string
	initErr    error
	insertErr  error
	inserted   []string
	closeCalls int
}

func (c *recordingChannel) Name() string { return c.name }
func (c *recordingChannel) Init() error  { return c.initErr }
func (c *recordingChannel) Insert(text string) error {
	if c.insertErr != nil {
		return c.insertErr
	}
	c.inserted = append(c.inserted, text)
	return nil
}
func (c *recordingChannel) Close() error { c.closeCalls++; return nil }

func TestInjector_UsesPrimaryWhenReady(t *testing.T) {
	primary := &recordingChannel{name: "primary"}
	fallback := &recordingChannel{name: "fallback"}
	inj := inject.New(primary, fallback)

	require.NoError(t, inj.Insert("ꁧ"))
	assert.Equal(t, []string{"ꁧ"}, primary.inserted)
	assert.Empty(t, fallback.inserted)
}

func TestInjector_FallsBackWhenPrimaryInitFails(t *testing.T) {
	primary := &recordingChannel{name: "primary", initErr: errors.New("no com")}
	fallback := &recordingChannel{name: "fallback"}
	inj := inject.New(primary, fallback)

	require.NoError(t, inj.Insert("ꁧ"))
	assert.Empty(t, primary.inserted)
	assert.Equal(t, []string{"ꁧ"}, fallback.inserted)
}

func TestInjector_FallsBackWhenPrimaryInsertFails(t *testing.T) {
	primary := &recordingChannel{name: "primary", insertErr: errors.New("insert failed")}
	fallback := &recordingChannel{name: "fallback"}
	inj := inject.New(primary, fallback)

	require.NoError(t, inj.Insert("ꁧ"))
	assert.Equal(t, []string{"ꁧ"}, fallback.inserted)
}

func TestInjector_EmptyTextIsNoOp(t *testing.T) {
	primary := &recordingChannel{name: "primary"}
	fallback := &recordingChannel{name: "fallback"}
	inj := inject.New(primary, fallback)

	require.NoError(t, inj.Insert(""))
	assert.Empty(t, primary.inserted)
	assert.Empty(t, fallback.inserted)
}

func TestInjector_CloseClosesBothChannels(t *testing.T) {
	primary := &recordingChannel{name: "primary"}
	fallback := &recordingChannel{name: "fallback"}
	inj := inject.New(primary, fallback)

	require.NoError(t, inj.Close())
	assert.Equal(t, 1, primary.closeCalls)
	assert.Equal(t, 1, fallback.closeCalls)
}

type codeBridge struct {
	initCode   int
	insertCode int
}

func (b *codeBridge) Initialize() int       { return b.initCode }
func (b *codeBridge) InsertText(string) int { return b.insertCode }
func (b *codeBridge) Cleanup() int          { return 0 }

func TestTextServicesChannel_InitErrorCodesTranslate(t *testing.T) {
	ch := inject.NewTextServicesChannel(&codeBridge{initCode: -2})
	err := ch.Init()
	assert.ErrorIs(t, err, inject.ErrInjectorInitFailed)
}

func TestTextServicesChannel_SuccessfulRoundTrip(t *testing.T) {
	ch := inject.NewTextServicesChannel(&codeBridge{initCode: 0, insertCode: 0})
	require.NoError(t, ch.Init())
	require.NoError(t, ch.Insert("ꁧ"))
	require.NoError(t, ch.Close())
}

func TestTextServicesChannel_InsertBeforeInitFails(t *testing.T) {
	ch := inject.NewTextServicesChannel(&codeBridge{})
	err := ch.Insert("ꁧ")
	assert.ErrorIs(t, err, inject.ErrInjectorInsertFailed)
}

func TestStubBridge_AlwaysDisablesPrimary(t *testing.T) {
	primary := inject.NewTextServicesChannel(inject.StubBridge{})
	err := primary.Init()
	assert.Error(t, err)
}
