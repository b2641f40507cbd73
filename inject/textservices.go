package inject

import (
	"errors"
	"fmt"
)

// Bridge models the three-function C-ABI text-services contract (init,
// insert, cleanup) with its integer return codes preserved verbatim, so a
// future cgo binding to a real text-services implementation can satisfy
// this interface without changing Injector. StubBridge below is the
// pure-Go implementation actually wired in by default, reporting "no
// text-services runtime present" via the documented -3 activation-failed
// code.
type Bridge interface {
	Initialize() int
	InsertText(text string) int
	Cleanup() int
}

// Bridge init() codes.
const (
	bridgeInitOK                  = 0
	bridgeInitErrCOM              = -1
	bridgeInitErrServiceCreation  = -2
	bridgeInitErrActivationFailed = -3
)

// Bridge insert() codes.
const (
	bridgeInsertOK                    = 0
	bridgeInsertErrNotInitialized     = -1
	bridgeInsertErrEncodingFailed     = -2
	bridgeInsertErrInsertFailed       = -3
	bridgeInsertErrNoFocusContext     = -4
	bridgeInsertErrInsufficientMemory = -5
)

// TextServicesChannel adapts a Bridge into a Channel, translating its
// integer codes into Go errors.
type TextServicesChannel struct {
	bridge      Bridge
	initialized bool
}

// NewTextServicesChannel wraps bridge as a Channel.
func NewTextServicesChannel(bridge Bridge) *TextServicesChannel {
	return &TextServicesChannel{bridge: bridge}
}

func (c *TextServicesChannel) Name() string { return "textservices" }

func (c *TextServicesChannel) Init() error {
	switch code := c.bridge.Initialize(); code {
	case bridgeInitOK:
		c.initialized = true
		return nil
	case bridgeInitErrCOM:
		return fmt.Errorf("%w: COM initialization failed", ErrInjectorInitFailed)
	case bridgeInitErrServiceCreation:
		return fmt.Errorf("%w: service creation failed", ErrInjectorInitFailed)
	case bridgeInitErrActivationFailed:
		return fmt.Errorf("%w: activation failed", ErrInjectorInitFailed)
	default:
		return fmt.Errorf("%w: unknown init code %d", ErrInjectorInitFailed, code)
	}
}

func (c *TextServicesChannel) Insert(text string) error {
	if !c.initialized {
		return fmt.Errorf("%w: channel not initialized", ErrInjectorInsertFailed)
	}
	if text == "" {
		return nil
	}
	switch code := c.bridge.InsertText(text); code {
	case bridgeInsertOK:
		return nil
	case bridgeInsertErrNotInitialized:
		return fmt.Errorf("%w: not initialized", ErrInjectorInsertFailed)
	case bridgeInsertErrEncodingFailed:
		return fmt.Errorf("%w: encoding conversion failed", ErrInjectorInsertFailed)
	case bridgeInsertErrInsertFailed:
		return fmt.Errorf("%w: insert failed", ErrInjectorInsertFailed)
	case bridgeInsertErrNoFocusContext:
		return fmt.Errorf("%w: no focus context", ErrInjectorInsertFailed)
	case bridgeInsertErrInsufficientMemory:
		return fmt.Errorf("%w: insufficient memory", ErrInjectorInsertFailed)
	default:
		return fmt.Errorf("%w: unknown insert code %d", ErrInjectorInsertFailed, code)
	}
}

func (c *TextServicesChannel) Close() error {
	if !c.initialized {
		return nil
	}
	c.initialized = false
	if code := c.bridge.Cleanup(); code != 0 {
		return fmt.Errorf("textservices cleanup: non-zero code %d", code)
	}
	return nil
}

// StubBridge is the default, platform-agnostic Bridge: it reports
// activation failure at init so the injector falls straight through to the
// clipboard channel. A real cgo or Windows TSF/IMM32 binding can replace it
// without touching TextServicesChannel or Injector.
type StubBridge struct{}

func (StubBridge) Initialize() int       { return bridgeInitErrActivationFailed }
func (StubBridge) InsertText(string) int { return bridgeInsertErrNotInitialized }
func (StubBridge) Cleanup() int          { return 0 }

var errStubBridgeUnused = errors.New("inject: StubBridge never serves inserts")

// Err reports why StubBridge never serves inserts. No caller in this module
// uses it.
func (StubBridge) Err() error { return errStubBridgeUnused }
