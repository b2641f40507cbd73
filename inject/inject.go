// Package inject implements the text-commit pipeline: a primary
// text-services channel tried first, and a clipboard-paste-simulation
// channel used as a fallback (or exclusively on platforms without a
// text-services binding). Both channels run inside the injecting=true
// window session.Session brackets around every commit (including the
// post-commit settle sleep), so the capture interceptor never re-captures
// the synthesized keystrokes.
//
// The Channel interface is grounded on this repository's wider
// Init/Process/Name/Close provider shape (see common.Provider[In, Out] in
// the reference tree this module grew from); here a "channel" processes
// plain text instead of typed tokens.
package inject

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tanpero/yi-ime/logging"
)

// ErrInjectorInitFailed marks a primary-channel initialization failure.
// Non-fatal: the fallback channel is mandatory and the primary channel is
// disabled for the remainder of the process.
var ErrInjectorInitFailed = errors.New("inject: primary channel init failed")

// ErrInjectorInsertFailed marks a single insert call's failure on a given
// channel. Non-fatal: the caller falls back to the next channel.
var ErrInjectorInsertFailed = errors.New("inject: insert failed")

// Channel is one text-commit path.
type Channel interface {
	Init() error
	Insert(text string) error
	Name() string
	Close() error
}

// state is the injector's own small state machine: Uninitialized ->
// PrimaryReady on a successful primary Init, or -> PrimaryDisabled on a
// failed one. Insert errors do not change state; they fall back per-call.
type state int32

const (
	stateUninitialized state = iota
	statePrimaryReady
	statePrimaryDisabled
)

// Injector owns the primary and fallback channels.
type Injector struct {
	mu       sync.Mutex
	state    state
	primary  Channel
	fallback Channel
}

// New returns an Injector over primary and fallback channels. primary's
// Init is attempted immediately; a failure disables it for the process but
// is not returned as an error, since the fallback channel is mandatory per
// spec.
func New(primary, fallback Channel) *Injector {
	inj := &Injector{primary: primary, fallback: fallback}
	if err := primary.Init(); err != nil {
		logging.Logger().Warn().Err(err).Str("channel", primary.Name()).
			Msg("primary injector channel disabled")
		inj.state = statePrimaryDisabled
	} else {
		inj.state = statePrimaryReady
	}
	return inj
}

// Insert commits text to the host application. It tries the primary
// channel first (if ready), falling back to the clipboard channel on any
// runtime error. The injecting re-entrancy flag is NOT bracketed here: the
// caller (session.Session) must hold it across both this call and the
// post-commit settle sleep, since synthesized clipboard-paste keystrokes
// keep arriving at the hook after Insert already returned.
func (inj *Injector) Insert(text string) error {
	if text == "" {
		return nil
	}

	inj.mu.Lock()
	st := inj.state
	inj.mu.Unlock()

	if st == statePrimaryReady {
		if err := inj.primary.Insert(text); err == nil {
			return nil
		} else {
			logging.Logger().Warn().Err(err).Msg("primary insert failed, falling back")
		}
	}

	if err := inj.fallback.Insert(text); err != nil {
		return fmt.Errorf("%w: %v", ErrInjectorInsertFailed, err)
	}
	return nil
}

// Close releases both channels' resources. Called once at process exit.
func (inj *Injector) Close() error {
	var errs []error
	if err := inj.primary.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := inj.fallback.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
