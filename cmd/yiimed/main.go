// Command yiimed is the resident input method process: it loads the
// dictionary, wires the segmenter, candidate builder, injector, and
// capture hook together, then pumps the platform message loop until the
// process is asked to exit.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/tanpero/yi-ime/candidate"
	"github.com/tanpero/yi-ime/capture"
	"github.com/tanpero/yi-ime/config"
	"github.com/tanpero/yi-ime/dict"
	"github.com/tanpero/yi-ime/global"
	"github.com/tanpero/yi-ime/inject"
	"github.com/tanpero/yi-ime/logging"
	"github.com/tanpero/yi-ime/session"
)

// Exit codes, matching the process-lifecycle section: 0 is a graceful
// shutdown, non-zero marks a startup failure severe enough that the
// process cannot usefully run.
const (
	exitOK                 = 0
	exitDictionaryLoadFail = 1
	exitCaptureInstallFail = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logging.SetLogger(logging.Logger().Level(zerolog.DebugLevel))
	}
	log := logging.Logger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Warn().Err(err).Msg("falling back to default config")
		} else {
			cfg = loaded
		}
	}

	d, err := dict.Load()
	if err != nil {
		log.Error().Err(err).Msg("dictionary load failed")
		return exitDictionaryLoadFail
	}
	stats := d.Stats()
	log.Info().Int("syllables", stats.SyllableCount).Int("radicals", stats.RadicalCount).Msg("dictionary ready")

	flags := global.New()
	builder := candidate.New(d)

	primary := inject.NewTextServicesChannel(inject.StubBridge{})
	fallback := inject.NewClipboardChannel()
	injector := inject.New(primary, fallback)
	defer injector.Close()

	window := newTrayCandidateWindow()
	sess := session.New(builder, injector, window, flags)
	sess.SetMode(cfg.ResolveInputMode())
	sess.SetSettleDelay(cfg.SettleDelay())

	hook := capture.NewHook(flags, func() {
		active := flags.ToggleActive()
		if active {
			// Always come up in Yi mode, matching the reset global_hook.rs
			// performs when is_active flips true.
			flags.SetEnglishState(global.EnglishYi)
		}
		log.Info().Bool("active", active).Msg("input method toggled")
		window.SetLanguage(active)
	})
	if err := hook.Install(); err != nil {
		log.Error().Err(err).Msg("capture hook install failed")
		return exitCaptureInstallFail
	}
	defer hook.Uninstall()

	go func() {
		for ev := range hook.Events() {
			sess.HandleKey(ev)
		}
	}()

	if err := hook.Run(); err != nil {
		log.Error().Err(err).Msg("message loop exited with error")
		return exitCaptureInstallFail
	}

	log.Info().Msg("yiimed shutting down")
	return exitOK
}
