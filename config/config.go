// Package config loads the user-editable settings file: dictionary paths,
// default input mode, the commit settle interval, and a hotkey code,
// following the teacher's yaml.v2-based configuration style. There is no
// punctuation-table setting.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/tanpero/yi-ime/session"
)

// Config is the on-disk settings shape.
type Config struct {
	// DictionaryPath names an external syllable JSON file. It is parsed
	// but not read by cmd/yiimed, which always loads the embedded
	// syllable dictionary.
	DictionaryPath string `yaml:"dictionary_path"`
	// RadicalPath names an external radical JSON file. It is parsed but
	// not read by cmd/yiimed, which always loads the embedded radicals.
	RadicalPath string `yaml:"radical_path"`
	// InputMode names the startup commit format: yi_only, pinyin_then_yi,
	// pinyin_with_yi_paren, yi_with_pinyin_paren, html_ruby.
	InputMode string `yaml:"input_mode"`
	// SettleMillis overrides the post-commit settle delay, in
	// milliseconds. Zero keeps the built-in default.
	SettleMillis int `yaml:"settle_millis"`
	// HotkeyVK names an activation-toggle virtual-key code. It is parsed
	// but not consulted; the capture hook always toggles on F4.
	HotkeyVK uint32 `yaml:"hotkey_vk"`
}

// Default returns the built-in configuration used when no file is present.
func Default() Config {
	return Config{InputMode: "yi_only"}
}

// Load reads and parses a YAML config file at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// SettleDelay returns the configured post-commit settle delay, or the
// built-in 50ms default if unset.
func (c Config) SettleDelay() time.Duration {
	if c.SettleMillis <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(c.SettleMillis) * time.Millisecond
}

// ResolveInputMode maps the configured mode name to a session.InputMode,
// defaulting to YiOnly on an empty or unrecognized value.
func (c Config) ResolveInputMode() session.InputMode {
	switch c.InputMode {
	case "pinyin_then_yi":
		return session.PinyinThenYi
	case "pinyin_with_yi_paren":
		return session.PinyinWithYiParen
	case "yi_with_pinyin_paren":
		return session.YiWithPinyinParen
	case "html_ruby":
		return session.HtmlRuby
	default:
		return session.YiOnly
	}
}
