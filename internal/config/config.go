package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/storage"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timer"
)

// Config is the root configuration for tpt, stored in ~/.tpt/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Timer   TimerConfig   `mapstructure:"timer"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// TimerConfig seeds a fresh timer and sets its runtime behaviour. Durations
// only apply when no saved timer state exists.
type TimerConfig struct {
	FocusSeconds     int `mapstructure:"focus_seconds"`
	BreakSeconds     int `mapstructure:"break_seconds"`
	LongBreakSeconds int `mapstructure:"long_break_seconds"`
	// LongBreakEvery is the number of short breaks before a long break.
	LongBreakEvery int `mapstructure:"long_break_every"`
	// ZeroPolicy is "grace" (alarm window before the next mode) or "immediate".
	ZeroPolicy   string `mapstructure:"zero_policy"`
	GraceSeconds int    `mapstructure:"grace_seconds"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EnvPrefix prefixes environment overrides, e.g. TPT_TIMER_FOCUS_SECONDS.
const EnvPrefix = "TPT"

// FlagKeys maps persistent command-line flags to configuration keys.
var FlagKeys = map[string]string{
	"data-dir":  "storage.dir",
	"backend":   "storage.backend",
	"log-level": "log.level",
}

// defaults returns the built-in value of every key.
func defaults(dataDir string) map[string]any {
	return map[string]any{
		"timer.focus_seconds":      timer.DefaultFocusSeconds,
		"timer.break_seconds":      timer.DefaultBreakSeconds,
		"timer.long_break_seconds": timer.DefaultLongBreakSeconds,
		"timer.long_break_every":   timer.DefaultLongBreakEvery,
		"timer.zero_policy":        timer.AdvanceAfterGrace.String(),
		"timer.grace_seconds":      timer.DefaultGraceSeconds,
		"storage.backend":          storage.KindFile,
		"storage.dir":              dataDir,
		"storage.sqlite_path":      "",
		"log.level":                "warn",
		"log.format":               "text",
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// tpt configuration – ~/.tpt/config.json
//
// All settings are optional. Every key can also be set through the
// environment, e.g. TPT_TIMER_FOCUS_SECONDS=3000 or TPT_STORAGE_BACKEND=sqlite.
{
  // ── Timer ────────────────────────────────────────────────────────────────
  "timer": {
    // Durations in seconds. They seed a fresh timer only; once a timer has
    // been saved, change durations with: tpt set --focus 50m
    "focus_seconds": 1500,
    "break_seconds": 300,
    "long_break_seconds": 900,

    // Short breaks before a long break is due.
    "long_break_every": 4,

    // What happens when the countdown reaches zero:
    // • "grace"     – ring for grace_seconds, then start the next mode (default)
    // • "immediate" – start the next mode on the next tick
    "zero_policy": "grace",
    "grace_seconds": 5
  },

  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // "file" (one JSON file per key in ~/.tpt), "sqlite" or "memory".
    "backend": "file"
  },

  // ── Logging ──────────────────────────────────────────────────────────────
  "log": {
    // debug, info, warn or error. Output goes to stderr.
    "level": "warn",
    // "text" or "json"
    "format": "text"
  }
}
`

// DefaultPath returns the path to ~/.tpt/config.json.
func DefaultPath() (string, error) {
	base, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.json"), nil
}

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	dataDir, _ := storage.BaseDir()
	v := newViper(dataDir)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

func newViper(dataDir string) *viper.Viper {
	v := viper.New()
	for key, value := range defaults(dataDir) {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config file at path, creating it with annotated defaults on
// first run, then layers TPT_* environment variables and any changed flags
// from flags on top. An empty path uses DefaultPath. The returned warnings
// list values that were replaced by defaults.
func Load(path string, flags *pflag.FlagSet) (Config, []string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil, err
		}
		path = p
	}

	v := newViper(filepath.Dir(path))
	v.SetConfigType("json")

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return Default(), nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := v.ReadConfig(bytes.NewReader(stripLineComments(data))); err != nil {
			return Default(), nil, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Default(), nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), nil, fmt.Errorf("decoding config: %w", err)
	}
	warnings := cfg.normalize(filepath.Dir(path))
	return cfg, warnings, nil
}

// normalize replaces unusable values with defaults.
func (cfg *Config) normalize(dataDir string) []string {
	var warnings []string
	fix := func(key string, bad bool, apply func()) {
		if bad {
			warnings = append(warnings, fmt.Sprintf("invalid %s, using default", key))
			apply()
		}
	}

	t := &cfg.Timer
	fix("timer.focus_seconds", t.FocusSeconds <= 0, func() { t.FocusSeconds = timer.DefaultFocusSeconds })
	fix("timer.break_seconds", t.BreakSeconds <= 0, func() { t.BreakSeconds = timer.DefaultBreakSeconds })
	fix("timer.long_break_seconds", t.LongBreakSeconds <= 0, func() { t.LongBreakSeconds = timer.DefaultLongBreakSeconds })
	fix("timer.long_break_every", t.LongBreakEvery <= 0, func() { t.LongBreakEvery = timer.DefaultLongBreakEvery })
	fix("timer.grace_seconds", t.GraceSeconds <= 0, func() { t.GraceSeconds = timer.DefaultGraceSeconds })
	_, policyErr := timer.ParsePolicy(t.ZeroPolicy)
	fix("timer.zero_policy", policyErr != nil, func() { t.ZeroPolicy = timer.AdvanceAfterGrace.String() })

	s := &cfg.Storage
	switch s.Backend {
	case storage.KindFile, storage.KindSQLite, storage.KindMemory:
	default:
		fix("storage.backend", true, func() { s.Backend = storage.KindFile })
	}
	fix("storage.dir", s.Dir == "", func() { s.Dir = dataDir })

	l := &cfg.Log
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		fix("log.level", true, func() { l.Level = "warn" })
	}
	fix("log.format", l.Format != "text" && l.Format != "json", func() { l.Format = "text" })
	return warnings
}

// TimerOptions converts the timer section to store options.
func (cfg Config) TimerOptions() timer.Options {
	policy, _ := timer.ParsePolicy(cfg.Timer.ZeroPolicy)
	return timer.Options{
		Policy:         policy,
		GraceSeconds:   cfg.Timer.GraceSeconds,
		LongBreakEvery: cfg.Timer.LongBreakEvery,
	}
}

// TimerDefaults converts the timer section to the durations of a fresh timer.
func (cfg Config) TimerDefaults() timer.Config {
	return timer.Config{
		FocusSeconds:     cfg.Timer.FocusSeconds,
		BreakSeconds:     cfg.Timer.BreakSeconds,
		LongBreakSeconds: cfg.Timer.LongBreakSeconds,
	}
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
