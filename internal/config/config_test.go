package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/config"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timer"
)

func TestLoadFirstRunWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, warnings, err := config.Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if cfg.Timer.FocusSeconds != timer.DefaultFocusSeconds || cfg.Timer.ZeroPolicy != "grace" {
		t.Errorf("cfg.Timer = %+v, want defaults", cfg.Timer)
	}
	if cfg.Storage.Dir != filepath.Dir(path) {
		t.Errorf("Storage.Dir = %q, want %q", cfg.Storage.Dir, filepath.Dir(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected template to be written: %v", err)
	}

	// The written template must parse back to the same values.
	again, _, err := config.Load(path, nil)
	if err != nil {
		t.Fatalf("Load template: %v", err)
	}
	if again != cfg {
		t.Errorf("template config = %+v, want %+v", again, cfg)
	}
}

func TestLoadCommentedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `// my settings
{
  // longer focus
  "timer": { "focus_seconds": 3000, "zero_policy": "immediate" },
  "storage": { "backend": "sqlite" }
}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := config.Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timer.FocusSeconds != 3000 {
		t.Errorf("FocusSeconds = %d, want 3000", cfg.Timer.FocusSeconds)
	}
	if cfg.Timer.BreakSeconds != timer.DefaultBreakSeconds {
		t.Errorf("BreakSeconds = %d, want default", cfg.Timer.BreakSeconds)
	}
	if cfg.TimerOptions().Policy != timer.AdvanceImmediately {
		t.Errorf("Policy = %v, want immediate", cfg.TimerOptions().Policy)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", cfg.Storage.Backend)
	}
}

func TestLoadEnvAndFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"log": {"level": "info"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TPT_TIMER_BREAK_SECONDS", "420")
	t.Setenv("TPT_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "", "")
	flags.String("data-dir", "", "")
	if err := flags.Parse([]string{"--backend", "memory"}); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := config.Load(path, flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timer.BreakSeconds != 420 {
		t.Errorf("BreakSeconds = %d, want 420 from env", cfg.Timer.BreakSeconds)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want env value error", cfg.Log.Level)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q, want flag value memory", cfg.Storage.Backend)
	}
	if cfg.Storage.Dir != filepath.Dir(path) {
		t.Errorf("unchanged --data-dir flag overrode Storage.Dir: %q", cfg.Storage.Dir)
	}
}

func TestLoadNormalizesInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "timer": { "focus_seconds": -1, "grace_seconds": 0, "zero_policy": "sometimes" },
  "storage": { "backend": "cloud" },
  "log": { "level": "loud", "format": "xml" }
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, warnings, err := config.Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 6 {
		t.Errorf("warnings = %v, want 6", warnings)
	}
	if cfg.Timer.FocusSeconds != timer.DefaultFocusSeconds || cfg.Timer.GraceSeconds != timer.DefaultGraceSeconds {
		t.Errorf("cfg.Timer = %+v", cfg.Timer)
	}
	if cfg.Timer.ZeroPolicy != "grace" || cfg.Storage.Backend != "file" {
		t.Errorf("policy/backend = %q/%q", cfg.Timer.ZeroPolicy, cfg.Storage.Backend)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("cfg.Log = %+v", cfg.Log)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := config.Load(path, nil)
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}
	if cfg.Timer.FocusSeconds != timer.DefaultFocusSeconds {
		t.Errorf("fallback FocusSeconds = %d, want default", cfg.Timer.FocusSeconds)
	}
}
