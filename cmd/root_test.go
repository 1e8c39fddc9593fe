package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/app"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/tasks"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("tpt %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestCommandsShareState(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")

	if out := execute(t, "--config", cfgPath, "task", "add", "write", "docs"); !strings.Contains(out, "write docs") {
		t.Errorf("task add output = %q", out)
	}
	if out := execute(t, "--config", cfgPath, "task", "list"); !strings.Contains(out, "[ ]") || !strings.Contains(out, "write docs") {
		t.Errorf("task list output = %q", out)
	}

	execute(t, "--config", cfgPath, "set", "--focus", "50m")
	execute(t, "--config", cfgPath, "start")

	var st app.Status
	out := execute(t, "--config", cfgPath, "status", "--json")
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("status --json is not JSON: %v\n%s", err, out)
	}
	if !st.IsRunning || st.FocusSeconds != 3000 || st.PendingTasks != 1 {
		t.Errorf("status = %+v", st)
	}

	if _, err := os.Stat(filepath.Join(dir, "pomodoro", "timer.json")); err != nil {
		t.Errorf("timer not saved under the config directory: %v", err)
	}
}

func TestTaskErrorsNameTheRefOnce(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	for _, sub := range []string{"done", "rm"} {
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"--config", cfgPath, "task", sub, "nope"})
		err := rootCmd.Execute()
		if !errors.Is(err, tasks.ErrNotFound) {
			t.Fatalf("task %s err = %v, want ErrNotFound", sub, err)
		}
		if got := strings.Count(err.Error(), "nope"); got != 1 {
			t.Errorf("task %s err = %q names the ref %d times", sub, err, got)
		}
	}
}
