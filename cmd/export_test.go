package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func sampleSessions() []model.Session {
	end := time.Date(2026, 2, 27, 9, 25, 0, 0, time.UTC)
	return []model.Session{
		{ID: "a", Mode: "FOCUS", Start: end.Add(-25 * time.Minute), End: end, Seconds: 1500, PlannedSeconds: 1500, Completed: true},
		{ID: "b", Mode: "SHORT_BREAK", Start: end, End: end.Add(2 * time.Minute), Seconds: 120, PlannedSeconds: 300},
	}
}

func TestWriteExportCSV(t *testing.T) {
	var out bytes.Buffer
	if err := writeExport(&out, "csv", sampleSessions()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), out.String())
	}
	want := "2026-02-27,FOCUS,2026-02-27T09:00:00Z,2026-02-27T09:25:00Z,25,25,true"
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
	if !strings.HasSuffix(lines[2], ",2,5,false") {
		t.Errorf("abandoned row = %q", lines[2])
	}
}

func TestWriteExportYAML(t *testing.T) {
	var out bytes.Buffer
	if err := writeExport(&out, "yaml", sampleSessions()); err != nil {
		t.Fatal(err)
	}
	var got []model.Session
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if len(got) != 2 || got[0].Mode != "FOCUS" || got[1].PlannedSeconds != 300 {
		t.Errorf("decoded = %+v", got)
	}
	if !strings.Contains(out.String(), "planned_seconds: 300") {
		t.Errorf("missing snake_case key:\n%s", out.String())
	}
}

func TestWriteExportEmptyJSON(t *testing.T) {
	var out bytes.Buffer
	if err := writeExport(&out, "json", nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Errorf("empty export = %q, want []", out.String())
	}
}

func TestWriteExportUnknownFormat(t *testing.T) {
	if err := writeExport(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
