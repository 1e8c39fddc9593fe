package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/history"
)

func sampleTotals() history.Totals {
	return history.Summarize(sampleSessions(), "FOCUS")
}

func TestWriteReportMarkdown(t *testing.T) {
	var out bytes.Buffer
	if err := writeReport(&out, "md", "2026-W09", sampleTotals()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Week 2026-W09", "FOCUS", "LONG BREAK", "Pomodoros           1", "Abandoned           1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("report missing %q:\n%s", want, out.String())
		}
	}
}

func TestWriteReportJSON(t *testing.T) {
	var out bytes.Buffer
	if err := writeReport(&out, "json", "2026-W09", sampleTotals()); err != nil {
		t.Fatal(err)
	}
	var got weekReport
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Minutes["FOCUS"] != 25 || got.Minutes["SHORT_BREAK"] != 2 || got.TotalMinutes != 27 {
		t.Errorf("report = %+v", got)
	}
}

func TestWriteReportCSV(t *testing.T) {
	var out bytes.Buffer
	if err := writeReport(&out, "csv", "2026-W09", sampleTotals()); err != nil {
		t.Fatal(err)
	}
	want := "mode,duration_minutes\nFOCUS,25\nSHORT_BREAK,2\nLONG_BREAK,0\n"
	if out.String() != want {
		t.Errorf("csv = %q, want %q", out.String(), want)
	}
}
