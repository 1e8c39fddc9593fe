package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/history"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/model"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/storage"
)

func session(id, mode string, end time.Time, seconds int64, completed bool) model.Session {
	return model.Session{
		ID:             id,
		Mode:           mode,
		Start:          end.Add(-time.Duration(seconds) * time.Second),
		End:            end,
		Seconds:        seconds,
		PlannedSeconds: seconds,
		Completed:      completed,
	}
}

func TestLoadDayEmpty(t *testing.T) {
	log := history.New(storage.NewAdapter(storage.NewMemoryBackend(), nil))
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	df := log.LoadDay(context.Background(), day)
	if df.Date != "2026-02-27" {
		t.Errorf("LoadDay date = %q, want %q", df.Date, "2026-02-27")
	}
	if len(df.Sessions) != 0 {
		t.Errorf("LoadDay sessions = %d, want 0", len(df.Sessions))
	}
}

func TestRecordAndLoadRange(t *testing.T) {
	ctx := context.Background()
	backend, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	log := history.New(storage.NewAdapter(backend, nil))

	thu := time.Date(2026, 2, 26, 16, 0, 0, 0, time.UTC)
	fri := time.Date(2026, 2, 27, 9, 25, 0, 0, time.UTC)
	log.Record(ctx, session("s2", "FOCUS", fri, 1500, true))
	log.Record(ctx, session("s1", "FOCUS", thu, 1500, true))
	log.Record(ctx, session("s3", "SHORT_BREAK", fri.Add(5*time.Minute), 300, true))
	// Re-recording the same ID replaces it.
	log.Record(ctx, session("s3", "SHORT_BREAK", fri.Add(5*time.Minute), 120, false))

	got := log.LoadRange(ctx, time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC))
	if len(got) != 3 {
		t.Fatalf("LoadRange = %d sessions, want 3", len(got))
	}
	if got[0].ID != "s1" || got[1].ID != "s2" || got[2].ID != "s3" {
		t.Errorf("order = %s %s %s, want s1 s2 s3", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[2].Seconds != 120 || got[2].Completed {
		t.Errorf("replaced session = %+v", got[2])
	}
}

func TestSummarize(t *testing.T) {
	end := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	totals := history.Summarize([]model.Session{
		session("a", "FOCUS", end, 1500, true),
		session("b", "FOCUS", end, 600, false),
		session("c", "SHORT_BREAK", end, 300, true),
	}, "FOCUS")

	if totals.Seconds["FOCUS"] != 2100 {
		t.Errorf("focus seconds = %d, want 2100", totals.Seconds["FOCUS"])
	}
	if totals.Seconds["SHORT_BREAK"] != 300 {
		t.Errorf("break seconds = %d, want 300", totals.Seconds["SHORT_BREAK"])
	}
	if totals.CompletedFocus != 1 || totals.Abandoned != 1 {
		t.Errorf("completed = %d abandoned = %d, want 1 and 1", totals.CompletedFocus, totals.Abandoned)
	}
}
