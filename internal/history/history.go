// Package history keeps a per-day log of finished timer intervals.
package history

import (
	"context"
	"sort"
	"time"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/model"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/storage"
)

// Log reads and writes day files through a storage adapter.
type Log struct {
	adapter *storage.Adapter
}

// New returns a Log backed by adapter.
func New(adapter *storage.Adapter) *Log {
	return &Log{adapter: adapter}
}

// dayKey returns the storage key for the given date.
func dayKey(t time.Time) string {
	return "history/" + t.Format("2006/01/02")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if
// nothing was recorded or the stored file is unreadable.
func (l *Log) LoadDay(ctx context.Context, t time.Time) model.DayFile {
	df, ok := storage.Load[model.DayFile](ctx, l.adapter, dayKey(t))
	if !ok {
		return model.DayFile{Date: t.Format("2006-01-02"), Sessions: []model.Session{}}
	}
	return df
}

// Record appends a session to the day it ended on.
func (l *Log) Record(ctx context.Context, session model.Session) {
	df := l.LoadDay(ctx, session.End)
	for i, s := range df.Sessions {
		if s.ID == session.ID {
			df.Sessions[i] = session
			l.adapter.Save(ctx, dayKey(session.End), df)
			return
		}
	}
	df.Sessions = append(df.Sessions, session)
	l.adapter.Save(ctx, dayKey(session.End), df)
}

// LoadRange loads all sessions in [from, to] inclusive, ordered by end time.
func (l *Log) LoadRange(ctx context.Context, from, to time.Time) []model.Session {
	var sessions []model.Session
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		sessions = append(sessions, l.LoadDay(ctx, d).Sessions...)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].End.Before(sessions[j].End)
	})
	return sessions
}

// Totals aggregates a set of sessions.
type Totals struct {
	// Seconds per mode name.
	Seconds map[string]int64
	// CompletedFocus counts focus intervals that ran to zero.
	CompletedFocus int
	Abandoned      int
}

// Summarize aggregates sessions by mode.
func Summarize(sessions []model.Session, focusMode string) Totals {
	totals := Totals{Seconds: map[string]int64{}}
	for _, s := range sessions {
		totals.Seconds[s.Mode] += s.Seconds
		switch {
		case !s.Completed:
			totals.Abandoned++
		case s.Mode == focusMode:
			totals.CompletedFocus++
		}
	}
	return totals
}
