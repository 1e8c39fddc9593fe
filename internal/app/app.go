// Package app wires the timer, task list and history to storage. It owns
// the only Store instance of a process, saves it after every action and
// catches up on time that passed while no process was running.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/config"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/history"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/model"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/storage"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/tasks"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timecalc"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timer"
)

// TimerKey is the storage key of the persisted timer.
const TimerKey = "pomodoro/timer"

// MaxCatchUp bounds how much missed time is replayed on load.
const MaxCatchUp = 24 * time.Hour

// savedTimer is the persisted record: the timer state plus the moment it
// was written.
type savedTimer struct {
	timer.State
	SavedAt time.Time `json:"savedAt"`
}

// App is the composition root shared by all commands.
type App struct {
	Timer   *timer.Store
	Tasks   *tasks.List
	History *history.Log

	backend storage.Backend
	adapter *storage.Adapter
	logger  *slog.Logger
	now     func() time.Time
}

// Open connects to the configured backend, falling back to in-memory
// storage when it cannot be opened, and restores the saved state.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, now func() time.Time) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Dir, cfg.Storage.SQLitePath)
	if err != nil {
		logger.Warn("storage unavailable, state will not persist", "backend", cfg.Storage.Backend, "err", err)
		backend = storage.NewMemoryBackend()
	}
	return OpenBackend(ctx, backend, cfg, logger, now)
}

// OpenBackend restores the application state from backend.
func OpenBackend(ctx context.Context, backend storage.Backend, cfg config.Config, logger *slog.Logger, now func() time.Time) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if now == nil {
		now = time.Now
	}
	adapter := storage.NewAdapter(backend, logger)
	a := &App{
		Tasks:   tasks.Open(ctx, adapter, now),
		History: history.New(adapter),
		backend: backend,
		adapter: adapter,
		logger:  logger,
		now:     now,
	}
	a.Timer = a.restoreTimer(ctx, cfg)
	return a
}

func (a *App) restoreTimer(ctx context.Context, cfg config.Config) *timer.Store {
	opts := cfg.TimerOptions()
	saved, ok := storage.Load[savedTimer](ctx, a.adapter, TimerKey)
	if !ok {
		a.logger.Debug("no saved timer, starting from defaults")
		return timer.New(cfg.TimerDefaults(), opts)
	}
	store, err := timer.Restore(saved.State, opts)
	if err != nil {
		a.logger.Warn("discarding saved timer", "key", TimerKey, "err", err)
		return timer.New(cfg.TimerDefaults(), opts)
	}

	if store.Running() {
		missed := timecalc.WholeSecondsBetween(saved.SavedAt, a.now(), MaxCatchUp)
		if missed > 0 {
			a.logger.Info("catching up", "seconds", missed, "mode", store.Mode())
			a.Timer = store
			a.record(ctx, store.Advance(missed), saved.SavedAt)
			a.Save(ctx)
		}
	}
	return store
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.backend.Close()
}

// Save persists the timer state.
func (a *App) Save(ctx context.Context) {
	a.adapter.Save(ctx, TimerKey, savedTimer{State: a.Timer.State(), SavedAt: a.now()})
}

// Toggle starts or pauses the timer.
func (a *App) Toggle(ctx context.Context) {
	a.Timer.ToggleRunning()
	a.Save(ctx)
}

// Start starts a paused timer and reports whether anything changed.
func (a *App) Start(ctx context.Context) bool {
	if a.Timer.Running() {
		return false
	}
	a.Toggle(ctx)
	return true
}

// Pause pauses a running timer and reports whether anything changed.
func (a *App) Pause(ctx context.Context) bool {
	if !a.Timer.Running() {
		return false
	}
	a.Toggle(ctx)
	return true
}

// Reset restarts the current interval.
func (a *App) Reset(ctx context.Context) {
	a.abandon(ctx)
	a.Timer.Reset()
	a.Save(ctx)
}

// SwitchMode toggles between focus and a short break.
func (a *App) SwitchMode(ctx context.Context) {
	a.abandon(ctx)
	a.Timer.SwitchMode()
	a.Save(ctx)
}

// Break jumps to a short break.
func (a *App) Break(ctx context.Context) {
	a.abandon(ctx)
	a.Timer.SwitchToBreak()
	a.Save(ctx)
}

// LongBreak jumps to a long break.
func (a *App) LongBreak(ctx context.Context) {
	a.abandon(ctx)
	a.Timer.SwitchToLongBreak()
	a.Save(ctx)
}

// SetDurations changes the mode durations in seconds. Zero leaves a
// duration unchanged.
func (a *App) SetDurations(ctx context.Context, focus, shortBreak, longBreak int) {
	if focus > 0 {
		a.Timer.SetFocusDuration(focus)
	}
	if shortBreak > 0 {
		a.Timer.SetBreakDuration(shortBreak)
	}
	if longBreak > 0 {
		a.Timer.SetLongBreakDuration(longBreak)
	}
	a.Save(ctx)
}

// Tick advances the timer by one second ending now.
func (a *App) Tick(ctx context.Context) []timer.Event {
	if !a.Timer.Running() {
		return nil
	}
	events := a.Timer.Tick()
	a.record(ctx, events, a.now().Add(-time.Second))
	a.Save(ctx)
	return events
}

// record turns expiries into completed sessions. base is the moment just
// before the first tick of the batch that produced events.
func (a *App) record(ctx context.Context, events []timer.Event, base time.Time) {
	for _, e := range events {
		if e.Type != timer.EventExpired {
			a.logger.Debug("mode advanced", "from", e.From, "to", e.To, "breakCount", e.BreakCount)
			continue
		}
		end := base.Add(time.Duration(e.Offset) * time.Second)
		planned := int64(a.Timer.DurationOf(e.From))
		a.History.Record(ctx, model.Session{
			ID:             timecalc.GenerateID(end),
			Mode:           string(e.From),
			Start:          end.Add(-time.Duration(planned) * time.Second),
			End:            end,
			Seconds:        planned,
			PlannedSeconds: planned,
			Completed:      true,
		})
	}
}

// abandon records the current interval as unfinished when time was spent in
// it and it has not already expired.
func (a *App) abandon(ctx context.Context) {
	elapsed := a.Timer.Elapsed()
	if elapsed == 0 || a.Timer.Alarming() {
		return
	}
	end := a.now()
	a.History.Record(ctx, model.Session{
		ID:             timecalc.GenerateID(end),
		Mode:           string(a.Timer.Mode()),
		Start:          end.Add(-time.Duration(elapsed) * time.Second),
		End:            end,
		Seconds:        int64(elapsed),
		PlannedSeconds: int64(a.Timer.DurationOf(a.Timer.Mode())),
		Completed:      false,
	})
}

// Status is a read-only snapshot for display.
type Status struct {
	Mode             timer.Mode `json:"mode"`
	RemainingSeconds int        `json:"remainingSeconds"`
	IsRunning        bool       `json:"isRunning"`
	Alarming         bool       `json:"alarming"`
	BreakCount       int        `json:"breakCount"`
	LongBreakEvery   int        `json:"longBreakEvery"`
	FocusSeconds     int        `json:"focusSeconds"`
	BreakSeconds     int        `json:"breakSeconds"`
	LongBreakSeconds int        `json:"longBreakSeconds"`
	PendingTasks     int        `json:"pendingTasks"`
}

// Status returns the current snapshot.
func (a *App) Status() Status {
	st := a.Timer.State()
	return Status{
		Mode:             st.Mode,
		RemainingSeconds: st.RemainingSeconds,
		IsRunning:        st.IsRunning,
		Alarming:         a.Timer.Alarming(),
		BreakCount:       st.BreakCount,
		LongBreakEvery:   a.Timer.Options().LongBreakEvery,
		FocusSeconds:     st.FocusSeconds,
		BreakSeconds:     st.BreakSeconds,
		LongBreakSeconds: st.LongBreakSeconds,
		PendingTasks:     len(a.Tasks.Pending()),
	}
}
