// Package timer implements the Pomodoro state machine: three modes with
// configurable durations, a run/pause flag, a countdown and the break
// counter that decides when a long break is due.
//
// The store performs no I/O and never reads the wall clock. Time only moves
// when a driver calls Tick or Advance. A Store is not safe for concurrent
// use; callers serialize access.
package timer

import (
	"errors"
	"fmt"
)

// Default durations in seconds.
const (
	DefaultFocusSeconds     = 25 * 60
	DefaultBreakSeconds     = 5 * 60
	DefaultLongBreakSeconds = 15 * 60

	DefaultGraceSeconds   = 5
	DefaultLongBreakEvery = 4
)

// ErrInvalidState is returned by Restore for states that cannot be resumed.
var ErrInvalidState = errors.New("invalid timer state")

// Policy decides what a tick does once the countdown has reached zero.
type Policy int

const (
	// AdvanceAfterGrace keeps the timer at zero for GraceSeconds ticks (the
	// alarm window) before moving to the next mode.
	AdvanceAfterGrace Policy = iota
	// AdvanceImmediately moves to the next mode on the first tick at zero.
	AdvanceImmediately
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if p == AdvanceImmediately {
		return "immediate"
	}
	return "grace"
}

// ParsePolicy maps a configuration name to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "grace", "":
		return AdvanceAfterGrace, nil
	case "immediate":
		return AdvanceImmediately, nil
	}
	return AdvanceAfterGrace, fmt.Errorf("unknown zero policy %q (want grace or immediate)", name)
}

// Config holds the duration of each mode in whole seconds.
type Config struct {
	FocusSeconds     int
	BreakSeconds     int
	LongBreakSeconds int
}

// DefaultConfig returns 25 minutes of focus, 5 minute breaks and 15 minute
// long breaks.
func DefaultConfig() Config {
	return Config{
		FocusSeconds:     DefaultFocusSeconds,
		BreakSeconds:     DefaultBreakSeconds,
		LongBreakSeconds: DefaultLongBreakSeconds,
	}
}

// Options contains runtime behaviour that is not part of the persisted state.
type Options struct {
	Policy         Policy
	GraceSeconds   int
	LongBreakEvery int
}

func (o Options) normalized() Options {
	if o.GraceSeconds < 1 {
		o.GraceSeconds = DefaultGraceSeconds
	}
	if o.LongBreakEvery < 1 {
		o.LongBreakEvery = DefaultLongBreakEvery
	}
	return o
}

// State is the full serializable timer state.
type State struct {
	FocusSeconds     int  `json:"focusSeconds"`
	BreakSeconds     int  `json:"breakSeconds"`
	LongBreakSeconds int  `json:"longBreakSeconds"`
	Mode             Mode `json:"mode"`
	RemainingSeconds int  `json:"remainingSeconds"`
	IsRunning        bool `json:"isRunning"`
	BreakCount       int  `json:"breakCount"`
	// AlarmSeconds counts ticks already spent at zero in the grace window.
	AlarmSeconds int `json:"alarmSeconds,omitempty"`
}

// Validate reports whether the state can be resumed.
func (st State) Validate() error {
	switch {
	case st.FocusSeconds <= 0, st.BreakSeconds <= 0, st.LongBreakSeconds <= 0:
		return fmt.Errorf("%w: durations must be positive", ErrInvalidState)
	case !st.Mode.Valid():
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidState, st.Mode)
	case st.RemainingSeconds < 0:
		return fmt.Errorf("%w: negative remaining time", ErrInvalidState)
	case st.BreakCount < 0, st.AlarmSeconds < 0:
		return fmt.Errorf("%w: negative counter", ErrInvalidState)
	}
	return nil
}

// Store is the single source of truth for mode, countdown and run status.
type Store struct {
	state   State
	options Options
}

// New creates a paused store in FOCUS mode with a full focus countdown.
// Non-positive durations are clamped to one second.
func New(config Config, options Options) *Store {
	store := &Store{
		state: State{
			FocusSeconds:     clampSeconds(config.FocusSeconds),
			BreakSeconds:     clampSeconds(config.BreakSeconds),
			LongBreakSeconds: clampSeconds(config.LongBreakSeconds),
			Mode:             ModeFocus,
		},
		options: options.normalized(),
	}
	store.reseed()
	return store
}

// Restore resumes a previously saved state. An alarm counter only means
// something at zero and is dropped otherwise.
func Restore(state State, options Options) (*Store, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	if state.RemainingSeconds > 0 {
		state.AlarmSeconds = 0
	}
	return &Store{state: state, options: options.normalized()}, nil
}

// State returns a copy of the current state.
func (store *Store) State() State { return store.state }

// Options returns the runtime options in effect.
func (store *Store) Options() Options { return store.options }

// Mode returns the active mode.
func (store *Store) Mode() Mode { return store.state.Mode }

// Remaining returns the seconds left in the current mode.
func (store *Store) Remaining() int { return store.state.RemainingSeconds }

// Running reports whether ticks currently advance the countdown.
func (store *Store) Running() bool { return store.state.IsRunning }

// BreakCount returns the short breaks taken since the last long break.
func (store *Store) BreakCount() int { return store.state.BreakCount }

// Alarming reports whether the countdown is at zero waiting for the grace
// window to pass.
func (store *Store) Alarming() bool {
	return store.state.RemainingSeconds == 0
}

// Config returns the configured durations.
func (store *Store) Config() Config {
	return Config{
		FocusSeconds:     store.state.FocusSeconds,
		BreakSeconds:     store.state.BreakSeconds,
		LongBreakSeconds: store.state.LongBreakSeconds,
	}
}

// DurationOf returns the configured duration of mode.
func (store *Store) DurationOf(mode Mode) int {
	switch mode {
	case ModeShortBreak:
		return store.state.BreakSeconds
	case ModeLongBreak:
		return store.state.LongBreakSeconds
	default:
		return store.state.FocusSeconds
	}
}

// Elapsed returns the seconds already spent in the current mode, never
// negative.
func (store *Store) Elapsed() int {
	elapsed := store.DurationOf(store.state.Mode) - store.state.RemainingSeconds
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// SetFocusDuration changes the focus duration.
func (store *Store) SetFocusDuration(seconds int) {
	store.setDuration(ModeFocus, &store.state.FocusSeconds, seconds)
}

// SetBreakDuration changes the short break duration.
func (store *Store) SetBreakDuration(seconds int) {
	store.setDuration(ModeShortBreak, &store.state.BreakSeconds, seconds)
}

// SetLongBreakDuration changes the long break duration.
func (store *Store) SetLongBreakDuration(seconds int) {
	store.setDuration(ModeLongBreak, &store.state.LongBreakSeconds, seconds)
}

// setDuration carries an in-progress countdown over by the delta instead of
// restarting it.
func (store *Store) setDuration(mode Mode, field *int, seconds int) {
	seconds = clampSeconds(seconds)
	delta := seconds - *field
	*field = seconds
	if delta == 0 || store.state.Mode != mode {
		return
	}
	store.state.RemainingSeconds = clampSeconds(store.state.RemainingSeconds + delta)
	store.state.AlarmSeconds = 0
}

// ToggleRunning starts a paused timer or pauses a running one.
func (store *Store) ToggleRunning() {
	store.state.IsRunning = !store.state.IsRunning
}

// SwitchMode toggles between FOCUS and SHORT_BREAK. A long break switches
// back to FOCUS. The timer is stopped and the countdown restarted.
func (store *Store) SwitchMode() {
	if store.state.Mode == ModeFocus {
		store.state.Mode = ModeShortBreak
	} else {
		store.state.Mode = ModeFocus
	}
	store.stopAndReseed()
}

// SwitchToBreak jumps to a short break and stops the timer.
func (store *Store) SwitchToBreak() {
	store.state.Mode = ModeShortBreak
	store.stopAndReseed()
}

// SwitchToLongBreak jumps to a long break, clears the break counter and
// stops the timer.
func (store *Store) SwitchToLongBreak() {
	store.state.Mode = ModeLongBreak
	store.state.BreakCount = 0
	store.stopAndReseed()
}

// Reset restarts the countdown of the current mode and stops the timer.
func (store *Store) Reset() {
	store.stopAndReseed()
}

// Tick advances the clock by one second.
func (store *Store) Tick() []Event {
	return store.Advance(1)
}

// Advance applies seconds ticks in order and returns the events they caused.
func (store *Store) Advance(seconds int) []Event {
	var events []Event
	for offset := 1; offset <= seconds; offset++ {
		if !store.state.IsRunning {
			break
		}
		if event, ok := store.tick(); ok {
			event.Offset = offset
			events = append(events, event)
		}
	}
	return events
}

func (store *Store) tick() (Event, bool) {
	if store.state.RemainingSeconds > 0 {
		store.state.RemainingSeconds--
		if store.state.RemainingSeconds > 0 {
			return Event{}, false
		}
		return Event{
			Type:       EventExpired,
			From:       store.state.Mode,
			To:         store.state.Mode,
			BreakCount: store.state.BreakCount,
		}, true
	}

	if store.options.Policy == AdvanceAfterGrace {
		store.state.AlarmSeconds++
		if store.state.AlarmSeconds < store.options.GraceSeconds {
			return Event{}, false
		}
	}
	return store.AdvanceToNextMode(), true
}

// AdvanceToNextMode moves to the mode that follows the current one. Focus
// is followed by a short break, or by a long break once LongBreakEvery short
// breaks have been counted. Breaks are followed by focus. The run flag is
// left untouched.
func (store *Store) AdvanceToNextMode() Event {
	from := store.state.Mode
	switch from {
	case ModeFocus:
		store.state.BreakCount++
		if store.state.BreakCount >= store.options.LongBreakEvery {
			store.state.Mode = ModeLongBreak
			store.state.BreakCount = 0
		} else {
			store.state.Mode = ModeShortBreak
		}
	default:
		store.state.Mode = ModeFocus
	}
	store.reseed()

	return Event{
		Type:       EventAdvanced,
		From:       from,
		To:         store.state.Mode,
		BreakCount: store.state.BreakCount,
	}
}

func (store *Store) stopAndReseed() {
	store.state.IsRunning = false
	store.reseed()
}

func (store *Store) reseed() {
	store.state.RemainingSeconds = store.DurationOf(store.state.Mode)
	store.state.AlarmSeconds = 0
}

func clampSeconds(seconds int) int {
	if seconds < 1 {
		return 1
	}
	return seconds
}
