package timer

// Mode is the current phase of the work/rest cycle.
type Mode string

const (
	ModeFocus      Mode = "FOCUS"
	ModeShortBreak Mode = "SHORT_BREAK"
	ModeLongBreak  Mode = "LONG_BREAK"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	}
	return false
}

// IsBreak reports whether m is a short or long break.
func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// Label is the short display name used by the CLI.
func (m Mode) Label() string {
	switch m {
	case ModeShortBreak:
		return "BREAK"
	case ModeLongBreak:
		return "LONG BREAK"
	default:
		return "FOCUS"
	}
}

// EventType defines the kind of timer event reported by Tick and Advance.
type EventType string

const (
	// EventExpired is reported on the tick that brings the countdown to zero.
	EventExpired EventType = "expired"
	// EventAdvanced is reported when the timer moves on to the next mode.
	EventAdvanced EventType = "advanced"
)

// Event describes a transition that happened while advancing the clock.
type Event struct {
	Type       EventType
	From       Mode
	To         Mode
	BreakCount int
	// Offset is the 1-based tick within an Advance call at which the event
	// happened. It is zero for events not caused by the clock.
	Offset int
}
