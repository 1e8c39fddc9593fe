package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/app"
)

// minDuration is the smallest duration accepted from the command line.
const minDuration = time.Minute

var (
	breakLong bool

	setFocus     string
	setBreak     string
	setLongBreak string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the timer",
	Args:  cobra.NoArgs,
	RunE: timerAction(func(cmd *cobra.Command, a *app.App) {
		if !a.Start(commandContext(cmd)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Timer is already running.")
		}
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the timer",
	Args:  cobra.NoArgs,
	RunE: timerAction(func(cmd *cobra.Command, a *app.App) {
		if !a.Pause(commandContext(cmd)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Timer is not running.")
		}
	}),
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Start a paused timer or pause a running one",
	Args:  cobra.NoArgs,
	RunE: timerAction(func(cmd *cobra.Command, a *app.App) {
		a.Toggle(commandContext(cmd))
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart the current interval and stop the timer",
	Args:  cobra.NoArgs,
	RunE: timerAction(func(cmd *cobra.Command, a *app.App) {
		a.Reset(commandContext(cmd))
	}),
}

var switchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Switch between focus and break and stop the timer",
	Args:  cobra.NoArgs,
	RunE: timerAction(func(cmd *cobra.Command, a *app.App) {
		a.SwitchMode(commandContext(cmd))
	}),
}

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Jump to a short (or --long) break and stop the timer",
	Args:  cobra.NoArgs,
	RunE: timerAction(func(cmd *cobra.Command, a *app.App) {
		if breakLong {
			a.LongBreak(commandContext(cmd))
			return
		}
		a.Break(commandContext(cmd))
	}),
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change interval durations (e.g. --focus 50m --break 10m)",
	Args:  cobra.NoArgs,
	RunE:  runSet,
}

func init() {
	breakCmd.Flags().BoolVar(&breakLong, "long", false, "Take a long break and reset the break counter")

	setCmd.Flags().StringVar(&setFocus, "focus", "", "Focus duration, at least 1m")
	setCmd.Flags().StringVar(&setBreak, "break", "", "Short break duration, at least 1m")
	setCmd.Flags().StringVar(&setLongBreak, "long-break", "", "Long break duration, at least 1m")
}

// timerAction opens the app, applies fn and prints the resulting status.
func timerAction(fn func(cmd *cobra.Command, a *app.App)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		fn(cmd, a)
		printStatus(cmd.OutOrStdout(), a.Status())
		return nil
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	focus, err := parseDurationFlag("focus", setFocus)
	if err != nil {
		return err
	}
	shortBreak, err := parseDurationFlag("break", setBreak)
	if err != nil {
		return err
	}
	longBreak, err := parseDurationFlag("long-break", setLongBreak)
	if err != nil {
		return err
	}
	if focus == 0 && shortBreak == 0 && longBreak == 0 {
		return fmt.Errorf("nothing to set: use --focus, --break or --long-break")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.SetDurations(commandContext(cmd), focus, shortBreak, longBreak)
	printStatus(cmd.OutOrStdout(), a.Status())
	return nil
}

// parseDurationFlag converts a flag like "25m" or "90" (minutes) to whole
// seconds, clamped to minDuration. An empty value yields 0.
func parseDurationFlag(name, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		minutes, convErr := parsePlainMinutes(value)
		if convErr != nil {
			return 0, fmt.Errorf("invalid --%s value %q: %v", name, value, err)
		}
		d = time.Duration(minutes) * time.Minute
	}
	if d < minDuration {
		d = minDuration
	}
	return int(d / time.Second), nil
}

func parsePlainMinutes(value string) (int, error) {
	var minutes int
	if _, err := fmt.Sscanf(value, "%d", &minutes); err != nil {
		return 0, err
	}
	if fmt.Sprint(minutes) != value {
		return 0, fmt.Errorf("not a whole number of minutes")
	}
	return minutes, nil
}
