package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/app"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timecalc"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current timer status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the status as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	st := a.Status()
	if statusJSON {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	printStatus(cmd.OutOrStdout(), st)
	return nil
}

func printStatus(w io.Writer, st app.Status) {
	state := "Paused"
	switch {
	case st.Alarming && st.IsRunning:
		state = "Time's up"
	case st.IsRunning:
		state = "Running"
	}
	fmt.Fprintf(w, "%s: %s %s\n", state, st.Mode.Label(), timecalc.FormatClock(st.RemainingSeconds))
	fmt.Fprintf(w, "  Breaks: %d/%d before a long break\n", st.BreakCount, st.LongBreakEvery)
	fmt.Fprintf(w, "  Durations: focus %s, break %s, long break %s\n",
		timecalc.FormatDuration(int64(st.FocusSeconds)),
		timecalc.FormatDuration(int64(st.BreakSeconds)),
		timecalc.FormatDuration(int64(st.LongBreakSeconds)))
	if st.PendingTasks > 0 {
		fmt.Fprintf(w, "  Tasks: %d open\n", st.PendingTasks)
	}
}
