package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/model"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timecalc"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timer"
)

var (
	listToday bool
	listWeek  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's sessions")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's sessions")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	now := time.Now()
	var from, to time.Time
	switch {
	case listWeek:
		from, to = timecalc.WeekRange(now)
	default:
		// Default to today (covers --today and the bare command).
		from = timecalc.StartOfDay(now)
		to = timecalc.EndOfDay(now)
	}

	printList(cmd.OutOrStdout(), a.History.LoadRange(commandContext(cmd), from, to))
	return nil
}

// printList groups sessions by date and prints them.
func printList(w io.Writer, sessions []model.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return
	}

	var currentDay string
	for _, s := range sessions {
		day := s.End.Format("2006-01-02")
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}

		note := ""
		if !s.Completed {
			note = fmt.Sprintf("  stopped after %s of %s",
				timecalc.FormatDuration(s.Seconds), timecalc.FormatDuration(s.PlannedSeconds))
		}
		fmt.Fprintf(w, "%s–%s  %-10s (%s)%s\n",
			s.Start.Format("15:04"), s.End.Format("15:04"), modeLabel(s.Mode),
			timecalc.FormatDuration(s.Seconds), note)
	}
}

func modeLabel(mode string) string {
	m := timer.Mode(mode)
	if !m.Valid() {
		return mode
	}
	return m.Label()
}
