package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/history"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timecalc"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timer"
)

var (
	reportWeek   bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show time spent per mode this week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Report for this week (default)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// reportModes is the fixed row order of every report.
var reportModes = []timer.Mode{timer.ModeFocus, timer.ModeShortBreak, timer.ModeLongBreak}

type weekReport struct {
	Week           string           `json:"week"`
	Minutes        map[string]int64 `json:"minutesByMode"`
	CompletedFocus int              `json:"completedFocus"`
	Abandoned      int              `json:"abandoned"`
	TotalMinutes   int64            `json:"totalMinutes"`
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	now := time.Now()
	from, to := timecalc.WeekRange(now)
	totals := history.Summarize(a.History.LoadRange(commandContext(cmd), from, to), string(timer.ModeFocus))
	return writeReport(cmd.OutOrStdout(), reportFormat, timecalc.ISOWeekLabel(now), totals)
}

func writeReport(w io.Writer, format, label string, totals history.Totals) error {
	var grandTotal int64
	for _, m := range reportModes {
		grandTotal += totals.Seconds[string(m)]
	}

	switch format {
	case "csv":
		fmt.Fprintln(w, "mode,duration_minutes")
		for _, m := range reportModes {
			fmt.Fprintf(w, "%s,%d\n", m, totals.Seconds[string(m)]/60)
		}
	case "json":
		r := weekReport{
			Week:           label,
			Minutes:        map[string]int64{},
			CompletedFocus: totals.CompletedFocus,
			Abandoned:      totals.Abandoned,
			TotalMinutes:   grandTotal / 60,
		}
		for _, m := range reportModes {
			r.Minutes[string(m)] = totals.Seconds[string(m)] / 60
		}
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "md", "":
		fmt.Fprintf(w, "Week %s\n", label)
		fmt.Fprintln(w, "--------------------------------")
		for _, m := range reportModes {
			fmt.Fprintf(w, "%-20s%s\n", m.Label(), timecalc.FormatDuration(totals.Seconds[string(m)]))
		}
		fmt.Fprintln(w, "--------------------------------")
		fmt.Fprintf(w, "%-20s%s\n", "Total", timecalc.FormatDuration(grandTotal))
		fmt.Fprintf(w, "%-20s%d\n", "Pomodoros", totals.CompletedFocus)
		fmt.Fprintf(w, "%-20s%d\n", "Abandoned", totals.Abandoned)
	default:
		return fmt.Errorf("unknown report format %q (want md, csv or json)", format)
	}
	return nil
}
