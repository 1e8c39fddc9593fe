package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/model"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/timecalc"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export this week's sessions to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, yaml")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	from, to := timecalc.WeekRange(time.Now())
	return writeExport(cmd.OutOrStdout(), exportFormat, a.History.LoadRange(commandContext(cmd), from, to))
}

func writeExport(w io.Writer, format string, sessions []model.Session) error {
	if sessions == nil {
		sessions = []model.Session{}
	}
	switch format {
	case "json":
		data, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sessions); err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}
		return enc.Close()
	case "md":
		printList(w, sessions)
	case "csv", "":
		printCSV(w, sessions)
	default:
		return fmt.Errorf("unknown export format %q (want csv, json, md or yaml)", format)
	}
	return nil
}

func printCSV(w io.Writer, sessions []model.Session) {
	fmt.Fprintln(w, "date,mode,start,end,duration_minutes,planned_minutes,completed")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s,%s,%s,%s,%d,%d,%t\n",
			csvEscape(s.End.Format("2006-01-02")),
			csvEscape(s.Mode),
			csvEscape(s.Start.Format(time.RFC3339)),
			csvEscape(s.End.Format(time.RFC3339)),
			s.Seconds/60,
			s.PlannedSeconds/60,
			s.Completed,
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
