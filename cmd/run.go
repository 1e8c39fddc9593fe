package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/app"
)

var runInterval time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the timer in the foreground",
	Long: `Run keeps the timer ticking in the foreground and reacts to single-key
commands:

  ` + app.RunHelp,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().DurationVar(&runInterval, "interval", time.Second, "Wall-clock time per timer second")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx, app.RunOptions{
		Interval: runInterval,
		Out:      cmd.OutOrStdout(),
	})
}
