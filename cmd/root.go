package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/app"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/config"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/logging"
)

var (
	configPath string
	dataDir    string
	backend    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "tpt",
	Short: "Trivial Pomodoro Timer – a minimal CLI focus timer with a task list",
	Long: `tpt is a single-binary Pomodoro timer. It cycles between focus, short
break and long break intervals and keeps a small to-do list.
State is stored as human-readable JSON files in ~/.tpt/ (or SQLite).`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.tpt/config.json)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default: directory of the config file)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: file, sqlite, memory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

// openApp loads the configuration and restores the saved state, catching up
// on time that passed since the last command.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, warnings, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	for _, w := range warnings {
		logger.Warn("config: " + w)
	}
	return app.Open(commandContext(cmd), cfg, logger, time.Now), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
