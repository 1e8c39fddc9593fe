package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/model"
)

var taskListAll bool

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the task list",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.Tasks.Add(commandContext(cmd), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", shortID(t.ID), t.Title)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tasks := a.Tasks.Pending()
		if taskListAll {
			tasks = a.Tasks.All()
		}
		printTasks(cmd.OutOrStdout(), tasks)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task between open and done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.Tasks.Toggle(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		state := "open"
		if t.Completed {
			state = "done"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s  %s\n", shortID(t.ID), state, t.Title)
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.Tasks.Remove(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s  %s\n", shortID(t.ID), t.Title)
		return nil
	},
}

var taskClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all completed tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		n := a.Tasks.ClearCompleted(commandContext(cmd))
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s).\n", n)
		return nil
	},
}

func init() {
	taskListCmd.Flags().BoolVar(&taskListAll, "all", false, "Include completed tasks")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskRmCmd)
	taskCmd.AddCommand(taskClearCmd)
}

func printTasks(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "%s %s  %s\n", box, shortID(t.ID), t.Title)
	}
}

// shortID is the prefix shown to users; any unique prefix resolves a task.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
