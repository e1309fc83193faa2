package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"workday/internal/models"
	"workday/internal/store"
	"workday/internal/tracker"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks on the current session",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a task to today's open session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		ctx := cmd.Context()

		session, err := requireCurrentSession(ctx, app)
		if err != nil {
			return err
		}

		task, err := app.Tracker.AddTask(ctx, session.ID, strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Printf("✅ Task #%d added: %s\n", task.ID, task.Description)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskDone(cmd, args[0], true)
	},
}

var taskUndoneCmd = &cobra.Command{
	Use:   "undone <task-id>",
	Short: "Reopen a completed task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskDone(cmd, args[0], false)
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		ctx := cmd.Context()

		task, err := lookupTask(ctx, app, args[0])
		if err != nil {
			return err
		}
		if err := app.Tracker.DeleteTask(ctx, task); err != nil {
			return err
		}

		fmt.Printf("🗑️  Task #%d deleted: %s\n", task.ID, task.Description)
		return nil
	},
}

var taskLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List tasks on today's open session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		ctx := cmd.Context()

		session, err := app.Tracker.CurrentSession(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			fmt.Println("No active work session today.")
			return nil
		}

		tasks, err := app.Tracker.TasksForSession(ctx, session.ID)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks yet. Add one with 'workday task add'.")
			return nil
		}

		for _, task := range tasks {
			mark := "[ ]"
			if task.IsCompleted {
				mark = "[x]"
			}
			fmt.Printf("%s #%d %s\n", mark, task.ID, task.Description)
		}
		fmt.Printf("\n%.0f%% done\n", tracker.Progress(tasks)*100)
		return nil
	},
}

func setTaskDone(cmd *cobra.Command, rawID string, done bool) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()
	ctx := cmd.Context()

	task, err := lookupTask(ctx, app, rawID)
	if err != nil {
		return err
	}
	if err := app.Tracker.SetTaskDone(ctx, task, done); err != nil {
		return err
	}

	if done {
		fmt.Printf("✅ Task #%d completed: %s\n", task.ID, task.Description)
	} else {
		fmt.Printf("↩️  Task #%d reopened: %s\n", task.ID, task.Description)
	}
	return nil
}

func lookupTask(ctx context.Context, app *App, rawID string) (*models.Task, error) {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid task id %q", tracker.ErrInvalidInput, rawID)
	}
	task, err := app.Tracker.TaskByID(ctx, uint(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("task #%d not found", id)
	}
	return task, err
}

func requireCurrentSession(ctx context.Context, app *App) (*models.WorkSession, error) {
	session, err := app.Tracker.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: start one with 'workday start'", tracker.ErrNoActiveSession)
	}
	return session, nil
}

func init() {
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskUndoneCmd)
	taskCmd.AddCommand(taskRmCmd)
	taskCmd.AddCommand(taskLsCmd)
}
