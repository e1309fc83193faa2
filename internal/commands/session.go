package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"workday/internal/tracker"
	"workday/internal/tui"
	"workday/internal/viewmodel"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Clock in to a new work session",
	Long: `Clock in to a new work session. Starting before 08:00 records an
08:00 entry time; the planned exit is entry + 8h and the wake alarm
is entry minus your commute.

Examples:
  workday start               # clock in, open the live dashboard
  workday start --commute 45  # 45 minute commute
  workday start --no-ui       # clock in without the dashboard`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		commute, _ := cmd.Flags().GetInt("commute")
		if !cmd.Flags().Changed("commute") {
			commute = app.Config.CommuteMinutes
		}

		session, err := app.Tracker.StartSession(cmd.Context(), commute)
		if err != nil {
			return err
		}

		fmt.Printf("🟢 Clocked in at %s\n", session.EntryTime.Format("15:04"))
		fmt.Printf("Planned exit: %s\n", session.PlannedExitTime.Format("15:04"))
		fmt.Printf("Morning alarm: %s\n", session.MorningAlarmTime.Format("15:04"))

		if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
			return nil
		}
		return runDashboard(app)
	},
}

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "Clock out of today's open session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		session, err := app.Tracker.EndSession(cmd.Context())
		if errors.Is(err, tracker.ErrNoActiveSession) {
			fmt.Println("No open work session today — nothing to end.")
			return nil
		}
		if err != nil {
			return err
		}

		worked := session.ExitTime.Sub(session.EntryTime)
		fmt.Printf("🔴 Clocked out at %s after %s\n", session.ExitTime.Format("15:04"), formatHM(worked))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session and task progress",
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
			fmt.Println("No active work session today. Start one with 'workday start'.")
			return nil
		}

		tasks, err := app.Tracker.TasksForSession(ctx, session.ID)
		if err != nil {
			return err
		}
		completed, err := app.Tracker.CompletedCount(ctx, session.ID)
		if err != nil {
			return err
		}

		fmt.Printf("🟢 Clocked in at %s", session.EntryTime.Format("15:04"))
		if session.PlannedExitTime != nil {
			fmt.Printf(" (planned exit %s)", session.PlannedExitTime.Format("15:04"))
		}
		fmt.Println()
		fmt.Printf("📋 %d/%d tasks done (%.0f%%)\n", completed, len(tasks), tracker.Progress(tasks)*100)
		fmt.Printf("⏳ %s\n", formatRemaining(tracker.TimeRemaining(session, time.Now())))
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return runDashboard(app)
	},
}

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule <HH:MM>",
	Short: "Move today's open session to a new entry time",
	Long: `Move today's open session to a new entry time. The planned exit is
recomputed as the new entry plus 8 hours. The morning alarm is not
moved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		ctx := cmd.Context()

		clock, err := time.ParseInLocation("15:04", args[0], time.Local)
		if err != nil {
			return fmt.Errorf("%w: expected HH:MM, got %q", tracker.ErrInvalidInput, args[0])
		}

		session, err := app.Tracker.CurrentSession(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			fmt.Println("No active work session today — nothing to reschedule.")
			return nil
		}

		now := time.Now()
		newEntry := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)
		session, err = app.Tracker.RescheduleSession(ctx, session.ID, newEntry)
		if err != nil {
			return err
		}

		fmt.Printf("Moved entry to %s, planned exit %s\n",
			session.EntryTime.Format("15:04"), session.PlannedExitTime.Format("15:04"))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		sessions, err := app.Tracker.AllSessions(cmd.Context())
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		for _, s := range sessions {
			line := fmt.Sprintf("#%d  %s  %s", s.ID, s.EntryTime.Format("2006-01-02"), s.EntryTime.Format("15:04"))
			if s.ExitTime != nil {
				line += fmt.Sprintf(" → %s (%s)", s.ExitTime.Format("15:04"), formatHM(s.ExitTime.Sub(s.EntryTime)))
			} else {
				line += " → open"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	startCmd.Flags().Int("commute", tracker.DefaultCommuteMinutes, "Commute time in minutes, subtracted to set the wake alarm")
	startCmd.Flags().Bool("no-ui", false, "Clock in without opening the dashboard")
}

// runDashboard wires a view model to the app and runs the TUI.
func runDashboard(app *App) error {
	vm := viewmodel.New(app.Tracker, app.Store)
	if err := vm.Start(context.Background()); err != nil {
		return err
	}
	defer vm.Close()
	return tui.RunDashboard(vm)
}

// formatHM formats a duration as whole hours and minutes.
func formatHM(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	d = d.Round(time.Minute)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// formatRemaining renders time until planned exit; a negative value
// means the planned exit has passed and is shown as overtime.
func formatRemaining(d time.Duration) string {
	if d < 0 {
		return fmt.Sprintf("%s overtime", formatHM(-d))
	}
	return fmt.Sprintf("%s remaining", formatHM(d))
}
