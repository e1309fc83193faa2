package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"workday/internal/notifier"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run the reminder daemon in the foreground",
	Long: `Run the reminder daemon in the foreground. Posts an hourly progress
notification while a session is open and fires the morning wake
alarm if one is still pending for today's session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		n := notifier.New(app.Tracker, &notifier.ConsoleSink{})

		// Re-arm the wake alarm if today's session has one still ahead.
		session, err := app.Tracker.CurrentSession(ctx)
		if err != nil {
			return err
		}
		if session != nil && session.MorningAlarmTime.After(time.Now()) {
			timer := n.ScheduleMorningAlarm(session.MorningAlarmTime)
			defer timer.Stop()
			log.Printf("morning alarm armed for %s", session.MorningAlarmTime.Format("15:04"))
		}

		scheduler := notifier.NewScheduler(time.Local)
		if _, err := scheduler.ScheduleInterval(app.Config.ReminderInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			n.RunHourly(jobCtx)
		}); err != nil {
			return fmt.Errorf("schedule hourly reminder: %w", err)
		}

		scheduler.Start()
		defer scheduler.Stop()

		log.Printf("reminder daemon started (interval %s), press Ctrl+C to stop", app.Config.ReminderInterval)
		<-ctx.Done()
		log.Println("reminder daemon stopped")
		return nil
	},
}
