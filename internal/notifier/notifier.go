// Package notifier derives human-facing reminders from the current
// session and task state: a once-per-session morning wake alarm and
// a recurring hourly progress notification.
package notifier

import (
	"context"
	"fmt"
	"log"
	"time"

	"workday/internal/tracker"
)

// Notifier reads session/task state through the tracker and emits
// reminders to a Sink.
type Notifier struct {
	tracker *tracker.Tracker
	sink    Sink
	now     func() time.Time
}

// New creates a Notifier on the wall clock.
func New(t *tracker.Tracker, sink Sink) *Notifier {
	return NewWithClock(t, sink, time.Now)
}

// NewWithClock creates a Notifier with an explicit time source.
func NewWithClock(t *tracker.Tracker, sink Sink, now func() time.Time) *Notifier {
	return &Notifier{tracker: t, sink: sink, now: now}
}

// RunHourly is the recurring job body. Any failure, including a
// panic, is swallowed into a logged generic message so the host
// scheduler keeps firing.
func (n *Notifier) RunHourly(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notifier: hourly job failed: %v", r)
		}
	}()
	if err := n.hourlyOnce(ctx); err != nil {
		log.Printf("notifier: hourly job failed: %v", err)
	}
}

// hourlyOnce posts one progress notification for today's open
// session. No open session is a silent no-op, not an error.
func (n *Notifier) hourlyOnce(ctx context.Context) error {
	session, err := n.tracker.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	tasks, err := n.tracker.TasksForSession(ctx, session.ID)
	if err != nil {
		return err
	}
	remaining := 0
	for _, task := range tasks {
		if !task.IsCompleted {
			remaining++
		}
	}

	hour := HourIndex(session.EntryTime, n.now())
	return n.sink.Post(
		"Work Progress Update",
		fmt.Sprintf("Hour %d: %d tasks remaining", hour, remaining),
	)
}

// ScheduleMorningAlarm arms a one-shot wake alarm. A time already in
// the past fires immediately. The returned timer can be stopped to
// cancel the alarm.
func (n *Notifier) ScheduleMorningAlarm(at time.Time) *time.Timer {
	delay := at.Sub(n.now())
	if delay < 0 {
		delay = 0
	}
	return time.AfterFunc(delay, func() {
		if err := n.sink.Post("Good morning", "Time to get up and head to work"); err != nil {
			log.Printf("notifier: morning alarm: %v", err)
		}
	})
}

// HourIndex is the 1-based hour of the work day at the given moment,
// clamped to [1, 8].
func HourIndex(entry, now time.Time) int {
	elapsed := now.Sub(entry)
	hour := int(elapsed.Hours()) + 1
	if hour < 1 {
		hour = 1
	}
	if hour > tracker.WorkDayHours {
		hour = tracker.WorkDayHours
	}
	return hour
}
