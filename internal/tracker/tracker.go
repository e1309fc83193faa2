package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workday/internal/models"
	"workday/internal/store"
)

var (
	// ErrInvalidInput marks caller mistakes (blank description,
	// negative commute) that previously vanished silently.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoActiveSession is returned when an operation needs today's
	// open session and there is none.
	ErrNoActiveSession = errors.New("no active work session")
)

const (
	// NominalStartHour is the earliest effective clock-in: starting a
	// session before 08:00 records an 08:00 entry time.
	NominalStartHour = 8

	// WorkDayHours is the planned length of a work day.
	WorkDayHours = 8

	// DefaultCommuteMinutes is used when the caller gives no commute.
	DefaultCommuteMinutes = 30
)

// Tracker encodes the business rules for what a "work day" is. The
// clock is injected so the date arithmetic is testable.
type Tracker struct {
	store *store.Store
	now   func() time.Time
}

// New creates a Tracker on the wall clock.
func New(s *store.Store) *Tracker {
	return NewWithClock(s, time.Now)
}

// NewWithClock creates a Tracker with an explicit time source.
func NewWithClock(s *store.Store, now func() time.Time) *Tracker {
	return &Tracker{store: s, now: now}
}

// StartSession clocks in. An entry before today's nominal 08:00 is
// moved up to 08:00; the planned exit is entry + 8h and the morning
// alarm is entry - commute minutes.
//
// It deliberately does not reject a second open session on the same
// day; whether that should be a hard invariant is an open product
// question, and CurrentSession documents the tie-break.
func (t *Tracker) StartSession(ctx context.Context, commuteMinutes int) (*models.WorkSession, error) {
	if commuteMinutes < 0 {
		return nil, fmt.Errorf("%w: commute minutes must be non-negative, got %d", ErrInvalidInput, commuteMinutes)
	}

	now := t.now()
	entry := now
	nominal := time.Date(now.Year(), now.Month(), now.Day(), NominalStartHour, 0, 0, 0, now.Location())
	if now.Before(nominal) {
		entry = nominal
	}

	planned := entry.Add(WorkDayHours * time.Hour)
	session := &models.WorkSession{
		EntryTime:          entry,
		PlannedExitTime:    &planned,
		CommuteTimeMinutes: commuteMinutes,
		MorningAlarmTime:   entry.Add(-time.Duration(commuteMinutes) * time.Minute),
	}

	if err := t.store.InsertSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession clocks out of today's open session, setting its exit
// time to now. Returns ErrNoActiveSession when there is nothing to
// close; no other session is touched either way.
func (t *Tracker) EndSession(ctx context.Context) (*models.WorkSession, error) {
	session, err := t.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	exit := t.now()
	session.ExitTime = &exit
	if _, err := t.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CurrentSession returns today's open session, or nil when there is
// none. If the advisory one-open-session invariant has been violated,
// the newest open session wins (today's sessions are read newest
// entry time first).
func (t *Tracker) CurrentSession(ctx context.Context) (*models.WorkSession, error) {
	sessions, err := t.TodaySessions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Open() {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// TodaySessions returns every session whose entry time falls within
// the current calendar day, newest first.
func (t *Tracker) TodaySessions(ctx context.Context) ([]models.WorkSession, error) {
	start, end := dayBounds(t.now())
	return t.store.SessionsInRange(ctx, start, end)
}

// AllSessions returns the full session history, newest first.
func (t *Tracker) AllSessions(ctx context.Context) ([]models.WorkSession, error) {
	return t.store.AllSessions(ctx)
}

// AddTask attaches a new, not-yet-completed task to a session. A
// blank description is rejected.
func (t *Tracker) AddTask(ctx context.Context, sessionID uint, description string) (*models.Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: task description must not be empty", ErrInvalidInput)
	}

	task := &models.Task{
		Description:   description,
		IsCompleted:   false,
		WorkSessionID: sessionID,
	}
	if err := t.store.InsertTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetTaskDone persists the caller-supplied completion state. The UI
// passes the desired value, not a toggle.
func (t *Tracker) SetTaskDone(ctx context.Context, task *models.Task, done bool) error {
	task.IsCompleted = done
	return t.store.UpdateTask(ctx, task)
}

// DeleteTask removes a task unconditionally.
func (t *Tracker) DeleteTask(ctx context.Context, task *models.Task) error {
	return t.store.DeleteTask(ctx, task)
}

// TaskByID looks a task up by primary key.
func (t *Tracker) TaskByID(ctx context.Context, id uint) (*models.Task, error) {
	return t.store.TaskByID(ctx, id)
}

// TasksForSession lists a session's tasks in insertion order.
func (t *Tracker) TasksForSession(ctx context.Context, sessionID uint) ([]models.Task, error) {
	return t.store.TasksForSession(ctx, sessionID)
}

// CompletedCount returns how many of a session's tasks are done.
func (t *Tracker) CompletedCount(ctx context.Context, sessionID uint) (int, error) {
	return t.store.CompletedCount(ctx, sessionID)
}

// RescheduleSession moves a session's entry time and recomputes its
// planned exit as entry + 8h. The morning alarm time is left as it
// was; TestRescheduleLeavesMorningAlarm pins that behavior.
func (t *Tracker) RescheduleSession(ctx context.Context, sessionID uint, newEntry time.Time) (*models.WorkSession, error) {
	session, err := t.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	planned := newEntry.Add(WorkDayHours * time.Hour)
	session.EntryTime = newEntry
	session.PlannedExitTime = &planned
	if _, err := t.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ClearAll wipes both tables.
func (t *Tracker) ClearAll(ctx context.Context) error {
	return t.store.ClearAll(ctx)
}

// Progress is the fraction of tasks marked complete, 0 for an empty
// list.
func Progress(tasks []models.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, task := range tasks {
		if task.IsCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(tasks))
}

// TimeRemaining is the duration until the session's planned exit,
// falling back to entry + 8h when no planned exit was recorded. The
// result is not clamped: a negative duration means the planned exit
// has passed and callers render it as overtime.
func TimeRemaining(session *models.WorkSession, now time.Time) time.Duration {
	end := session.EntryTime.Add(WorkDayHours * time.Hour)
	if session.PlannedExitTime != nil {
		end = *session.PlannedExitTime
	}
	return end.Sub(now)
}

// dayBounds returns the inclusive bounds of t's calendar day,
// [00:00:00.000, 23:59:59.999999999] in t's location.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}
