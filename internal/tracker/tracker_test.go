package tracker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workday/internal/models"
	"workday/internal/store"
	"workday/internal/tracker"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestStartSessionBeforeEightMovesEntryToEight(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2025, 3, 11, 7, 10, 0, 0, time.UTC)
	tr := tracker.NewWithClock(s, fixedClock(now))

	session, err := tr.StartSession(context.Background(), 30)
	require.NoError(t, err)

	wantEntry := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	assert.True(t, session.EntryTime.Equal(wantEntry), "entry %v", session.EntryTime)
	require.NotNil(t, session.PlannedExitTime)
	assert.True(t, session.PlannedExitTime.Equal(time.Date(2025, 3, 11, 16, 0, 0, 0, time.UTC)))
	assert.True(t, session.MorningAlarmTime.Equal(time.Date(2025, 3, 11, 7, 30, 0, 0, time.UTC)))
	assert.Equal(t, 30, session.CommuteTimeMinutes)
}

func TestStartSessionAfterEightUsesNow(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2025, 3, 11, 9, 42, 15, 0, time.UTC)
	tr := tracker.NewWithClock(s, fixedClock(now))

	session, err := tr.StartSession(context.Background(), 45)
	require.NoError(t, err)

	assert.True(t, session.EntryTime.Equal(now))
	require.NotNil(t, session.PlannedExitTime)
	assert.True(t, session.PlannedExitTime.Equal(now.Add(8*time.Hour)))
	assert.True(t, session.MorningAlarmTime.Equal(now.Add(-45*time.Minute)))
}

func TestStartSessionZeroCommute(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	tr := tracker.NewWithClock(s, fixedClock(now))

	session, err := tr.StartSession(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, session.MorningAlarmTime.Equal(session.EntryTime))
}

func TestStartSessionRejectsNegativeCommute(t *testing.T) {
	s := openTestStore(t)
	tr := tracker.NewWithClock(s, fixedClock(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)))

	_, err := tr.StartSession(context.Background(), -5)
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)

	sessions, err := tr.AllSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestEndSessionClosesTodaysOpenSession(t *testing.T) {
	s := openTestStore(t)
	start := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	tr := tracker.NewWithClock(s, fixedClock(start))

	opened, err := tr.StartSession(context.Background(), 30)
	require.NoError(t, err)

	end := start.Add(7 * time.Hour)
	tr = tracker.NewWithClock(s, fixedClock(end))

	closed, err := tr.EndSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, opened.ID, closed.ID)
	require.NotNil(t, closed.ExitTime)
	assert.True(t, closed.ExitTime.Equal(end))
}

func TestEndSessionWithNoOpenSessionLeavesTableUnchanged(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	tr := tracker.NewWithClock(s, fixedClock(now))

	// A closed session from today and an open one from yesterday
	// must both be left alone.
	opened, err := tr.StartSession(context.Background(), 30)
	require.NoError(t, err)
	_, err = tr.EndSession(context.Background())
	require.NoError(t, err)

	yesterday := tracker.NewWithClock(s, fixedClock(now.AddDate(0, 0, -1)))
	stale, err := yesterday.StartSession(context.Background(), 30)
	require.NoError(t, err)

	_, err = tr.EndSession(context.Background())
	assert.ErrorIs(t, err, tracker.ErrNoActiveSession)

	sessions, err := tr.AllSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	for _, got := range sessions {
		switch got.ID {
		case opened.ID:
			assert.NotNil(t, got.ExitTime)
		case stale.ID:
			assert.Nil(t, got.ExitTime, "yesterday's open session must not be touched")
		default:
			t.Fatalf("unexpected session #%d", got.ID)
		}
	}
}

func TestCurrentSessionIgnoresClosedAndOtherDays(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	yesterday := tracker.NewWithClock(s, fixedClock(now.AddDate(0, 0, -1)))
	_, err := yesterday.StartSession(ctx, 30)
	require.NoError(t, err)

	tr := tracker.NewWithClock(s, fixedClock(now))
	current, err := tr.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, current, "yesterday's open session is not today's")

	opened, err := tr.StartSession(ctx, 30)
	require.NoError(t, err)

	current, err = tr.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, opened.ID, current.ID)

	_, err = tr.EndSession(ctx)
	require.NoError(t, err)

	current, err = tr.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestDoubleStartKeepsBothOpenNewestWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := tracker.NewWithClock(s, fixedClock(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)))
	_, err := first.StartSession(ctx, 30)
	require.NoError(t, err)

	second := tracker.NewWithClock(s, fixedClock(time.Date(2025, 3, 11, 13, 0, 0, 0, time.UTC)))
	later, err := second.StartSession(ctx, 30)
	require.NoError(t, err)

	sessions, err := second.TodaySessions(ctx)
	require.NoError(t, err)
	open := 0
	for _, got := range sessions {
		if got.Open() {
			open++
		}
	}
	assert.Equal(t, 2, open, "both sessions stay open")

	// Documented tie-break: the newest open session wins.
	current, err := second.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, later.ID, current.ID)
}

func TestAddTaskRejectsBlankDescription(t *testing.T) {
	s := openTestStore(t)
	tr := tracker.NewWithClock(s, fixedClock(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	session, err := tr.StartSession(ctx, 30)
	require.NoError(t, err)

	_, err = tr.AddTask(ctx, session.ID, "   ")
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)

	tasks, err := tr.TasksForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskLifecycle(t *testing.T) {
	s := openTestStore(t)
	tr := tracker.NewWithClock(s, fixedClock(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	session, err := tr.StartSession(ctx, 30)
	require.NoError(t, err)

	task, err := tr.AddTask(ctx, session.ID, "write report")
	require.NoError(t, err)
	assert.False(t, task.IsCompleted)

	require.NoError(t, tr.SetTaskDone(ctx, task, true))
	count, err := tr.CompletedCount(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The UI passes the desired value, not a toggle.
	require.NoError(t, tr.SetTaskDone(ctx, task, false))
	count, err = tr.CompletedCount(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, tr.DeleteTask(ctx, task))
	tasks, err := tr.TasksForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestRescheduleRecomputesPlannedExit(t *testing.T) {
	s := openTestStore(t)
	tr := tracker.NewWithClock(s, fixedClock(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	session, err := tr.StartSession(ctx, 30)
	require.NoError(t, err)

	newEntry := time.Date(2025, 3, 11, 10, 30, 0, 0, time.UTC)
	moved, err := tr.RescheduleSession(ctx, session.ID, newEntry)
	require.NoError(t, err)

	assert.True(t, moved.EntryTime.Equal(newEntry))
	require.NotNil(t, moved.PlannedExitTime)
	assert.True(t, moved.PlannedExitTime.Equal(newEntry.Add(8*time.Hour)))
}

// Rescheduling intentionally leaves the morning alarm where it was;
// this test exists so the quirk is explicit, not accidental.
func TestRescheduleLeavesMorningAlarm(t *testing.T) {
	s := openTestStore(t)
	tr := tracker.NewWithClock(s, fixedClock(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	session, err := tr.StartSession(ctx, 30)
	require.NoError(t, err)
	originalAlarm := session.MorningAlarmTime

	moved, err := tr.RescheduleSession(ctx, session.ID, session.EntryTime.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, moved.MorningAlarmTime.Equal(originalAlarm))
}

func TestRescheduleUnknownSession(t *testing.T) {
	s := openTestStore(t)
	tr := tracker.NewWithClock(s, fixedClock(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)))

	_, err := tr.RescheduleSession(context.Background(), 404, time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProgress(t *testing.T) {
	s := openTestStore(t)
	tr := tracker.NewWithClock(s, fixedClock(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	session, err := tr.StartSession(ctx, 30)
	require.NoError(t, err)

	tasks, err := tr.TasksForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tracker.Progress(tasks), "no tasks means zero progress")

	first, err := tr.AddTask(ctx, session.ID, "one")
	require.NoError(t, err)
	_, err = tr.AddTask(ctx, session.ID, "two")
	require.NoError(t, err)
	require.NoError(t, tr.SetTaskDone(ctx, first, true))

	tasks, err = tr.TasksForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, tracker.Progress(tasks), 1e-9)
}

func TestTimeRemainingUnclamped(t *testing.T) {
	entry := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	planned := entry.Add(8 * time.Hour)
	session := &models.WorkSession{EntryTime: entry, PlannedExitTime: &planned}

	assert.Equal(t, 3*time.Hour, tracker.TimeRemaining(session, planned.Add(-3*time.Hour)))
	assert.Equal(t, -30*time.Minute, tracker.TimeRemaining(session, planned.Add(30*time.Minute)),
		"overrun passes through as a negative duration")
}

func TestClearAllEmptiesEverything(t *testing.T) {
	s := openTestStore(t)
	tr := tracker.NewWithClock(s, fixedClock(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	session, err := tr.StartSession(ctx, 30)
	require.NoError(t, err)
	_, err = tr.AddTask(ctx, session.ID, "anything")
	require.NoError(t, err)

	require.NoError(t, tr.ClearAll(ctx))

	sessions, err := tr.AllSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	tasks, err := tr.TasksForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
