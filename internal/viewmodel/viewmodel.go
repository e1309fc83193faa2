// Package viewmodel bridges the store's change bus into observable
// state a UI can render without re-querying on every frame.
package viewmodel

import (
	"context"
	"log"
	"sync"
	"time"

	"workday/internal/models"
	"workday/internal/store"
	"workday/internal/tracker"
)

// Snapshot is one consistent view of today's state. TimeRemaining is
// computed when the snapshot is built, not on a clock tick; a live
// display re-derives it from Current on its own ticker.
type Snapshot struct {
	Current        *models.WorkSession
	Tasks          []models.Task
	Sessions       []models.WorkSession
	CompletedCount int
	Progress       float64
	TimeRemaining  time.Duration
}

// ViewModel re-derives a Snapshot whenever the store reports a
// change and hands it to observers over a latest-wins channel.
type ViewModel struct {
	tracker *tracker.Tracker
	store   *store.Store
	now     func() time.Time

	mu      sync.RWMutex
	current Snapshot

	updates     chan Snapshot
	unsubscribe func()
	done        chan struct{}
}

// New wires a ViewModel to the given tracker and store. Call Start
// before reading Updates.
func New(t *tracker.Tracker, s *store.Store) *ViewModel {
	return &ViewModel{
		tracker: t,
		store:   s,
		now:     time.Now,
		updates: make(chan Snapshot, 1),
		done:    make(chan struct{}),
	}
}

// Start builds the initial snapshot and begins following the change
// bus. The ctx bounds every query the ViewModel runs.
func (vm *ViewModel) Start(ctx context.Context) error {
	// Subscribe before the first refresh so a mutation landing in
	// between is buffered, not missed.
	events, cancel := vm.store.Subscribe()
	if err := vm.refresh(ctx); err != nil {
		cancel()
		return err
	}
	vm.unsubscribe = cancel

	go func() {
		defer close(vm.done)
		for range events {
			// Events carry only a table name; any of them invalidates
			// the whole snapshot, so re-derive everything.
			if err := vm.refresh(ctx); err != nil {
				log.Printf("viewmodel: refresh: %v", err)
			}
		}
	}()
	return nil
}

// Close detaches from the change bus and waits for the follower
// goroutine to finish.
func (vm *ViewModel) Close() {
	if vm.unsubscribe != nil {
		vm.unsubscribe()
		<-vm.done
	}
}

// Updates delivers new snapshots. The channel holds only the latest
// one: a slow observer sees the freshest state, not a backlog.
func (vm *ViewModel) Updates() <-chan Snapshot {
	return vm.updates
}

// Snapshot returns the most recently derived state.
func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.current
}

func (vm *ViewModel) refresh(ctx context.Context) error {
	snap := Snapshot{}

	current, err := vm.tracker.CurrentSession(ctx)
	if err != nil {
		return err
	}
	snap.Current = current

	sessions, err := vm.tracker.TodaySessions(ctx)
	if err != nil {
		return err
	}
	snap.Sessions = sessions

	if current != nil {
		tasks, err := vm.tracker.TasksForSession(ctx, current.ID)
		if err != nil {
			return err
		}
		snap.Tasks = tasks

		count, err := vm.tracker.CompletedCount(ctx, current.ID)
		if err != nil {
			return err
		}
		snap.CompletedCount = count
		snap.Progress = tracker.Progress(tasks)
		snap.TimeRemaining = tracker.TimeRemaining(current, vm.now())
	} else {
		snap.Tasks = []models.Task{}
	}

	vm.publish(snap)
	return nil
}

// publish records snap as current and offers it on the updates
// channel, displacing any undelivered predecessor.
func (vm *ViewModel) publish(snap Snapshot) {
	vm.mu.Lock()
	vm.current = snap
	vm.mu.Unlock()

	for {
		select {
		case vm.updates <- snap:
			return
		default:
			select {
			case <-vm.updates:
			default:
			}
		}
	}
}

// StartWorkSession clocks in and returns the created session. State
// propagation to observers happens via the change bus.
func (vm *ViewModel) StartWorkSession(ctx context.Context, commuteMinutes int) (*models.WorkSession, error) {
	return vm.tracker.StartSession(ctx, commuteMinutes)
}

// EndWorkSession clocks out of today's open session.
func (vm *ViewModel) EndWorkSession(ctx context.Context) (*models.WorkSession, error) {
	return vm.tracker.EndSession(ctx)
}

// AddTask attaches a task to the current session. Returns
// tracker.ErrNoActiveSession when there is none.
func (vm *ViewModel) AddTask(ctx context.Context, description string) (*models.Task, error) {
	current := vm.Snapshot().Current
	if current == nil {
		return nil, tracker.ErrNoActiveSession
	}
	return vm.tracker.AddTask(ctx, current.ID, description)
}

// SetTaskDone persists the given completion state.
func (vm *ViewModel) SetTaskDone(ctx context.Context, task *models.Task, done bool) error {
	return vm.tracker.SetTaskDone(ctx, task, done)
}

// DeleteTask removes a task.
func (vm *ViewModel) DeleteTask(ctx context.Context, task *models.Task) error {
	return vm.tracker.DeleteTask(ctx, task)
}

// ClearAllData wipes both tables.
func (vm *ViewModel) ClearAllData(ctx context.Context) error {
	return vm.tracker.ClearAll(ctx)
}
