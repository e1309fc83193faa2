package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"workday/internal/tracker"
	"workday/internal/viewmodel"
)

// DashboardModel is the live view of today's session: entry/exit
// times, task list, progress bar, and a ticking time-remaining
// display.
type DashboardModel struct {
	vm   *viewmodel.ViewModel
	snap viewmodel.Snapshot

	progress progress.Model
	input    textinput.Model

	width  int
	height int

	now      time.Time
	cursor   int
	adding   bool
	quitting bool
	err      error
}

// tickMsg drives the per-second clock display.
type tickMsg time.Time

// snapshotMsg carries a fresh view-model snapshot.
type snapshotMsg viewmodel.Snapshot

// NewDashboardModel creates the dashboard over a started ViewModel.
func NewDashboardModel(vm *viewmodel.ViewModel) DashboardModel {
	input := textinput.New()
	input.Placeholder = "what needs doing?"
	input.CharLimit = 120
	input.Width = 40

	return DashboardModel{
		vm:       vm,
		snap:     vm.Snapshot(),
		progress: progress.New(progress.WithDefaultGradient()),
		input:    input,
		now:      time.Now(),
	}
}

// Init starts the clock ticker and the snapshot follower.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForSnapshot(m.vm))
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForSnapshot blocks on the view model's updates channel and
// forwards the next snapshot into the bubbletea loop.
func waitForSnapshot(vm *viewmodel.ViewModel) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-vm.Updates()
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		if m.quitting {
			return m, nil
		}
		return m, tickCmd()

	case snapshotMsg:
		m.snap = viewmodel.Snapshot(msg)
		if m.cursor >= len(m.snap.Tasks) {
			m.cursor = len(m.snap.Tasks) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, waitForSnapshot(m.vm)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - 8
		if barWidth > 48 {
			barWidth = 48
		}
		if barWidth > 0 {
			m.progress.Width = barWidth
		}
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m DashboardModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case "enter":
		description := m.input.Value()
		m.adding = false
		m.input.Reset()
		m.input.Blur()
		if _, err := m.vm.AddTask(context.Background(), description); err != nil {
			m.err = err
		} else {
			m.err = nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m DashboardModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "a":
		if m.snap.Current == nil {
			m.err = tracker.ErrNoActiveSession
			return m, nil
		}
		m.adding = true
		m.err = nil
		m.input.Focus()
		return m, textinput.Blink

	case "j", "down":
		if m.cursor < len(m.snap.Tasks)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case " ", "enter":
		if m.cursor < len(m.snap.Tasks) {
			task := m.snap.Tasks[m.cursor]
			if err := m.vm.SetTaskDone(ctx, &task, !task.IsCompleted); err != nil {
				m.err = err
			}
		}
		return m, nil

	case "d":
		if m.cursor < len(m.snap.Tasks) {
			task := m.snap.Tasks[m.cursor]
			if err := m.vm.DeleteTask(ctx, &task); err != nil {
				m.err = err
			}
		}
		return m, nil

	case "s":
		if m.snap.Current == nil {
			if _, err := m.vm.StartWorkSession(ctx, tracker.DefaultCommuteMinutes); err != nil {
				m.err = err
			}
		}
		return m, nil

	case "e":
		if m.snap.Current != nil {
			if _, err := m.vm.EndWorkSession(ctx); err != nil {
				m.err = err
			}
		}
		return m, nil
	}

	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentMain))
	primaryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	secondaryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Strikethrough(true)
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))

	var b strings.Builder
	b.WriteString(titleStyle.Render("workday"))
	b.WriteString("\n\n")

	if m.snap.Current == nil {
		b.WriteString(secondaryStyle.Render("No active work session today."))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("s start session · q quit"))
		return b.String()
	}

	session := m.snap.Current
	line := fmt.Sprintf("🟢 in at %s", session.EntryTime.Format("15:04"))
	if session.PlannedExitTime != nil {
		line += fmt.Sprintf(" · planned exit %s", session.PlannedExitTime.Format("15:04"))
	}
	b.WriteString(primaryStyle.Render(line))
	b.WriteString("\n")
	b.WriteString(secondaryStyle.Render(m.remainingLine()))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.snap.Progress))
	b.WriteString(secondaryStyle.Render(fmt.Sprintf("  %d/%d done", m.snap.CompletedCount, len(m.snap.Tasks))))
	b.WriteString("\n\n")

	if len(m.snap.Tasks) == 0 {
		b.WriteString(secondaryStyle.Render("No tasks yet — press a to add one."))
		b.WriteString("\n")
	}
	for i, task := range m.snap.Tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		mark := "[ ] "
		style := primaryStyle
		if task.IsCompleted {
			mark = "[x] "
			style = doneStyle
		}
		b.WriteString(cursor + mark + style.Render(task.Description) + "\n")
	}

	if m.adding {
		b.WriteString("\n")
		b.WriteString(primaryStyle.Render("New task: "))
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("a add · space toggle · d delete · e end session · q quit"))
	return b.String()
}

// remainingLine renders live time-until-exit from the current clock,
// not the snapshot, so it ticks between state changes.
func (m DashboardModel) remainingLine() string {
	remaining := tracker.TimeRemaining(m.snap.Current, m.now)
	if remaining < 0 {
		return fmt.Sprintf("⏰ %s overtime", formatClock(-remaining))
	}
	return fmt.Sprintf("⏳ %s remaining", formatClock(remaining))
}

// formatClock renders a duration as H:MM:SS.
func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
