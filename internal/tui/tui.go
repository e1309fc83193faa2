package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"workday/internal/viewmodel"
)

// RunDashboard starts the interactive dashboard over a started
// ViewModel and blocks until the user quits.
func RunDashboard(vm *viewmodel.ViewModel) error {
	p := tea.NewProgram(NewDashboardModel(vm), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
