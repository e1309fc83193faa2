package commands

import (
	"github.com/spf13/cobra"

	"workday/internal/config"
	"workday/internal/store"
	"workday/internal/tracker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "workday",
	Short: "A personal work-day and task tracker",
	Long: `workday tracks your work sessions and the tasks you plan for them.
Clock in, add tasks, watch your progress, and get reminded every hour
until your planned exit time.`,
	SilenceUsage: true,
}

// App is the composition root: the store is constructed once here
// and passed by reference into everything that needs it.
type App struct {
	Config  config.Config
	Store   *store.Store
	Tracker *tracker.Tracker
}

// openApp loads config and opens the database. Callers own the
// returned App and must Close it.
func openApp() (*App, error) {
	cfg := config.Load()
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:  cfg,
		Store:   st,
		Tracker: tracker.New(st),
	}, nil
}

// Close releases the App's database handle.
func (a *App) Close() {
	_ = a.Store.Close()
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(endCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(rescheduleCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(versionCmd)
}
