package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all sessions and tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Println("This deletes every session and task. Re-run with --yes to confirm.")
			return nil
		}

		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Tracker.ClearAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("All data cleared.")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("workday %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	clearCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
