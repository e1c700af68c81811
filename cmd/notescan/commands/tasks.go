package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var taskStatus string

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List stored tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		if app.DB != nil {
			defer app.DB.Close()
		}
		list, filter, err := app.Tasks.List(cmd.Context(), userID, taskStatus)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"filter": filter, "tasks": list})
	},
}

func init() {
	tasksCmd.Flags().StringVarP(&taskStatus, "status", "s", "", "all, pending or completed (default: saved setting)")
	rootCmd.AddCommand(tasksCmd)
}
