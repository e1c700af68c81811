package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"handnotes-backend/internal/bootstrap"
	"handnotes-backend/internal/shared/config"
)

var userID string

var rootCmd = &cobra.Command{
	Use:   "notescan",
	Short: "Digitize handwritten notes from the command line",
	Long: `notescan runs the same upload, OCR and classification pipeline as the API
against local files, using the configuration from the environment and .env.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "user id that owns the results (required)")
	_ = rootCmd.MarkPersistentFlagRequired("user")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// buildApp is swapped in tests.
var buildApp = func(ctx context.Context) (*bootstrap.App, error) {
	return bootstrap.BuildContext(ctx, config.Load())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
