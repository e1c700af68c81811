package commands

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"handnotes-backend/internal/documents"
)

var processTimeout time.Duration

var processCmd = &cobra.Command{
	Use:   "process <image>",
	Short: "Upload an image, extract its text and store the classified tasks and notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 5*time.Minute, "overall deadline")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), processTimeout)
	defer cancel()

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat image: %w", err)
	}

	app, err := buildApp(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	res, err := app.Pipeline.Run(ctx, userID, documents.Upload{
		FileName:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		SizeBytes:   info.Size(),
		Body:        f,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
