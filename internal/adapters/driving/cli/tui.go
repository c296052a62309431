package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/minereg/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface for asking questions
against the ingested regulations and browsing documents and their chunks.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Ask / Open
  n        - New question
  Esc      - Back
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the TUI from the wired services.
func newTUIApp(cmd *cobra.Command) (*tui.App, error) {
	userID, err := setup(cmd)
	if err != nil {
		return nil, err
	}

	app, err := tui.NewApp(&tui.Ports{
		Retrieval: retrievalService,
		Document:  documentService,
		UserID:    userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	return app.WithContext(cmd.Context()), nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := newTUIApp(cmd)
	if err != nil {
		return err
	}
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
