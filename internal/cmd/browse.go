package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/RhyVis/uni-remote/internal/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Browse the catalog in an interactive terminal UI.

Move with the arrow keys or j/k, press enter to launch the selection, and
press r to refresh the catalog from the server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := requireStore(ctx)
		if err != nil {
			return err
		}

		launcher, err := requireLauncher(ctx)
		if err != nil {
			return err
		}

		app := browse.New(ctx, store, launcher)
		if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("run catalog browser: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
