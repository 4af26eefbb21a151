package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RhyVis/uni-remote/internal/launch"
	"github.com/RhyVis/uni-remote/internal/prompt"
)

var launchCmd = &cobra.Command{
	Use:   "launch <entry> [instance]",
	Short: "Open a catalog entry in the browser",
	Long: `Open a catalog entry in the browser.

Standalone entries open directly. SugarCube entries open one of their
instances: pass its id, or leave it off to pick interactively (a lone
instance is picked automatically).`,
	Example: `  # Open a standalone entry
  uni-remote launch mygame

  # Open a specific instance of a SugarCube entry
  uni-remote launch mygame modded

  # Print the play URL without opening a browser
  uni-remote launch mygame --print-url`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		printURL, err := cmd.Flags().GetBool("print-url")
		if err != nil {
			return fmt.Errorf("get print-url flag: %w", err)
		}

		entry, err := findEntry(ctx, args[0])
		if err != nil {
			return err
		}

		var instanceID string
		if len(args) > 1 {
			instanceID = args[1]
		}
		instanceID, err = pickInstance(entry, instanceID, prompt.New())
		if err != nil {
			return err
		}

		launcher, err := requireLauncher(ctx)
		if err != nil {
			return err
		}

		if printURL {
			subID, err := launch.SubID(*entry, instanceID)
			if err != nil {
				return err
			}
			fmt.Println(launcher.URL(entry.ID, subID))
			return nil
		}

		dest, err := launcher.Launch(ctx, *entry, instanceID)
		if err != nil {
			return fmt.Errorf("launch %s: %w", entry.ID, err)
		}

		fmt.Printf("Opened %s\n", dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)

	launchCmd.Flags().Bool("print-url", false, "print the play URL instead of opening the browser")
}
