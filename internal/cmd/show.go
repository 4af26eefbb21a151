package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RhyVis/uni-remote/internal/catalog"
)

var showCmd = &cobra.Command{
	Use:   "show <entry>",
	Short: "Show details for a catalog entry",
	Long: `Show details for one catalog entry, including its play URL for
standalone games and the instance breakdown for SugarCube entries.`,
	Example: `  # Inspect an entry
  uni-remote show mygame`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		entry, err := findEntry(ctx, args[0])
		if err != nil {
			return err
		}

		launcher, err := requireLauncher(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("ID:    %s\n", entry.ID)
		fmt.Printf("Name:  %s\n", entry.DisplayName())
		fmt.Printf("Type:  %s\n", entry.Label())

		switch m := entry.Manage.(type) {
		case catalog.Plain:
			fmt.Printf("URL:   %s\n", launcher.URL(entry.ID, m.LaunchToken))
			return nil
		case catalog.SugarCube:
			if len(m.Instances) == 0 {
				fmt.Println("\nNo instances")
				return nil
			}

			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			if _, err := fmt.Fprintln(w, "INSTANCE\tNAME\tINDEX\tLAYERS\tMODS"); err != nil {
				return fmt.Errorf("write header: %w", err)
			}
			for _, inst := range m.Instances {
				if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					inst.ID, inst.DisplayName(), inst.Index,
					strconv.Itoa(len(inst.Layers)), strconv.Itoa(len(inst.Mods))); err != nil {
					return fmt.Errorf("write instance: %w", err)
				}
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("flush output: %w", err)
			}
			return nil
		default:
			panic(fmt.Sprintf("unhandled manage variant %T", entry.Manage))
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
