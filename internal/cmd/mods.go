package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RhyVis/uni-remote/internal/client"
	"github.com/RhyVis/uni-remote/internal/mods"
)

var modsCmd = &cobra.Command{
	Use:   "mods",
	Short: "Manage mod archives",
	Long: `Manage the mod archives a SugarCube instance loads.

The server resolves each instance's mod list, including its built-in
save-sync integration mod. Pulled archives are kept in the local data
directory.`,
}

var modsListCmd = &cobra.Command{
	Use:   "list <entry>",
	Short: "List the mod archives an instance loads",
	Example: `  # List mod archive paths
  uni-remote mods list mygame -i modded`,
	Args: cobra.ExactArgs(1),
	RunE: runModsList,
}

var modsPullCmd = &cobra.Command{
	Use:   "pull <entry>",
	Short: "Download an instance's mod archives",
	Long: `Download every mod archive an instance loads into the local data
directory. Archives are fetched concurrently and revalidated against the
local cache, so unchanged archives do not transfer again.`,
	Example: `  # Pull all mod archives
  uni-remote mods pull mygame -i modded`,
	Args: cobra.ExactArgs(1),
	RunE: runModsPull,
}

func init() {
	rootCmd.AddCommand(modsCmd)
	modsCmd.AddCommand(modsListCmd)
	modsCmd.AddCommand(modsPullCmd)

	for _, c := range []*cobra.Command{modsListCmd, modsPullCmd} {
		c.Flags().StringP("instance", "i", "", "instance id for SugarCube entries (picked interactively when ambiguous)")
	}
}

func runModsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	entry, instanceID, err := resolveInstanceTarget(cmd, args[0])
	if err != nil {
		return err
	}

	mgr, err := requireMods(ctx)
	if err != nil {
		return err
	}

	paths, err := mgr.List(ctx, entry.ID, instanceID)
	if err != nil {
		return modsUnavailable(err, entry.ID, instanceID)
	}

	if len(paths) == 0 {
		fmt.Println("No mods")
		return nil
	}
	for _, path := range paths {
		fmt.Println(path)
	}
	return nil
}

func runModsPull(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	entry, instanceID, err := resolveInstanceTarget(cmd, args[0])
	if err != nil {
		return err
	}

	mgr, err := requireMods(ctx)
	if err != nil {
		return err
	}

	var downloads []mods.Download
	err = runWithSpinner(func(status func(string)) error {
		status(fmt.Sprintf("Downloading mod archives for %s/%s", entry.ID, instanceID))
		var pullErr error
		downloads, pullErr = mgr.Pull(ctx, entry.ID, instanceID)
		return pullErr
	})
	if err != nil {
		return modsUnavailable(err, entry.ID, instanceID)
	}

	if len(downloads) == 0 {
		fmt.Println("No mods to pull")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "MOD\tSUBID\tBYTES\tPATH"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, d := range downloads {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ModID, d.SubID, strconv.FormatInt(d.Size, 10), d.Path); err != nil {
			return fmt.Errorf("write download: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

// modsUnavailable maps the server's refusal of the mod routes onto a
// readable message.
func modsUnavailable(err error, entryID, instanceID string) error {
	if errors.Is(err, client.ErrModsDisabled) {
		return fmt.Errorf("mods are not enabled for %s/%s", entryID, instanceID)
	}
	return err
}
