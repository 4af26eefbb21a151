package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RhyVis/uni-remote/internal/client"
	"github.com/RhyVis/uni-remote/internal/prompt"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Manage synced saves",
	Long: `Manage cloud saves synced through the server's save-sync mod.

Saves live on the server under "<alias>@<timestamp>" ids. Pulled copies are
kept in the local data directory for offline use.`,
}

var savesListCmd = &cobra.Command{
	Use:   "list <entry>",
	Short: "List synced saves for an instance",
	Example: `  # List saves, picking the instance interactively
  uni-remote saves list mygame

  # List saves for a specific instance
  uni-remote saves list mygame -i modded`,
	Args: cobra.ExactArgs(1),
	RunE: runSavesList,
}

var savesPullCmd = &cobra.Command{
	Use:   "pull <entry> [save]",
	Short: "Download synced saves",
	Long: `Download synced saves into the local data directory.

Without a save id every synced save is pulled. The paths of the written
files are printed on success.`,
	Example: `  # Pull every synced save
  uni-remote saves pull mygame

  # Pull one save
  uni-remote saves pull mygame "alice@2025-11-02+10-30-00"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSavesPull,
}

var savesPushCmd = &cobra.Command{
	Use:   "push <entry> <file>",
	Short: "Upload a save code",
	Long: `Upload a save code to the server's save-sync storage.

The file holds the save code exported in game; pass "-" to read it from
stdin. Without --alias a random Docker-style alias is generated that is
free among the saves already synced.`,
	Example: `  # Push a save code under a generated alias
  uni-remote saves push mygame save.txt

  # Push under a fixed alias, reading the code from stdin
  uni-remote saves push mygame - --alias alice`,
	Args: cobra.ExactArgs(2),
	RunE: runSavesPush,
}

var savesRmCmd = &cobra.Command{
	Use:   "rm <entry> <save>",
	Short: "Delete a synced save",
	Long: `Delete a synced save from the server and drop any pulled copy.

Prompts for confirmation unless --force is given.`,
	Example: `  # Delete a save
  uni-remote saves rm mygame "alice@2025-11-02+10-30-00"`,
	Args: cobra.ExactArgs(2),
	RunE: runSavesRm,
}

func init() {
	rootCmd.AddCommand(savesCmd)
	savesCmd.AddCommand(savesListCmd)
	savesCmd.AddCommand(savesPullCmd)
	savesCmd.AddCommand(savesPushCmd)
	savesCmd.AddCommand(savesRmCmd)

	// Every saves subcommand addresses one instance
	for _, c := range []*cobra.Command{savesListCmd, savesPullCmd, savesPushCmd, savesRmCmd} {
		c.Flags().StringP("instance", "i", "", "instance id for SugarCube entries (picked interactively when ambiguous)")
	}

	savesPushCmd.Flags().String("alias", "", "alias to store the save under (generated when empty)")
	savesRmCmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")
}

func runSavesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	entry, instanceID, err := resolveInstanceTarget(cmd, args[0])
	if err != nil {
		return err
	}

	mgr, err := requireSaves(ctx)
	if err != nil {
		return err
	}

	remote, err := mgr.Remote(ctx, entry.ID, instanceID)
	if err != nil {
		return syncUnavailable(err, entry.ID, instanceID)
	}

	local, err := mgr.Local(entry.ID, instanceID)
	if err != nil {
		return fmt.Errorf("list pulled saves: %w", err)
	}

	if len(remote) == 0 && len(local) == 0 {
		fmt.Println("No synced saves")
		return nil
	}

	pulled := make(map[string]bool, len(local))
	for _, id := range local {
		pulled[id] = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "SAVE\tLOCAL"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	onServer := make(map[string]bool, len(remote))
	for _, id := range remote {
		onServer[id] = true
		state := "no"
		if pulled[id] {
			state = "yes"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", id, state); err != nil {
			return fmt.Errorf("write save: %w", err)
		}
	}
	// Pulled copies whose server-side save is gone
	for _, id := range local {
		if onServer[id] {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\tonly local\n", id); err != nil {
			return fmt.Errorf("write save: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

func runSavesPull(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	entry, instanceID, err := resolveInstanceTarget(cmd, args[0])
	if err != nil {
		return err
	}

	mgr, err := requireSaves(ctx)
	if err != nil {
		return err
	}

	var saveID string
	if len(args) > 1 {
		saveID = args[1]
	}

	var paths []string
	err = runWithSpinner(func(status func(string)) error {
		if saveID != "" {
			status("Pulling " + saveID)
			path, pullErr := mgr.Pull(ctx, entry.ID, instanceID, saveID)
			if pullErr != nil {
				return pullErr
			}
			paths = []string{path}
			return nil
		}

		status("Pulling all synced saves")
		var pullErr error
		paths, pullErr = mgr.PullAll(ctx, entry.ID, instanceID)
		return pullErr
	})
	if err != nil {
		if saveID != "" && errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("no save %q synced for %s/%s", saveID, entry.ID, instanceID)
		}
		return syncUnavailable(err, entry.ID, instanceID)
	}

	if len(paths) == 0 {
		fmt.Println("No synced saves to pull")
		return nil
	}
	for _, path := range paths {
		fmt.Println(path)
	}
	return nil
}

func runSavesPush(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	alias, err := cmd.Flags().GetString("alias")
	if err != nil {
		return fmt.Errorf("get alias flag: %w", err)
	}

	entry, instanceID, err := resolveInstanceTarget(cmd, args[0])
	if err != nil {
		return err
	}

	code, err := readSaveCode(args[1])
	if err != nil {
		return err
	}
	if code == "" {
		return fmt.Errorf("save code in %s is empty", args[1])
	}

	mgr, err := requireSaves(ctx)
	if err != nil {
		return err
	}

	used, err := mgr.Push(ctx, entry.ID, instanceID, code, alias)
	if err != nil {
		return syncUnavailable(err, entry.ID, instanceID)
	}

	fmt.Printf("Pushed save as %s\n", used)
	return nil
}

func runSavesRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("get force flag: %w", err)
	}

	entry, instanceID, err := resolveInstanceTarget(cmd, args[0])
	if err != nil {
		return err
	}
	saveID := args[1]

	if !force {
		confirmed, confirmErr := prompt.New().Confirm(
			fmt.Sprintf("Delete save %s?", saveID),
			"Removes it from the server and deletes any pulled copy.",
		)
		if confirmErr != nil {
			if errors.Is(confirmErr, prompt.ErrCanceled) {
				fmt.Println("Aborted.")
				return nil
			}
			return fmt.Errorf("confirm deletion: %w", confirmErr)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	mgr, err := requireSaves(ctx)
	if err != nil {
		return err
	}

	if err := mgr.Delete(ctx, entry.ID, instanceID, saveID); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("no save %q synced for %s/%s", saveID, entry.ID, instanceID)
		}
		return syncUnavailable(err, entry.ID, instanceID)
	}

	fmt.Printf("Deleted %s\n", saveID)
	return nil
}

// readSaveCode reads the save code from a file, or stdin for "-".
func readSaveCode(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read save code: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// syncUnavailable maps the server's refusal of save-sync routes onto a
// readable message. The server answers not-found when the feature is off;
// the entry and instance were already validated against the catalog, so
// that is what a not-found here means.
func syncUnavailable(err error, entryID, instanceID string) error {
	if errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("save sync is not enabled for %s/%s", entryID, instanceID)
	}
	return err
}
