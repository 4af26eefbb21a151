package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/RhyVis/uni-remote/internal/catalog"
	"github.com/RhyVis/uni-remote/internal/client"
	"github.com/RhyVis/uni-remote/internal/config"
	"github.com/RhyVis/uni-remote/internal/launch"
	"github.com/RhyVis/uni-remote/internal/mods"
	"github.com/RhyVis/uni-remote/internal/prompt"
	"github.com/RhyVis/uni-remote/internal/saves"
	"github.com/RhyVis/uni-remote/internal/spinner"
)

func requireClient(ctx context.Context) (client.Client, error) {
	api := ClientFromContext(ctx)
	if api == nil {
		return nil, errors.New("server client not initialized")
	}
	return api, nil
}

func requireStore(ctx context.Context) (*catalog.Store, error) {
	store := StoreFromContext(ctx)
	if store == nil {
		return nil, errors.New("catalog store not initialized")
	}
	return store, nil
}

func requireLauncher(ctx context.Context) (*launch.Launcher, error) {
	launcher := LauncherFromContext(ctx)
	if launcher == nil {
		return nil, errors.New("launcher not initialized")
	}
	return launcher, nil
}

func requireSaves(ctx context.Context) (*saves.Manager, error) {
	mgr := SavesFromContext(ctx)
	if mgr == nil {
		return nil, errors.New("save manager not initialized")
	}
	return mgr, nil
}

func requireMods(ctx context.Context) (*mods.Manager, error) {
	mgr := ModsFromContext(ctx)
	if mgr == nil {
		return nil, errors.New("mod manager not initialized")
	}
	return mgr, nil
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, config.DefaultDataDir), nil
}

// loadEntries fetches the full catalog from the server.
func loadEntries(ctx context.Context) ([]catalog.Entry, error) {
	api, err := requireClient(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := api.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return entries, nil
}

// findEntry fetches the catalog and returns the entry with the given id.
func findEntry(ctx context.Context, id string) (*catalog.Entry, error) {
	entries, err := loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("no catalog entry %q (run 'uni-remote list' to see what the server offers)", id)
}

// pickInstance resolves which instance of entry to address. Plain entries
// resolve to the empty id. An explicit id is verified against the entry, a
// lone SugarCube instance is picked automatically, and an interactive choice
// settles the rest.
func pickInstance(entry *catalog.Entry, instanceID string, prompter prompt.Prompter) (string, error) {
	switch m := entry.Manage.(type) {
	case catalog.Plain:
		if instanceID != "" {
			return "", fmt.Errorf("%s runs standalone and takes no instance", entry.ID)
		}
		return "", nil
	case catalog.SugarCube:
		if instanceID != "" {
			if _, err := m.Instance(instanceID); err != nil {
				return "", fmt.Errorf("entry %s: %w", entry.ID, err)
			}
			return instanceID, nil
		}
		switch len(m.Instances) {
		case 0:
			return "", fmt.Errorf("%s has no instances", entry.ID)
		case 1:
			return m.Instances[0].ID, nil
		}

		options := make([]string, len(m.Instances))
		for i, inst := range m.Instances {
			options[i] = fmt.Sprintf("%s (%s)", inst.DisplayName(), inst.ID)
		}
		idx, err := prompter.Choice("Which instance?", options)
		if err != nil {
			return "", err
		}
		return m.Instances[idx].ID, nil
	default:
		panic(fmt.Sprintf("unhandled manage variant %T", entry.Manage))
	}
}

// pickSugarCubeInstance is pickInstance for commands that only make sense
// against SugarCube instances (save sync, mod overlays).
func pickSugarCubeInstance(entry *catalog.Entry, instanceID string, prompter prompt.Prompter) (string, error) {
	if _, ok := entry.Manage.(catalog.Plain); ok {
		return "", fmt.Errorf("%s is a %s entry and has neither saves nor mods", entry.ID, entry.Label())
	}
	return pickInstance(entry, instanceID, prompter)
}

// resolveInstanceTarget finds the entry named on the command line and settles
// which of its instances the command addresses, honoring the --instance flag.
func resolveInstanceTarget(cmd *cobra.Command, entryID string) (*catalog.Entry, string, error) {
	instanceFlag, err := cmd.Flags().GetString("instance")
	if err != nil {
		return nil, "", fmt.Errorf("get instance flag: %w", err)
	}

	entry, err := findEntry(cmd.Context(), entryID)
	if err != nil {
		return nil, "", err
	}

	instanceID, err := pickSugarCubeInstance(entry, instanceFlag, prompt.New())
	if err != nil {
		return nil, "", err
	}
	return entry, instanceID, nil
}

// runWithSpinner runs fn with an animated spinner on stderr, handing it a
// callback for status lines. When stderr is not a terminal the spinner is
// skipped and status lines print directly.
func runWithSpinner(fn func(status func(string)) error) error {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return fn(func(line string) { fmt.Fprintln(os.Stderr, line) })
	}

	sp := spinner.New(os.Stderr)
	errCh := make(chan error, 1)
	go func() { errCh <- sp.Start() }()

	err := fn(sp.Status)
	sp.Stop()
	if startErr := <-errCh; err == nil {
		err = startErr
	}
	return err
}
