// Package cmd implements the uni-remote CLI commands using Cobra.
// It provides commands for browsing the game catalog of a uni server,
// launching entries in the browser, and keeping local copies of cloud
// saves and mod archives.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/RhyVis/uni-remote/internal/browser"
	"github.com/RhyVis/uni-remote/internal/catalog"
	"github.com/RhyVis/uni-remote/internal/client"
	"github.com/RhyVis/uni-remote/internal/config"
	"github.com/RhyVis/uni-remote/internal/datadir"
	"github.com/RhyVis/uni-remote/internal/exec"
	"github.com/RhyVis/uni-remote/internal/launch"
	"github.com/RhyVis/uni-remote/internal/mods"
	"github.com/RhyVis/uni-remote/internal/saves"
	"github.com/RhyVis/uni-remote/internal/slogger"
)

// appConfig holds the loaded application configuration.
var appConfig *config.Config

// configLoader is used for reading and writing configuration values.
var configLoader *config.Loader

// apiClient talks to the uni server, initialized in PersistentPreRunE.
var apiClient client.Client

// store caches the server's catalog, initialized in PersistentPreRunE.
var store *catalog.Store

// launcher opens catalog entries in the browser.
var launcher *launch.Launcher

// savesMgr syncs cloud saves between the server and local storage.
var savesMgr *saves.Manager

// modsMgr downloads mod archives for SugarCube instances.
var modsMgr *mods.Manager

var rootCmd = &cobra.Command{
	Use:   "uni-remote",
	Short: "Browse and play games served by a uni server",
	Long: `uni-remote is a CLI client for a uni game server.

It lists the server's game catalog, opens entries in your browser, and keeps
local copies of cloud saves and SugarCube mod archives for offline use.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, err := cmd.Flags().GetCount("verbose")
		if err != nil {
			return fmt.Errorf("read verbose flag: %w", err)
		}

		if err := initServices(); err != nil {
			return err
		}

		// Store dependencies in context for subcommands
		ctx := cmd.Context()
		ctx = slogger.WithLogger(ctx, slogger.New(slogger.Config{Verbosity: verbosity}))
		ctx = WithConfig(ctx, appConfig)
		ctx = WithLoader(ctx, configLoader)
		ctx = WithClient(ctx, apiClient)
		ctx = WithStore(ctx, store)
		ctx = WithLauncher(ctx, launcher)
		ctx = WithSaves(ctx, savesMgr)
		ctx = WithMods(ctx, modsMgr)
		cmd.SetContext(ctx)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// The context carries cancellation into every server call, so Ctrl-C aborts
// cleanly mid-transfer.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
}

func initConfig() {
	loader, err := config.NewLoader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
		return
	}

	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config validation failed: %v\n", err)
	}

	appConfig = cfg
	configLoader = loader
}

// initServices initializes the server client and the managers built on it.
func initServices() error {
	var serverURL, browserCommand, savesDir, modsDir string
	var timeout, modCacheTTL time.Duration

	if appConfig != nil {
		// Use settings from config (paths already expanded)
		serverURL = appConfig.Server.URL
		timeout = appConfig.Server.Timeout
		modCacheTTL = appConfig.Server.ModCacheTTL
		browserCommand = appConfig.Browser.Command
		savesDir = appConfig.Storage.Saves
		modsDir = appConfig.Storage.Mods
	} else {
		// Fallback to defaults
		dataDir, err := defaultDataDir()
		if err != nil {
			return err
		}
		serverURL = config.DefaultServerURL
		timeout = 30 * time.Second
		savesDir = filepath.Join(dataDir, "saves")
		modsDir = filepath.Join(dataDir, "mods")
	}

	apiClient = client.New(client.Config{
		BaseURL:     serverURL,
		Timeout:     timeout,
		ModCacheTTL: modCacheTTL,
	})
	store = catalog.NewStore(apiClient)

	executor := exec.New()
	opener := browser.NewOpener(executor, browserCommand)
	launcher = launch.NewLauncher(serverURL, opener)

	layout := datadir.New(savesDir, modsDir)
	savesMgr = saves.NewManager(apiClient, layout)
	modsMgr = mods.NewManager(apiClient, layout)

	return nil
}
