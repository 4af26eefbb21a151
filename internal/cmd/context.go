package cmd

import (
	"context"

	"github.com/RhyVis/uni-remote/internal/catalog"
	"github.com/RhyVis/uni-remote/internal/client"
	"github.com/RhyVis/uni-remote/internal/config"
	"github.com/RhyVis/uni-remote/internal/launch"
	"github.com/RhyVis/uni-remote/internal/mods"
	"github.com/RhyVis/uni-remote/internal/saves"
)

type contextKey string

const (
	configKey   contextKey = "config"
	loaderKey   contextKey = "loader"
	storeKey    contextKey = "store"
	clientKey   contextKey = "client"
	launcherKey contextKey = "launcher"
	savesKey    contextKey = "saves"
	modsKey     contextKey = "mods"
)

// WithConfig adds the config to the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// ConfigFromContext retrieves the config from context.
func ConfigFromContext(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		return nil
	}
	return cfg
}

// WithLoader adds the config loader to the context.
func WithLoader(ctx context.Context, loader *config.Loader) context.Context {
	return context.WithValue(ctx, loaderKey, loader)
}

// LoaderFromContext retrieves the config loader from context.
func LoaderFromContext(ctx context.Context) *config.Loader {
	loader, ok := ctx.Value(loaderKey).(*config.Loader)
	if !ok {
		return nil
	}
	return loader
}

// WithStore adds the catalog store to the context.
func WithStore(ctx context.Context, store *catalog.Store) context.Context {
	return context.WithValue(ctx, storeKey, store)
}

// StoreFromContext retrieves the catalog store from context.
func StoreFromContext(ctx context.Context) *catalog.Store {
	store, ok := ctx.Value(storeKey).(*catalog.Store)
	if !ok {
		return nil
	}
	return store
}

// WithClient adds the server API client to the context.
func WithClient(ctx context.Context, c client.Client) context.Context {
	return context.WithValue(ctx, clientKey, c)
}

// ClientFromContext retrieves the server API client from context.
func ClientFromContext(ctx context.Context) client.Client {
	c, ok := ctx.Value(clientKey).(client.Client)
	if !ok {
		return nil
	}
	return c
}

// WithLauncher adds the launcher to the context.
func WithLauncher(ctx context.Context, l *launch.Launcher) context.Context {
	return context.WithValue(ctx, launcherKey, l)
}

// LauncherFromContext retrieves the launcher from context.
func LauncherFromContext(ctx context.Context) *launch.Launcher {
	l, ok := ctx.Value(launcherKey).(*launch.Launcher)
	if !ok {
		return nil
	}
	return l
}

// WithSaves adds the save-sync manager to the context.
func WithSaves(ctx context.Context, mgr *saves.Manager) context.Context {
	return context.WithValue(ctx, savesKey, mgr)
}

// SavesFromContext retrieves the save-sync manager from context.
func SavesFromContext(ctx context.Context) *saves.Manager {
	mgr, ok := ctx.Value(savesKey).(*saves.Manager)
	if !ok {
		return nil
	}
	return mgr
}

// WithMods adds the mod manager to the context.
func WithMods(ctx context.Context, mgr *mods.Manager) context.Context {
	return context.WithValue(ctx, modsKey, mgr)
}

// ModsFromContext retrieves the mod manager from context.
func ModsFromContext(ctx context.Context) *mods.Manager {
	mgr, ok := ctx.Value(modsKey).(*mods.Manager)
	if !ok {
		return nil
	}
	return mgr
}
