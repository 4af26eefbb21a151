// Package mods prefetches mod archives for layered instances into the local
// data directory.
package mods

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/RhyVis/uni-remote/internal/datadir"
	"github.com/RhyVis/uni-remote/internal/slogger"
)

// modAPI is the internal interface for mod server operations.
type modAPI interface {
	ModList(ctx context.Context, entryID, instanceID string) ([]string, error)
	FetchMod(ctx context.Context, modPath string) ([]byte, error)
}

// Download describes one pulled mod archive.
type Download struct {
	ModID string
	SubID string
	Path  string // local archive path
	Size  int64
}

// Manager downloads mod archives via the server API.
type Manager struct {
	api    modAPI
	layout *datadir.Layout
}

// NewManager creates a mod manager.
func NewManager(api modAPI, layout *datadir.Layout) *Manager {
	return &Manager{api: api, layout: layout}
}

// List returns the server-relative archive paths for an instance, normalized
// so every path is fetchable as-is.
func (m *Manager) List(ctx context.Context, entryID, instanceID string) ([]string, error) {
	paths, err := m.api.ModList(ctx, entryID, instanceID)
	if err != nil {
		return nil, fmt.Errorf("list mods: %w", err)
	}

	normalized := make([]string, len(paths))
	for i, p := range paths {
		normalized[i] = normalize(p)
	}
	return normalized, nil
}

// Pull downloads every mod archive for an instance into the local data
// directory. Archives are fetched concurrently; results keep list order.
func (m *Manager) Pull(ctx context.Context, entryID, instanceID string) ([]Download, error) {
	paths, err := m.List(ctx, entryID, instanceID)
	if err != nil {
		return nil, err
	}

	downloads := make([]Download, len(paths))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.NumCPU())

	for i, p := range paths {
		grp.Go(func() error {
			dl, err := m.pull(ctx, entryID, p)
			if err != nil {
				return err
			}
			downloads[i] = dl
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return downloads, nil
}

func (m *Manager) pull(ctx context.Context, entryID, modPath string) (Download, error) {
	modID, subID, err := splitModPath(modPath)
	if err != nil {
		return Download{}, err
	}

	data, err := m.api.FetchMod(ctx, modPath)
	if err != nil {
		return Download{}, fmt.Errorf("fetch mod %s/%s: %w", modID, subID, err)
	}

	if _, err := m.layout.EnsureModDir(entryID, modID); err != nil {
		return Download{}, err
	}

	local := m.layout.ModPath(entryID, modID, subID)
	if err := os.WriteFile(local, data, 0o600); err != nil {
		return Download{}, fmt.Errorf("write mod archive: %w", err)
	}

	slogger.L(ctx).Debug("pulled mod archive",
		"entry", entryID, "mod", modID, "sub", subID, "bytes", len(data))

	return Download{ModID: modID, SubID: subID, Path: local, Size: int64(len(data))}, nil
}

// normalize adds the /repo prefix the server omits on its built-in
// save-sync integration mod, so every listed path hits the repo route.
func normalize(p string) string {
	if strings.HasPrefix(p, "/repo/") {
		return p
	}
	return "/repo" + p
}

// splitModPath extracts the mod and sub ids from a server archive path of
// the form /repo/sc/mod/{entry}/{mod}/{sub}.
func splitModPath(p string) (modID, subID string, err error) {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	if len(parts) < 6 {
		return "", "", fmt.Errorf("unrecognized mod path %q", p)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
