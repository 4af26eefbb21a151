// Package saves syncs save-sync content between a uni server and the local
// data directory.
package saves

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/RhyVis/uni-remote/internal/datadir"
	"github.com/RhyVis/uni-remote/internal/names"
	"github.com/RhyVis/uni-remote/internal/slogger"
)

// syncAPI is the internal interface for save-sync server operations.
type syncAPI interface {
	SaveList(ctx context.Context, entryID, instanceID string) ([]string, error)
	FetchSave(ctx context.Context, entryID, instanceID, saveID string) (string, error)
	UploadSave(ctx context.Context, entryID, instanceID, code, alias string) error
	DeleteSave(ctx context.Context, entryID, instanceID, saveID string) error
}

// Manager orchestrates save-sync operations against one server.
type Manager struct {
	api    syncAPI
	layout *datadir.Layout
}

// NewManager creates a save-sync manager.
func NewManager(api syncAPI, layout *datadir.Layout) *Manager {
	return &Manager{api: api, layout: layout}
}

// Remote returns the ids of saves synced on the server.
func (m *Manager) Remote(ctx context.Context, entryID, instanceID string) ([]string, error) {
	ids, err := m.api.SaveList(ctx, entryID, instanceID)
	if err != nil {
		return nil, fmt.Errorf("list remote saves: %w", err)
	}
	return ids, nil
}

// Local returns the ids of saves already pulled for an instance.
func (m *Manager) Local(entryID, instanceID string) ([]string, error) {
	return m.layout.ListSaves(entryID, instanceID)
}

// Pull downloads one save into the local data directory and returns the
// path it was written to.
func (m *Manager) Pull(ctx context.Context, entryID, instanceID, saveID string) (string, error) {
	content, err := m.api.FetchSave(ctx, entryID, instanceID, saveID)
	if err != nil {
		return "", fmt.Errorf("fetch save %q: %w", saveID, err)
	}

	if _, err := m.layout.EnsureSaveDir(entryID, instanceID); err != nil {
		return "", err
	}

	path := m.layout.SavePath(entryID, instanceID, saveID)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write save: %w", err)
	}

	slogger.L(ctx).Debug("pulled save",
		"entry", entryID, "instance", instanceID, "save", saveID, "path", path)
	return path, nil
}

// PullAll downloads every remote save for an instance and returns the local
// paths in remote order.
func (m *Manager) PullAll(ctx context.Context, entryID, instanceID string) ([]string, error) {
	ids, err := m.Remote(ctx, entryID, instanceID)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(ids))
	for _, id := range ids {
		path, err := m.Pull(ctx, entryID, instanceID, id)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Push uploads a save code under the given alias and returns the alias used.
// An empty alias picks a generated one that is free among the remote saves.
func (m *Manager) Push(ctx context.Context, entryID, instanceID, code, alias string) (string, error) {
	if alias == "" {
		ids, err := m.Remote(ctx, entryID, instanceID)
		if err != nil {
			return "", err
		}
		alias, err = names.GenerateUnique(func(candidate string) bool {
			return aliasTaken(ids, candidate)
		}, 0)
		if err != nil {
			return "", fmt.Errorf("pick alias: %w", err)
		}
	}

	if err := m.api.UploadSave(ctx, entryID, instanceID, code, alias); err != nil {
		return "", fmt.Errorf("upload save: %w", err)
	}

	slogger.L(ctx).Debug("pushed save",
		"entry", entryID, "instance", instanceID, "alias", alias)
	return alias, nil
}

// Delete removes a synced save from the server and drops any pulled copy.
func (m *Manager) Delete(ctx context.Context, entryID, instanceID, saveID string) error {
	if err := m.api.DeleteSave(ctx, entryID, instanceID, saveID); err != nil {
		return fmt.Errorf("delete remote save: %w", err)
	}
	return m.layout.RemoveSave(entryID, instanceID, saveID)
}

// aliasTaken reports whether any remote save id carries the alias. Ids are
// formed server-side as "<alias>@<timestamp>".
func aliasTaken(ids []string, alias string) bool {
	for _, id := range ids {
		if id == alias || strings.HasPrefix(id, alias+"@") {
			return true
		}
	}
	return false
}
