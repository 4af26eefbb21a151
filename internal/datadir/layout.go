// Package datadir lays out the local directories holding content pulled from
// a uni server: synced saves and mod archives, grouped per entry.
package datadir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Layout handles path construction and directory management under the
// configured saves and mods roots.
type Layout struct {
	savesDir string
	modsDir  string
}

// New creates a Layout. The roots are typically
// ~/.local/share/uni-remote/saves and ~/.local/share/uni-remote/mods.
func New(savesDir, modsDir string) *Layout {
	return &Layout{savesDir: savesDir, modsDir: modsDir}
}

// SavesDir returns the saves root.
func (l *Layout) SavesDir() string {
	return l.savesDir
}

// ModsDir returns the mods root.
func (l *Layout) ModsDir() string {
	return l.modsDir
}

// SaveDir returns the save directory for one instance.
// Path format: <savesDir>/<entryID>/<instanceID>/
func (l *Layout) SaveDir(entryID, instanceID string) string {
	return filepath.Join(l.savesDir, component(entryID), component(instanceID))
}

// SavePath returns the full path for one pulled save.
// Path format: <savesDir>/<entryID>/<instanceID>/<saveID>.save
func (l *Layout) SavePath(entryID, instanceID, saveID string) string {
	return filepath.Join(l.SaveDir(entryID, instanceID), component(saveID)+".save")
}

// EnsureSaveDir creates the instance save directory if it doesn't exist.
// Returns the directory path.
func (l *Layout) EnsureSaveDir(entryID, instanceID string) (string, error) {
	dir := l.SaveDir(entryID, instanceID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	return dir, nil
}

// ListSaves returns the ids of saves pulled for an instance.
func (l *Layout) ListSaves(entryID, instanceID string) ([]string, error) {
	entries, err := os.ReadDir(l.SaveDir(entryID, instanceID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read save directory: %w", err)
	}

	var saves []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ext := filepath.Ext(name); ext == ".save" {
			saves = append(saves, name[:len(name)-len(ext)])
		}
	}
	return saves, nil
}

// RemoveSave removes one pulled save if it exists.
func (l *Layout) RemoveSave(entryID, instanceID, saveID string) error {
	if err := os.Remove(l.SavePath(entryID, instanceID, saveID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove save: %w", err)
	}
	return nil
}

// ModDir returns the archive directory for one mod of an entry.
// Path format: <modsDir>/<entryID>/<modID>/
func (l *Layout) ModDir(entryID, modID string) string {
	return filepath.Join(l.modsDir, component(entryID), component(modID))
}

// ModPath returns the full path for one mod archive.
// Path format: <modsDir>/<entryID>/<modID>/<subID>.zip, mirroring the
// server's repo layout.
func (l *Layout) ModPath(entryID, modID, subID string) string {
	return filepath.Join(l.ModDir(entryID, modID), component(subID)+".zip")
}

// EnsureModDir creates the mod archive directory if it doesn't exist.
// Returns the directory path.
func (l *Layout) EnsureModDir(entryID, modID string) (string, error) {
	dir := l.ModDir(entryID, modID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create mod directory: %w", err)
	}
	return dir, nil
}

var pathCleaner = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "-",
	`"`, "-",
	"<", "-",
	">", "-",
	"|", "-",
)

// component neutralizes characters that cannot appear in a single path
// component. Server ids are opaque, so they may carry anything.
func component(id string) string {
	return pathCleaner.Replace(id)
}
