package mods

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RhyVis/uni-remote/internal/datadir"
)

type fakeModAPI struct {
	modListFn  func(ctx context.Context, entryID, instanceID string) ([]string, error)
	fetchModFn func(ctx context.Context, modPath string) ([]byte, error)

	mu      sync.Mutex
	fetched []string
}

func (f *fakeModAPI) ModList(ctx context.Context, entryID, instanceID string) ([]string, error) {
	if f.modListFn == nil {
		return nil, nil
	}
	return f.modListFn(ctx, entryID, instanceID)
}

func (f *fakeModAPI) FetchMod(ctx context.Context, modPath string) ([]byte, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, modPath)
	f.mu.Unlock()
	if f.fetchModFn == nil {
		return nil, nil
	}
	return f.fetchModFn(ctx, modPath)
}

func newTestManager(t *testing.T, api *fakeModAPI) (*Manager, *datadir.Layout) {
	t.Helper()
	layout := datadir.New(t.TempDir(), t.TempDir())
	return NewManager(api, layout), layout
}

func TestManager_List(t *testing.T) {
	t.Run("returns archive paths as listed", func(t *testing.T) {
		api := &fakeModAPI{
			modListFn: func(_ context.Context, entryID, instanceID string) ([]string, error) {
				assert.Equal(t, "g2", entryID)
				assert.Equal(t, "i1", instanceID)
				return []string{"/repo/sc/mod/g2/extra-art/2"}, nil
			},
		}
		mgr, _ := newTestManager(t, api)

		paths, err := mgr.List(context.Background(), "g2", "i1")
		require.NoError(t, err)
		assert.Equal(t, []string{"/repo/sc/mod/g2/extra-art/2"}, paths)
	})

	t.Run("prefixes the built-in integration mod path", func(t *testing.T) {
		api := &fakeModAPI{
			modListFn: func(context.Context, string, string) ([]string, error) {
				return []string{
					"/repo/sc/mod/g2/extra-art/2",
					"/sc/mod/g2/uni-sync/0",
				}, nil
			},
		}
		mgr, _ := newTestManager(t, api)

		paths, err := mgr.List(context.Background(), "g2", "i1")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"/repo/sc/mod/g2/extra-art/2",
			"/repo/sc/mod/g2/uni-sync/0",
		}, paths)
	})

	t.Run("wraps server failures", func(t *testing.T) {
		api := &fakeModAPI{
			modListFn: func(context.Context, string, string) ([]string, error) {
				return nil, errors.New("boom")
			},
		}
		mgr, _ := newTestManager(t, api)

		_, err := mgr.List(context.Background(), "g2", "i1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list mods")
	})
}

func TestManager_Pull(t *testing.T) {
	t.Run("downloads every archive into the data directory", func(t *testing.T) {
		api := &fakeModAPI{
			modListFn: func(context.Context, string, string) ([]string, error) {
				return []string{
					"/repo/sc/mod/g2/extra-art/2",
					"/sc/mod/g2/uni-sync/0",
				}, nil
			},
			fetchModFn: func(_ context.Context, modPath string) ([]byte, error) {
				return []byte("zip:" + modPath), nil
			},
		}
		mgr, layout := newTestManager(t, api)

		downloads, err := mgr.Pull(context.Background(), "g2", "i1")
		require.NoError(t, err)
		require.Len(t, downloads, 2)

		// Results keep list order regardless of fetch interleaving.
		assert.Equal(t, "extra-art", downloads[0].ModID)
		assert.Equal(t, "2", downloads[0].SubID)
		assert.Equal(t, "uni-sync", downloads[1].ModID)
		assert.Equal(t, "0", downloads[1].SubID)

		data, err := os.ReadFile(layout.ModPath("g2", "extra-art", "2"))
		require.NoError(t, err)
		assert.Equal(t, "zip:/repo/sc/mod/g2/extra-art/2", string(data))

		data, err = os.ReadFile(layout.ModPath("g2", "uni-sync", "0"))
		require.NoError(t, err)
		assert.Equal(t, "zip:/repo/sc/mod/g2/uni-sync/0", string(data))

		assert.Equal(t, int64(len("zip:/repo/sc/mod/g2/extra-art/2")), downloads[0].Size)
	})

	t.Run("fetches the integration mod through the repo route", func(t *testing.T) {
		api := &fakeModAPI{
			modListFn: func(context.Context, string, string) ([]string, error) {
				return []string{"/sc/mod/g2/uni-sync/0"}, nil
			},
			fetchModFn: func(context.Context, string) ([]byte, error) {
				return []byte("zip"), nil
			},
		}
		mgr, _ := newTestManager(t, api)

		_, err := mgr.Pull(context.Background(), "g2", "i1")
		require.NoError(t, err)
		assert.Equal(t, []string{"/repo/sc/mod/g2/uni-sync/0"}, api.fetched)
	})

	t.Run("returns nothing for an instance without mods", func(t *testing.T) {
		mgr, _ := newTestManager(t, &fakeModAPI{})

		downloads, err := mgr.Pull(context.Background(), "g2", "i1")
		require.NoError(t, err)
		assert.Empty(t, downloads)
	})

	t.Run("fails when any archive fails", func(t *testing.T) {
		api := &fakeModAPI{
			modListFn: func(context.Context, string, string) ([]string, error) {
				return []string{
					"/repo/sc/mod/g2/good/1",
					"/repo/sc/mod/g2/bad/1",
				}, nil
			},
			fetchModFn: func(_ context.Context, modPath string) ([]byte, error) {
				if modPath == "/repo/sc/mod/g2/bad/1" {
					return nil, errors.New("boom")
				}
				return []byte("zip"), nil
			},
		}
		mgr, _ := newTestManager(t, api)

		_, err := mgr.Pull(context.Background(), "g2", "i1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad/1")
	})

	t.Run("rejects paths it cannot place", func(t *testing.T) {
		api := &fakeModAPI{
			modListFn: func(context.Context, string, string) ([]string, error) {
				return []string{"/repo/oops"}, nil
			},
		}
		mgr, _ := newTestManager(t, api)

		_, err := mgr.Pull(context.Background(), "g2", "i1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized mod path")
	})
}

func TestSplitModPath(t *testing.T) {
	modID, subID, err := splitModPath("/repo/sc/mod/g2/extra-art/2")
	require.NoError(t, err)
	assert.Equal(t, "extra-art", modID)
	assert.Equal(t, "2", subID)

	_, _, err = splitModPath("/repo/sc/mod/g2")
	assert.Error(t, err)
}
