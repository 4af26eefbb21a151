package saves

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RhyVis/uni-remote/internal/datadir"
)

type fakeSyncAPI struct {
	saveListFn   func(ctx context.Context, entryID, instanceID string) ([]string, error)
	fetchSaveFn  func(ctx context.Context, entryID, instanceID, saveID string) (string, error)
	uploadSaveFn func(ctx context.Context, entryID, instanceID, code, alias string) error
	deleteSaveFn func(ctx context.Context, entryID, instanceID, saveID string) error
}

func (f *fakeSyncAPI) SaveList(ctx context.Context, entryID, instanceID string) ([]string, error) {
	if f.saveListFn == nil {
		return nil, nil
	}
	return f.saveListFn(ctx, entryID, instanceID)
}

func (f *fakeSyncAPI) FetchSave(ctx context.Context, entryID, instanceID, saveID string) (string, error) {
	if f.fetchSaveFn == nil {
		return "", nil
	}
	return f.fetchSaveFn(ctx, entryID, instanceID, saveID)
}

func (f *fakeSyncAPI) UploadSave(ctx context.Context, entryID, instanceID, code, alias string) error {
	if f.uploadSaveFn == nil {
		return nil
	}
	return f.uploadSaveFn(ctx, entryID, instanceID, code, alias)
}

func (f *fakeSyncAPI) DeleteSave(ctx context.Context, entryID, instanceID, saveID string) error {
	if f.deleteSaveFn == nil {
		return nil
	}
	return f.deleteSaveFn(ctx, entryID, instanceID, saveID)
}

func newTestManager(t *testing.T, api *fakeSyncAPI) (*Manager, *datadir.Layout) {
	t.Helper()
	layout := datadir.New(t.TempDir(), t.TempDir())
	return NewManager(api, layout), layout
}

func TestManager_Remote(t *testing.T) {
	t.Run("returns remote save ids", func(t *testing.T) {
		api := &fakeSyncAPI{
			saveListFn: func(_ context.Context, entryID, instanceID string) ([]string, error) {
				assert.Equal(t, "g2", entryID)
				assert.Equal(t, "i1", instanceID)
				return []string{"alice@2025-11-02+10-30-00"}, nil
			},
		}
		mgr, _ := newTestManager(t, api)

		ids, err := mgr.Remote(context.Background(), "g2", "i1")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice@2025-11-02+10-30-00"}, ids)
	})

	t.Run("wraps server failures", func(t *testing.T) {
		api := &fakeSyncAPI{
			saveListFn: func(context.Context, string, string) ([]string, error) {
				return nil, errors.New("boom")
			},
		}
		mgr, _ := newTestManager(t, api)

		_, err := mgr.Remote(context.Background(), "g2", "i1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list remote saves")
	})
}

func TestManager_Pull(t *testing.T) {
	t.Run("writes the save under the data directory", func(t *testing.T) {
		api := &fakeSyncAPI{
			fetchSaveFn: func(_ context.Context, _, _, saveID string) (string, error) {
				assert.Equal(t, "alice@2025-11-02+10-30-00", saveID)
				return "save-code-blob", nil
			},
		}
		mgr, layout := newTestManager(t, api)

		path, err := mgr.Pull(context.Background(), "g2", "i1", "alice@2025-11-02+10-30-00")
		require.NoError(t, err)
		assert.Equal(t, layout.SavePath("g2", "i1", "alice@2025-11-02+10-30-00"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "save-code-blob", string(data))
	})

	t.Run("writes nothing when the fetch fails", func(t *testing.T) {
		api := &fakeSyncAPI{
			fetchSaveFn: func(context.Context, string, string, string) (string, error) {
				return "", errors.New("boom")
			},
		}
		mgr, layout := newTestManager(t, api)

		_, err := mgr.Pull(context.Background(), "g2", "i1", "s1")
		require.Error(t, err)

		saves, err := layout.ListSaves("g2", "i1")
		require.NoError(t, err)
		assert.Empty(t, saves)
	})
}

func TestManager_PullAll(t *testing.T) {
	t.Run("pulls every remote save", func(t *testing.T) {
		api := &fakeSyncAPI{
			saveListFn: func(context.Context, string, string) ([]string, error) {
				return []string{"s1", "s2"}, nil
			},
			fetchSaveFn: func(_ context.Context, _, _, saveID string) (string, error) {
				return "content of " + saveID, nil
			},
		}
		mgr, layout := newTestManager(t, api)

		paths, err := mgr.PullAll(context.Background(), "g2", "i1")
		require.NoError(t, err)
		require.Len(t, paths, 2)

		local, err := layout.ListSaves("g2", "i1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"s1", "s2"}, local)
	})

	t.Run("returns no paths when the server has none", func(t *testing.T) {
		mgr, _ := newTestManager(t, &fakeSyncAPI{})

		paths, err := mgr.PullAll(context.Background(), "g2", "i1")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})
}

func TestManager_Push(t *testing.T) {
	t.Run("uploads under the given alias", func(t *testing.T) {
		var gotCode, gotAlias string
		api := &fakeSyncAPI{
			uploadSaveFn: func(_ context.Context, _, _, code, alias string) error {
				gotCode = code
				gotAlias = alias
				return nil
			},
		}
		mgr, _ := newTestManager(t, api)

		alias, err := mgr.Push(context.Background(), "g2", "i1", "save-code-blob", "mine")
		require.NoError(t, err)
		assert.Equal(t, "mine", alias)
		assert.Equal(t, "save-code-blob", gotCode)
		assert.Equal(t, "mine", gotAlias)
	})

	t.Run("generates a free alias when none is given", func(t *testing.T) {
		var gotAlias string
		api := &fakeSyncAPI{
			saveListFn: func(context.Context, string, string) ([]string, error) {
				return []string{"alice@2025-11-02+10-30-00"}, nil
			},
			uploadSaveFn: func(_ context.Context, _, _, _, alias string) error {
				gotAlias = alias
				return nil
			},
		}
		mgr, _ := newTestManager(t, api)

		alias, err := mgr.Push(context.Background(), "g2", "i1", "save-code-blob", "")
		require.NoError(t, err)
		assert.Equal(t, gotAlias, alias)
		assert.Contains(t, alias, "_")
		assert.False(t, aliasTaken([]string{"alice@2025-11-02+10-30-00"}, alias))
	})

	t.Run("wraps upload failures", func(t *testing.T) {
		api := &fakeSyncAPI{
			uploadSaveFn: func(context.Context, string, string, string, string) error {
				return errors.New("boom")
			},
		}
		mgr, _ := newTestManager(t, api)

		_, err := mgr.Push(context.Background(), "g2", "i1", "code", "mine")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upload save")
	})
}

func TestManager_Delete(t *testing.T) {
	t.Run("removes the remote save and the pulled copy", func(t *testing.T) {
		var deleted string
		api := &fakeSyncAPI{
			fetchSaveFn: func(context.Context, string, string, string) (string, error) {
				return "content", nil
			},
			deleteSaveFn: func(_ context.Context, _, _, saveID string) error {
				deleted = saveID
				return nil
			},
		}
		mgr, _ := newTestManager(t, api)

		path, err := mgr.Pull(context.Background(), "g2", "i1", "s1")
		require.NoError(t, err)

		require.NoError(t, mgr.Delete(context.Background(), "g2", "i1", "s1"))
		assert.Equal(t, "s1", deleted)

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("keeps the pulled copy when the server refuses", func(t *testing.T) {
		api := &fakeSyncAPI{
			fetchSaveFn: func(context.Context, string, string, string) (string, error) {
				return "content", nil
			},
			deleteSaveFn: func(context.Context, string, string, string) error {
				return errors.New("boom")
			},
		}
		mgr, _ := newTestManager(t, api)

		path, err := mgr.Pull(context.Background(), "g2", "i1", "s1")
		require.NoError(t, err)

		require.Error(t, mgr.Delete(context.Background(), "g2", "i1", "s1"))
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})
}

func TestAliasTaken(t *testing.T) {
	ids := []string{"alice@2025-11-02+10-30-00", "plain"}

	assert.True(t, aliasTaken(ids, "alice"))
	assert.True(t, aliasTaken(ids, "plain"))
	assert.False(t, aliasTaken(ids, "ali"))
	assert.False(t, aliasTaken(ids, "bob"))
	assert.False(t, aliasTaken(nil, "anything"))
}
