package browse

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RhyVis/uni-remote/internal/catalog"
)

type fakeStore struct {
	entries   []catalog.Entry
	refreshed int
}

func (f *fakeStore) Refresh(context.Context) { f.refreshed++ }

func (f *fakeStore) Entries() []catalog.Entry { return f.entries }

type fakeLauncher struct {
	dest string
	err  error

	launchedEntry    string
	launchedInstance string
}

func (f *fakeLauncher) Launch(_ context.Context, entry catalog.Entry, instanceID string) (string, error) {
	f.launchedEntry = entry.ID
	f.launchedInstance = instanceID
	if f.err != nil {
		return "", f.err
	}
	return f.dest, nil
}

func testEntries() []catalog.Entry {
	return []catalog.Entry{
		{ID: "g1", Manage: catalog.Plain{LaunchToken: "main.html"}},
		{ID: "g2", Name: "Layered Story", Manage: catalog.SugarCube{Instances: []catalog.Instance{
			{ID: "i1", Name: "base", Index: "index.html"},
			{ID: "i2", Index: "alt.html"},
		}}},
		{ID: "g3", Manage: catalog.SugarCube{Instances: []catalog.Instance{}}},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestApp_RefreshOnMount(t *testing.T) {
	store := &fakeStore{entries: testEntries()}
	app := New(context.Background(), store, &fakeLauncher{})

	cmd := app.Init()
	require.NotNil(t, cmd)
	assert.Equal(t, "refreshing...", app.status)

	msg := cmd()
	assert.Equal(t, 1, store.refreshed)

	_, _ = app.Update(msg)
	assert.Len(t, app.entries, 3)
	assert.Equal(t, "3 entries", app.status)
}

func TestApp_Navigation(t *testing.T) {
	app := New(context.Background(), &fakeStore{}, &fakeLauncher{})
	_, _ = app.Update(entriesMsg(testEntries()))

	t.Run("cursor stays inside the list", func(t *testing.T) {
		_, _ = app.Update(key("up"))
		assert.Equal(t, 0, app.entryCursor)

		_, _ = app.Update(key("j"))
		_, _ = app.Update(key("down"))
		assert.Equal(t, 2, app.entryCursor)

		_, _ = app.Update(key("j"))
		assert.Equal(t, 2, app.entryCursor)

		_, _ = app.Update(key("k"))
		assert.Equal(t, 1, app.entryCursor)
	})

	t.Run("cursor resets when a refresh shrinks the list", func(t *testing.T) {
		app.entryCursor = 2
		_, _ = app.Update(entriesMsg(testEntries()[:1]))
		assert.Equal(t, 0, app.entryCursor)
	})
}

func TestApp_LaunchDirectEntry(t *testing.T) {
	launcher := &fakeLauncher{dest: "http://uni.lan:3500/play/g1/main.html/index-path"}
	app := New(context.Background(), &fakeStore{}, launcher)
	_, _ = app.Update(entriesMsg(testEntries()))

	_, cmd := app.Update(key("enter"))
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, "g1", launcher.launchedEntry)
	assert.Equal(t, "", launcher.launchedInstance)

	_, _ = app.Update(msg)
	assert.Equal(t, "opened http://uni.lan:3500/play/g1/main.html/index-path", app.status)
}

func TestApp_LaunchLayeredEntry(t *testing.T) {
	t.Run("enter opens the instance picker", func(t *testing.T) {
		app := New(context.Background(), &fakeStore{}, &fakeLauncher{})
		_, _ = app.Update(entriesMsg(testEntries()))
		app.entryCursor = 1

		_, cmd := app.Update(key("enter"))
		assert.Nil(t, cmd)
		assert.Equal(t, viewInstances, app.state)
		assert.Equal(t, "g2", app.selected.ID)
	})

	t.Run("picking an instance launches it", func(t *testing.T) {
		launcher := &fakeLauncher{dest: "http://uni.lan:3500/play/g2/i2/index-path"}
		app := New(context.Background(), &fakeStore{}, launcher)
		_, _ = app.Update(entriesMsg(testEntries()))
		app.entryCursor = 1
		_, _ = app.Update(key("enter"))

		_, _ = app.Update(key("j"))
		_, cmd := app.Update(key("enter"))
		require.NotNil(t, cmd)
		assert.Equal(t, viewEntries, app.state)

		_ = cmd()
		assert.Equal(t, "g2", launcher.launchedEntry)
		assert.Equal(t, "i2", launcher.launchedInstance)
	})

	t.Run("esc returns to the entry list", func(t *testing.T) {
		app := New(context.Background(), &fakeStore{}, &fakeLauncher{})
		_, _ = app.Update(entriesMsg(testEntries()))
		app.entryCursor = 1
		_, _ = app.Update(key("enter"))

		_, _ = app.Update(key("esc"))
		assert.Equal(t, viewEntries, app.state)
	})

	t.Run("an entry without instances cannot be entered", func(t *testing.T) {
		app := New(context.Background(), &fakeStore{}, &fakeLauncher{})
		_, _ = app.Update(entriesMsg(testEntries()))
		app.entryCursor = 2

		_, cmd := app.Update(key("enter"))
		assert.Nil(t, cmd)
		assert.Equal(t, viewEntries, app.state)
		assert.Equal(t, "no instances to launch", app.status)
	})
}

func TestApp_LaunchFailure(t *testing.T) {
	launcher := &fakeLauncher{err: errors.New("no browser")}
	app := New(context.Background(), &fakeStore{}, launcher)
	_, _ = app.Update(entriesMsg(testEntries()))

	_, cmd := app.Update(key("enter"))
	require.NotNil(t, cmd)

	_, _ = app.Update(cmd())
	assert.Contains(t, app.status, "error: ")
	assert.Contains(t, app.status, "no browser")
}

func TestApp_ManualRefresh(t *testing.T) {
	store := &fakeStore{entries: testEntries()}
	app := New(context.Background(), store, &fakeLauncher{})
	_, _ = app.Update(entriesMsg(testEntries()))

	_, cmd := app.Update(key("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, "refreshing...", app.status)

	_, _ = app.Update(cmd())
	assert.Equal(t, 1, store.refreshed)
	assert.Equal(t, "3 entries", app.status)
}

func TestApp_Quit(t *testing.T) {
	app := New(context.Background(), &fakeStore{}, &fakeLauncher{})

	_, cmd := app.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_View(t *testing.T) {
	t.Run("lists entries with display labels", func(t *testing.T) {
		app := New(context.Background(), &fakeStore{}, &fakeLauncher{})
		_, _ = app.Update(entriesMsg(testEntries()))

		view := app.View()
		assert.Contains(t, view, "g1")
		assert.Contains(t, view, "Plain HTML")
		assert.Contains(t, view, "Layered Story")
		assert.Contains(t, view, "SugarCube ML")
		assert.Contains(t, view, "2 instances")
		assert.Contains(t, view, "0 instances")
		assert.Contains(t, view, "[enter] Launch")
	})

	t.Run("marks the cursor row", func(t *testing.T) {
		app := New(context.Background(), &fakeStore{}, &fakeLauncher{})
		_, _ = app.Update(entriesMsg(testEntries()))
		app.entryCursor = 1

		view := app.View()
		assert.Contains(t, view, "▶ g2")
	})

	t.Run("renders the instance picker", func(t *testing.T) {
		app := New(context.Background(), &fakeStore{}, &fakeLauncher{})
		_, _ = app.Update(entriesMsg(testEntries()))
		app.entryCursor = 1
		_, _ = app.Update(key("enter"))

		view := app.View()
		assert.Contains(t, view, "Instances: Layered Story")
		assert.Contains(t, view, "▶ i1")
		assert.Contains(t, view, "index index.html")
		assert.Contains(t, view, "[esc] Back")
	})

	t.Run("shows the empty catalog", func(t *testing.T) {
		app := New(context.Background(), &fakeStore{}, &fakeLauncher{})
		view := app.View()
		assert.Contains(t, view, "(no entries)")
	})
}
