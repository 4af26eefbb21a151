// Package browse provides the interactive catalog browser. It lists the
// entries of a uni server, lets the user pick an instance where one is
// required, and opens the selection in the browser.
package browse

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RhyVis/uni-remote/internal/catalog"
)

// catalogStore is the internal interface for catalog access.
type catalogStore interface {
	Refresh(ctx context.Context)
	Entries() []catalog.Entry
}

// entryLauncher is the internal interface for opening a selection.
type entryLauncher interface {
	Launch(ctx context.Context, entry catalog.Entry, instanceID string) (string, error)
}

// App ties together the catalog list and the instance picker.
type App struct {
	ctx      context.Context
	store    catalogStore
	launcher entryLauncher

	state       appState
	entries     []catalog.Entry
	entryCursor int
	selected    catalog.Entry
	instCursor  int
	status      string
}

type appState string

const (
	viewEntries   appState = "entries"
	viewInstances appState = "instances"
)

// New creates the browser app over a store and launcher.
func New(ctx context.Context, store catalogStore, launcher entryLauncher) *App {
	return &App{
		ctx:      ctx,
		store:    store,
		launcher: launcher,
		state:    viewEntries,
	}
}

// Init implements tea.Model. The catalog is refreshed once on mount.
func (a *App) Init() tea.Cmd {
	a.status = "refreshing..."
	return a.refreshCmd()
}

func (a *App) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		a.store.Refresh(a.ctx)
		return entriesMsg(a.store.Entries())
	}
}

func (a *App) launchCmd(entry catalog.Entry, instanceID string) tea.Cmd {
	return func() tea.Msg {
		dest, err := a.launcher.Launch(a.ctx, entry, instanceID)
		if err != nil {
			return errMsg{err}
		}
		return launchedMsg(dest)
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.state == viewInstances {
			return a.handleInstanceKey(m)
		}
		return a.handleEntryKey(m)

	case entriesMsg:
		a.entries = []catalog.Entry(m)
		if a.entryCursor >= len(a.entries) {
			a.entryCursor = 0
		}
		a.status = fmt.Sprintf("%d entries", len(a.entries))

	case launchedMsg:
		a.status = "opened " + string(m)

	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleEntryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.entryCursor > 0 {
			a.entryCursor--
		}
	case "down", "j":
		if a.entryCursor < len(a.entries)-1 {
			a.entryCursor++
		}
	case "r":
		a.status = "refreshing..."
		return a, a.refreshCmd()
	case "enter":
		if len(a.entries) == 0 {
			return a, nil
		}
		entry := a.entries[a.entryCursor]
		switch manage := entry.Manage.(type) {
		case catalog.Plain:
			a.status = "launching " + entry.DisplayName()
			return a, a.launchCmd(entry, "")
		case catalog.SugarCube:
			if len(manage.Instances) == 0 {
				a.status = "no instances to launch"
				return a, nil
			}
			a.selected = entry
			a.instCursor = 0
			a.state = viewInstances
		}
	}
	return a, nil
}

func (a *App) handleInstanceKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	instances := a.selectedInstances()
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.state = viewEntries
		a.status = ""
	case "up", "k":
		if a.instCursor > 0 {
			a.instCursor--
		}
	case "down", "j":
		if a.instCursor < len(instances)-1 {
			a.instCursor++
		}
	case "enter":
		if len(instances) == 0 {
			return a, nil
		}
		inst := instances[a.instCursor]
		a.state = viewEntries
		a.status = "launching " + inst.DisplayName()
		return a, a.launchCmd(a.selected, inst.ID)
	}
	return a, nil
}

func (a *App) selectedInstances() []catalog.Instance {
	if manage, ok := a.selected.Manage.(catalog.SugarCube); ok {
		return manage.Instances
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if a.state == viewInstances {
		return a.renderInstances()
	}
	return a.renderEntries()
}

// messages
type entriesMsg []catalog.Entry

type launchedMsg string

type errMsg struct{ error }

// styles
var titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)

func (a *App) renderEntries() string {
	title := titleStyle.Render("uni-remote catalog")
	out := title + "\n"
	if len(a.entries) == 0 {
		out += "(no entries)\n"
	}
	for i, e := range a.entries {
		marker := " "
		if i == a.entryCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-16s  %-28s  %-12s  %s\n",
			marker, e.ID, e.DisplayName(), e.Label(), instanceSummary(e))
	}
	out += "[enter] Launch  [r] Refresh  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderInstances() string {
	title := titleStyle.Render("Instances: " + a.selected.DisplayName())
	out := title + "\n"
	instances := a.selectedInstances()
	if len(instances) == 0 {
		out += "(no instances)\n"
	}
	for i, inst := range instances {
		marker := " "
		if i == a.instCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-16s  %-28s  index %s\n",
			marker, inst.ID, inst.DisplayName(), inst.Index)
	}
	out += "[enter] Launch  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

// instanceSummary renders the INSTANCES column of the entry list.
func instanceSummary(e catalog.Entry) string {
	manage, ok := e.Manage.(catalog.SugarCube)
	if !ok {
		return "-"
	}
	if len(manage.Instances) == 1 {
		return "1 instance"
	}
	return fmt.Sprintf("%d instances", len(manage.Instances))
}
