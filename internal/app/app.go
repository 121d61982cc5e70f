// Package app hosts the Bubble Tea model: one update loop that feeds
// every message through the composition tree and resolves bubbled
// messages depth-first before any command runs.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazydbm/internal/config"
	"github.com/rebeliceyang/lazydbm/internal/logging"
	"github.com/rebeliceyang/lazydbm/internal/models"
	"github.com/rebeliceyang/lazydbm/internal/ui"
	"github.com/rebeliceyang/lazydbm/internal/ui/theme"
)

// App is the root tea.Model.
type App struct {
	root   *ui.Root
	log    *logging.Logger
	width  int
	height int
}

// New wires the composition tree from the loaded configuration.
func New(conns []models.Connection, cfg config.Config, log *logging.Logger) *App {
	th := theme.GetTheme("default")
	return &App{
		root: ui.NewRoot(conns, th, cfg.UI.TreeWidthPercent, log),
		log:  log,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Ctrl+C always quits; everything else is
// dispatched into the tree.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.root.Close()
			return a, tea.Quit
		}
		u := a.root.HandleKey(msg)
		return a, a.resolve(u)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil
	}

	u := a.root.Update(msg)
	return a, a.resolve(u)
}

// resolve re-dispatches a bubbled message until the tree consumes it,
// collecting commands along the way. State settles synchronously; the
// commands run afterwards.
func (a *App) resolve(u ui.Update) tea.Cmd {
	if u.Msg == nil {
		return u.Cmd
	}
	next := a.root.Update(u.Msg)
	return tea.Batch(a.resolve(next), u.Cmd)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "loading..."
	}
	return a.root.View(a.width, a.height)
}
