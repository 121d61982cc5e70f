package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazydbm/internal/db"
	"github.com/rebeliceyang/lazydbm/internal/logging"
	"github.com/rebeliceyang/lazydbm/internal/models"
	"github.com/rebeliceyang/lazydbm/internal/ui/theme"
)

// Route names the top-level screen.
type Route int

const (
	AtConnectionPicker Route = iota
	AtDashboard
)

const connectTimeout = 30 * time.Second

// Root is the top of the composition tree. It decides which screen is
// live and gives meaning to the screen-switching messages.
type Root struct {
	route     Route
	picker    *ConnectionPicker
	dashboard *Dashboard
	log       *logging.Logger
}

// NewRoot builds the composition tree.
func NewRoot(conns []models.Connection, th theme.Theme, treeWidthPercent int, log *logging.Logger) *Root {
	return &Root{
		picker:    NewConnectionPicker(conns, th),
		dashboard: NewDashboard(th, treeWidthPercent, log),
		log:       log,
	}
}

// Route returns the live screen, mostly for tests.
func (r *Root) Route() Route { return r.route }

// Close releases any open connection.
func (r *Root) Close() { r.dashboard.CloseClient() }

// Update routes a non-key message to the live screen and resolves what
// bubbles back. A message nobody gave a meaning to is dropped here.
func (r *Root) Update(msg tea.Msg) Update {
	var u Update
	if r.route == AtConnectionPicker {
		u = r.picker.Update(msg)
	} else {
		u = r.dashboard.Update(msg)
	}
	return r.intercept(u)
}

// HandleKey routes a key press to the live screen.
func (r *Root) HandleKey(msg tea.KeyMsg) Update {
	var u Update
	if r.route == AtConnectionPicker {
		u = r.picker.HandleKey(msg)
	} else {
		u = r.dashboard.HandleKey(msg)
	}
	return r.intercept(u)
}

// intercept consumes the messages Root gives meaning to. Commands that
// bubbled up alongside a consumed message keep running.
func (r *Root) intercept(u Update) Update {
	switch msg := u.Msg.(type) {
	case ConnectionSelectedMsg:
		r.log.Infof("connection selected: %s", displayName(msg.Conn))
		r.route = AtDashboard
		r.dashboard.SetConnection(msg.Conn)
		return Do(tea.Batch(r.connect(msg.Conn), u.Cmd))

	case LeaveDashboardMsg:
		r.log.Infof("leaving dashboard")
		r.dashboard.CloseClient()
		r.route = AtConnectionPicker
		return Do(u.Cmd)

	case TreeLoadedMsg:
		// A load that finished after the dashboard was left. The result
		// is stale but the connection inside it must not leak.
		if msg.Client != nil {
			msg.Client.Close()
		}
		if msg.Err != nil {
			r.log.Warnf("discarded failed load: %v", msg.Err)
		}
		return Do(u.Cmd)
	}
	// Top of the tree: what is still bubbling has no meaning anywhere.
	return Do(u.Cmd)
}

// connect dials in the background and carries the open client back
// inside TreeLoadedMsg.
func (r *Root) connect(conn models.Connection) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		client, err := db.Connect(ctx, conn)
		if err != nil {
			return TreeLoadedMsg{Err: err}
		}
		dbs, err := client.ListStructure(ctx)
		if err != nil {
			client.Close()
			return TreeLoadedMsg{Err: err}
		}
		return TreeLoadedMsg{Client: client, Databases: dbs}
	}
}

// View renders the live screen.
func (r *Root) View(width, height int) string {
	if r.route == AtConnectionPicker {
		return r.picker.View(width, height, true)
	}
	return r.dashboard.View(width, height, true)
}
