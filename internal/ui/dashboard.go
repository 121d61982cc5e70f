package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazydbm/internal/db"
	"github.com/rebeliceyang/lazydbm/internal/logging"
	"github.com/rebeliceyang/lazydbm/internal/models"
	"github.com/rebeliceyang/lazydbm/internal/ui/theme"
)

// Focus names the dashboard pane receiving key input.
type Focus int

const (
	FocusTree Focus = iota
	FocusDetail
)

const queryTimeout = 30 * time.Second

// Dashboard is the connected view: the navigation tree on the left and
// the table detail on the right. It owns the open client and the
// generation counters that tie load results to the request that
// spawned them.
type Dashboard struct {
	focus  Focus
	tree   *TreePane
	detail *DetailPane

	conn   models.Connection
	client db.Client

	recGen  uint64
	propGen uint64

	treeWidthPercent int
	log              *logging.Logger
}

// NewDashboard builds an empty dashboard.
func NewDashboard(th theme.Theme, treeWidthPercent int, log *logging.Logger) *Dashboard {
	return &Dashboard{
		tree:             NewTreePane(th),
		detail:           NewDetailPane(th),
		treeWidthPercent: treeWidthPercent,
		log:              log,
	}
}

// SetConnection prepares the dashboard for a fresh connection while
// the structure load runs in the background.
func (d *Dashboard) SetConnection(conn models.Connection) {
	d.CloseClient()
	d.conn = conn
	d.focus = FocusTree
	d.tree.SetTitle(displayName(conn))
	d.tree.SetTree(nil)
	d.tree.SetLoading()
	d.detail = NewDetailPane(d.detail.theme)
}

// CloseClient releases the open connection, if any.
func (d *Dashboard) CloseClient() {
	if d.client != nil {
		d.client.Close()
		d.client = nil
	}
}

// Update routes messages: results of background loads land here, and
// child intents (table chosen, back, properties, CLI launch) are
// intercepted and turned into focus changes and commands. Everything
// else is forwarded to the focused pane.
func (d *Dashboard) Update(msg tea.Msg) Update {
	switch msg := msg.(type) {
	case TreeLoadedMsg:
		if msg.Err != nil {
			d.log.Errorf("structure load failed: %v", msg.Err)
			d.tree.SetError(msg.Err)
			return None()
		}
		d.CloseClient()
		d.client = msg.Client
		d.tree.SetTree(msg.Databases)
		d.log.Infof("structure loaded: %d databases", len(msg.Databases))
		return None()

	case RecordsLoadedMsg:
		if msg.Gen != d.recGen {
			d.log.Debugf("dropping stale records result (gen %d, want %d)", msg.Gen, d.recGen)
			return None()
		}
		if msg.Err != nil {
			d.log.Errorf("records load failed: %v", msg.Err)
			d.detail.SetRecordsError(msg.Err)
			return None()
		}
		d.detail.SetRecords(msg.Records)
		return None()

	case PropertiesLoadedMsg:
		if msg.Gen != d.propGen {
			d.log.Debugf("dropping stale properties result (gen %d, want %d)", msg.Gen, d.propGen)
			return None()
		}
		if msg.Err != nil {
			d.log.Errorf("properties load failed: %v", msg.Err)
			d.detail.SetPropertiesError(msg.Err)
			return None()
		}
		d.detail.SetProperties(msg.Props)
		return None()

	case SQLCliFinishedMsg:
		if msg.Err != nil {
			d.log.Errorf("external CLI failed: %v", msg.Err)
			d.detail.SetCLINotice(msg.Err)
		}
		return None()
	}

	var u Update
	if d.focus == FocusTree {
		u = d.tree.Update(msg)
	} else {
		u = d.detail.Update(msg)
	}
	return d.intercept(u)
}

// HandleKey routes a key press to the focused pane and resolves what
// bubbles back.
func (d *Dashboard) HandleKey(msg tea.KeyMsg) Update {
	var u Update
	if d.focus == FocusTree {
		u = d.tree.HandleKey(msg)
	} else {
		u = d.detail.HandleKey(msg)
	}
	return d.intercept(u)
}

// intercept gives meaning to child messages the dashboard understands;
// the rest keep bubbling toward Root.
// intercept consumes the messages the dashboard gives meaning to.
// Commands that bubbled up alongside a consumed message keep running.
func (d *Dashboard) intercept(u Update) Update {
	switch msg := u.Msg.(type) {
	case TableChosenMsg:
		d.focus = FocusDetail
		d.detail.SetTable(d.conn.Type, msg.Database, msg.Schema, msg.Table)
		d.recGen++
		return Do(tea.Batch(d.loadRecords(msg.Database, msg.Schema, msg.Table), u.Cmd))

	case BackToTreeMsg:
		d.focus = FocusTree
		return Do(u.Cmd)

	case FocusPropertiesMsg:
		d.propGen++
		return Do(tea.Batch(d.loadProperties(), u.Cmd))

	case LaunchSQLCliMsg:
		cmd, err := db.CLICommand(d.conn)
		if err != nil {
			d.log.Errorf("cannot launch CLI: %v", err)
			d.detail.SetCLINotice(err)
			return Do(u.Cmd)
		}
		d.log.Infof("handing terminal to %s", cmd.Path)
		exec := tea.ExecProcess(cmd, func(err error) tea.Msg {
			return SQLCliFinishedMsg{Err: err}
		})
		return Do(tea.Batch(exec, u.Cmd))
	}
	return u
}

func (d *Dashboard) loadRecords(database, schema, table string) tea.Cmd {
	client, gen := d.client, d.recGen
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		recs, err := client.FetchRecords(ctx, database, schema, table, db.DefaultRecordLimit, 0)
		return RecordsLoadedMsg{Gen: gen, Records: recs, Err: err}
	}
}

func (d *Dashboard) loadProperties() tea.Cmd {
	client, gen := d.client, d.propGen
	database, schema, table := d.detail.database, d.detail.schema, d.detail.table
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		props, err := client.FetchProperties(ctx, database, schema, table)
		return PropertiesLoadedMsg{Gen: gen, Props: props, Err: err}
	}
}

// View renders the two panes side by side.
func (d *Dashboard) View(width, height int, focused bool) string {
	treeWidth := width * d.treeWidthPercent / 100
	if treeWidth < 20 {
		treeWidth = 20
	}
	if treeWidth > width-20 {
		treeWidth = width / 2
	}
	left := d.tree.View(treeWidth, height, focused && d.focus == FocusTree)
	right := d.detail.View(width-treeWidth, height, focused && d.focus == FocusDetail)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
