package ui

import (
	"github.com/rebeliceyang/lazydbm/internal/db"
	"github.com/rebeliceyang/lazydbm/internal/models"
	"github.com/rebeliceyang/lazydbm/internal/navtree"
)

// ConnectionSelectedMsg is emitted by the picker when the user picks a
// connection. Root switches to the dashboard and starts a load worker.
type ConnectionSelectedMsg struct {
	Conn models.Connection
}

// LeaveDashboardMsg returns to the connection picker.
type LeaveDashboardMsg struct{}

// BackToTreeMsg moves dashboard focus from the detail pane back to the
// tree pane.
type BackToTreeMsg struct{}

// TableChosenMsg is emitted by the tree pane when Enter lands on a
// table leaf. Schema is empty for tables directly under a database.
type TableChosenMsg struct {
	Database string
	Schema   string
	Table    string
}

// TreeLoadedMsg is sent when the structure load worker finishes. On
// success Client is the open connection the dashboard takes ownership
// of; on failure Client is nil and Err is set.
type TreeLoadedMsg struct {
	Client    db.Client
	Databases []navtree.Database
	Err       error
}

// RecordsLoadedMsg is sent when a record page load finishes. Gen ties
// the result to the request that spawned it so a slow worker cannot
// overwrite a newer table's data.
type RecordsLoadedMsg struct {
	Gen     uint64
	Records models.Records
	Err     error
}

// PropertiesLoadedMsg is sent when a table description load finishes.
type PropertiesLoadedMsg struct {
	Gen   uint64
	Props models.TableProperties
	Err   error
}

// FocusPropertiesMsg is emitted by the detail pane when the properties
// tab is selected and needs a load.
type FocusPropertiesMsg struct{}

// LaunchSQLCliMsg asks for the terminal to be handed to the backend's
// interactive CLI.
type LaunchSQLCliMsg struct{}

// SQLCliFinishedMsg is sent when the external CLI exits and the
// application resumes drawing.
type SQLCliFinishedMsg struct {
	Err error
}
