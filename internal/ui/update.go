// Package ui contains the view composition tree: the connection
// picker, the dashboard with its tree and detail panes, and the small
// protocol they use to talk to each other. Each component consumes a
// message and returns an Update: a message bubbled to its parent plus
// an optional command for asynchronous work. Parents intercept the
// child messages they understand and bubble the rest, so a message
// climbs until some ancestor gives it a meaning.
package ui

import tea "github.com/charmbracelet/bubbletea"

// Update is the outcome of handling one message: Msg bubbles to the
// parent (nil when consumed), Cmd requests an effect from the runtime.
type Update struct {
	Msg tea.Msg
	Cmd tea.Cmd
}

// None reports a fully consumed message with no effects.
func None() Update { return Update{} }

// Emit bubbles a message to the parent.
func Emit(msg tea.Msg) Update { return Update{Msg: msg} }

// Do requests a command without bubbling anything.
func Do(cmd tea.Cmd) Update { return Update{Cmd: cmd} }
