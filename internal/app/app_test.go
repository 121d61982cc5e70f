package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazydbm/internal/config"
	"github.com/rebeliceyang/lazydbm/internal/models"
)

func newTestApp() *App {
	conns := []models.Connection{
		{Type: models.DatabaseTypeSQLite, Name: "local", Path: "/tmp/a.db"},
	}
	return New(conns, config.Default(), nil)
}

func TestCtrlCQuits(t *testing.T) {
	a := newTestApp()
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestWindowSizeIsConsumed(t *testing.T) {
	a := newTestApp()
	_, cmd := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if cmd != nil {
		t.Error("a resize should not produce commands")
	}
	if a.width != 120 || a.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", a.width, a.height)
	}
}

func TestViewBeforeFirstResize(t *testing.T) {
	a := newTestApp()
	if a.View() == "" {
		t.Error("the view should render a placeholder before the first resize")
	}
}

func TestSelectingConnectionSpawnsWork(t *testing.T) {
	a := newTestApp()
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("selecting a connection should spawn a background load")
	}
}
