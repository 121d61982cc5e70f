package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/rebeliceyang/lazydbm/internal/db"
	"github.com/rebeliceyang/lazydbm/internal/models"
	"github.com/rebeliceyang/lazydbm/internal/ui/scroll"
	"github.com/rebeliceyang/lazydbm/internal/ui/theme"
)

// ConnectionPicker lists the configured connections with a fuzzy
// filter. Enter emits ConnectionSelectedMsg for the parent.
type ConnectionPicker struct {
	conns    []models.Connection
	filtered []int
	selected int
	offset   int

	filter    textinput.Model
	filtering bool

	notice string
	theme  theme.Theme
}

// NewConnectionPicker builds a picker over the configured connections.
func NewConnectionPicker(conns []models.Connection, th theme.Theme) *ConnectionPicker {
	ti := textinput.New()
	ti.Placeholder = "Filter connections..."
	ti.CharLimit = 128
	ti.Width = 40

	p := &ConnectionPicker{
		conns:  conns,
		filter: ti,
		theme:  th,
	}
	p.applyFilter()
	return p
}

// SetNotice shows a one-line message under the list, typically a
// connection failure carried back from a load worker.
func (p *ConnectionPicker) SetNotice(s string) { p.notice = s }

// Update handles non-key messages. The picker has no async work of its
// own, so everything unrecognized bubbles up.
func (p *ConnectionPicker) Update(msg tea.Msg) Update {
	return Emit(msg)
}

// HandleKey processes one key press.
func (p *ConnectionPicker) HandleKey(msg tea.KeyMsg) Update {
	if p.filtering {
		switch msg.String() {
		case "enter":
			p.filtering = false
			p.filter.Blur()
			return None()
		case "esc":
			p.filtering = false
			p.filter.Blur()
			p.filter.SetValue("")
			p.applyFilter()
			return None()
		default:
			var cmd tea.Cmd
			p.filter, cmd = p.filter.Update(msg)
			p.applyFilter()
			return Do(cmd)
		}
	}

	switch msg.String() {
	case "j", "down":
		p.move(1)
	case "k", "up":
		p.move(-1)
	case "g":
		p.selected = 0
	case "G":
		if len(p.filtered) > 0 {
			p.selected = len(p.filtered) - 1
		}
	case "/":
		p.filtering = true
		p.notice = ""
		return Do(p.filter.Focus())
	case "enter":
		if p.selected < len(p.filtered) {
			p.notice = ""
			return Emit(ConnectionSelectedMsg{Conn: p.conns[p.filtered[p.selected]]})
		}
	default:
		return Emit(msg)
	}
	return None()
}

// View renders the picker panel.
func (p *ConnectionPicker) View(width, height int, focused bool) string {
	panel := Panel{
		Title:   "Connections",
		Width:   width,
		Height:  height,
		Focused: focused,
		Theme:   p.theme,
	}

	var lines []string
	if p.filtering || p.filter.Value() != "" {
		lines = append(lines, p.filter.View())
	}
	if p.notice != "" {
		noticeStyle := lipgloss.NewStyle().Foreground(p.theme.Error)
		lines = append(lines, noticeStyle.Render(p.notice))
	}

	viewport := panel.InnerHeight() - len(lines)
	if len(p.filtered) == 0 {
		lines = append(lines, "(no connections found)")
	} else {
		p.offset = scroll.Follow(p.offset, p.selected, len(p.filtered), viewport)
		start, end := scroll.Window(p.offset, len(p.filtered), viewport)
		selStyle := lipgloss.NewStyle().Foreground(p.theme.Info).Bold(true)
		for i := start; i < end; i++ {
			conn := p.conns[p.filtered[i]]
			line := fmt.Sprintf("%s (%s)", displayName(conn), db.Descriptor(conn))
			if i == p.selected {
				line = selStyle.Render("▶ " + line)
			} else {
				line = "  " + line
			}
			lines = append(lines, line)
		}
	}

	panel.Content = joinLines(lines)
	return panel.View()
}

func (p *ConnectionPicker) move(delta int) {
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if p.selected >= len(p.filtered) {
		p.selected = len(p.filtered) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

// applyFilter recomputes the visible subset, keeping the selection on
// a valid entry.
func (p *ConnectionPicker) applyFilter() {
	query := p.filter.Value()
	p.filtered = p.filtered[:0]
	for i, conn := range p.conns {
		if query == "" ||
			fuzzy.MatchFold(query, displayName(conn)) ||
			fuzzy.MatchFold(query, db.Descriptor(conn)) {
			p.filtered = append(p.filtered, i)
		}
	}
	if p.selected >= len(p.filtered) {
		p.selected = len(p.filtered) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

func displayName(conn models.Connection) string {
	if conn.Name != "" {
		return conn.Name
	}
	return "unknown"
}
