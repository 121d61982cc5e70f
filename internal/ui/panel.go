package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazydbm/internal/ui/theme"
)

// Panel is a bordered box with an optional title. The border color
// tracks focus.
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
}

// View renders the panel. Width and Height are the outer dimensions,
// borders included.
func (p *Panel) View() string {
	if p.Width <= 2 || p.Height <= 2 {
		return ""
	}

	border := p.Theme.Border
	if p.Focused {
		border = p.Theme.BorderFocused
	}
	style := lipgloss.NewStyle().
		Width(p.Width - 2).
		Height(p.Height - 2).
		MaxHeight(p.Height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)

	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		content = titleStyle.Render(p.Title) + "\n" + content
	}
	return style.Render(content)
}

// InnerHeight is the number of content lines a panel of the given
// outer height can show, after borders and the title line.
func (p *Panel) InnerHeight() int {
	h := p.Height - 2
	if p.Title != "" {
		h--
	}
	if h < 0 {
		h = 0
	}
	return h
}
