package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazydbm/internal/navtree"
	"github.com/rebeliceyang/lazydbm/internal/ui/scroll"
	"github.com/rebeliceyang/lazydbm/internal/ui/theme"
)

// TreePane wraps the navigation tree with scrolling, a filter input,
// and key handling. Enter on a table leaf emits TableChosenMsg; Esc
// emits LeaveDashboardMsg.
type TreePane struct {
	tree   navtree.Tree
	offset int

	filter    textinput.Model
	filtering bool

	title   string
	loading bool
	notice  string
	theme   theme.Theme
}

// NewTreePane builds an empty pane; the structure arrives later via
// SetTree.
func NewTreePane(th theme.Theme) *TreePane {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 128
	ti.Width = 24

	return &TreePane{
		filter: ti,
		theme:  th,
	}
}

// SetTitle labels the pane, normally with the connection name.
func (t *TreePane) SetTitle(title string) { t.title = title }

// SetLoading marks the pane as waiting for a structure load. The
// previous tree stays visible until the load lands.
func (t *TreePane) SetLoading() {
	t.loading = true
	t.notice = ""
}

// SetTree replaces the structure. Filter and selection reset.
func (t *TreePane) SetTree(dbs []navtree.Database) {
	t.loading = false
	t.notice = ""
	t.offset = 0
	t.filtering = false
	t.filter.SetValue("")
	t.filter.Blur()
	t.tree.Load(dbs)
}

// SetError surfaces a failed load without discarding existing data.
func (t *TreePane) SetError(err error) {
	t.loading = false
	t.notice = err.Error()
}

// Update handles non-key messages; nothing here is consumed.
func (t *TreePane) Update(msg tea.Msg) Update {
	return Emit(msg)
}

// HandleKey processes one key press.
func (t *TreePane) HandleKey(msg tea.KeyMsg) Update {
	if t.filtering {
		switch msg.String() {
		case "enter":
			t.filtering = false
			t.filter.Blur()
			return None()
		case "esc":
			t.filtering = false
			t.filter.Blur()
			t.filter.SetValue("")
			t.tree.SetQuery("")
			return None()
		default:
			var cmd tea.Cmd
			t.filter, cmd = t.filter.Update(msg)
			t.tree.SetQuery(t.filter.Value())
			return Do(cmd)
		}
	}

	switch msg.String() {
	case "j", "down":
		t.tree.MoveNext()
	case "k", "up":
		t.tree.MovePrev()
	case "g":
		t.tree.MoveFirst()
	case "G":
		t.tree.MoveLast()
	case "l", "right":
		t.tree.ExpandSelected()
	case "h", "left":
		t.tree.CollapseSelected()
	case "/":
		t.filtering = true
		return Do(t.filter.Focus())
	case "enter":
		node, ok := t.tree.Selected()
		if !ok {
			return None()
		}
		if node.Kind == navtree.NodeTable {
			return Emit(TableChosenMsg{
				Database: node.Database,
				Schema:   node.Schema,
				Table:    node.Name,
			})
		}
		t.tree.ToggleSelected()
	case "esc":
		if t.filter.Value() != "" {
			t.filter.SetValue("")
			t.tree.SetQuery("")
			return None()
		}
		return Emit(LeaveDashboardMsg{})
	default:
		return Emit(msg)
	}
	return None()
}

// View renders the pane.
func (t *TreePane) View(width, height int, focused bool) string {
	panel := Panel{
		Title:   t.title,
		Width:   width,
		Height:  height,
		Focused: focused,
		Theme:   t.theme,
	}

	var lines []string
	if t.filtering || t.filter.Value() != "" {
		lines = append(lines, t.filter.View())
	}
	if t.notice != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.theme.Error).Render(pad(t.notice, width-4)))
	}
	if t.loading {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.theme.Muted).Render("loading..."))
	}

	nodes := t.tree.VisibleNodes()
	if len(nodes) == 0 && !t.loading {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.theme.Muted).Render("(no tables)"))
	}

	viewport := panel.InnerHeight() - len(lines)
	t.offset = scroll.Follow(t.offset, t.tree.SelectedIndex(), len(nodes), viewport)
	start, end := scroll.Window(t.offset, len(nodes), viewport)
	selected := t.tree.SelectedIndex()
	selStyle := lipgloss.NewStyle().Background(t.theme.Selection).Bold(true)
	for i := start; i < end; i++ {
		line := nodeLine(nodes[i])
		if i == selected {
			line = selStyle.Render(line)
		}
		lines = append(lines, line)
	}

	panel.Content = joinLines(lines)
	return panel.View()
}

func nodeLine(n navtree.Node) string {
	indent := ""
	for i := 0; i < n.Depth; i++ {
		indent += "  "
	}
	icon := "•"
	if n.Kind != navtree.NodeTable {
		if n.Expanded {
			icon = "▾"
		} else {
			icon = "▸"
		}
	}
	return fmt.Sprintf("%s%s %s", indent, icon, n.Name)
}
