package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazydbm/internal/db"
	"github.com/rebeliceyang/lazydbm/internal/models"
	"github.com/rebeliceyang/lazydbm/internal/ui/scroll"
	"github.com/rebeliceyang/lazydbm/internal/ui/theme"
)

// Tab identifies one of the detail pane's views.
type Tab int

const (
	TabRecords Tab = iota
	TabSQL
	TabProperties
)

// Column cells render at a fixed width so horizontal scrolling moves
// in predictable steps.
const cellWidth = 16

// Step sizes for page and column-jump movement.
const (
	pageStep   = 10
	columnJump = 5
)

// DetailPane shows the chosen table: a paged record grid, a launcher
// for the backend's interactive CLI, and the column properties.
type DetailPane struct {
	tab      Tab
	database string
	schema   string
	table    string
	dbType   models.DatabaseType

	records        models.Records
	recordsLoading bool
	recordsNotice  string
	selRow         int
	rowOffset      int
	colOffset      int

	props         models.TableProperties
	propsLoaded   bool
	propsLoading  bool
	propsNotice   string
	propOffset    int
	propColOffset int

	cliNotice string

	theme theme.Theme
}

// NewDetailPane builds an empty pane.
func NewDetailPane(th theme.Theme) *DetailPane {
	return &DetailPane{theme: th}
}

// SetTable resets the pane for a newly chosen table and marks the
// records view as loading.
func (d *DetailPane) SetTable(dbType models.DatabaseType, database, schema, table string) {
	d.tab = TabRecords
	d.dbType = dbType
	d.database = database
	d.schema = schema
	d.table = table
	d.records = models.Records{}
	d.recordsLoading = true
	d.recordsNotice = ""
	d.selRow = 0
	d.rowOffset = 0
	d.colOffset = 0
	d.props = models.TableProperties{}
	d.propsLoaded = false
	d.propsLoading = false
	d.propsNotice = ""
	d.propOffset = 0
	d.propColOffset = 0
	d.cliNotice = ""
}

// SetRecords lands a finished record load.
func (d *DetailPane) SetRecords(recs models.Records) {
	d.recordsLoading = false
	d.recordsNotice = ""
	d.records = recs
	d.selRow = 0
	d.rowOffset = 0
	d.colOffset = 0
}

// SetRecordsError surfaces a failed record load, keeping whatever data
// is already on screen.
func (d *DetailPane) SetRecordsError(err error) {
	d.recordsLoading = false
	d.recordsNotice = err.Error()
}

// SetProperties lands a finished properties load.
func (d *DetailPane) SetProperties(props models.TableProperties) {
	d.propsLoading = false
	d.propsLoaded = true
	d.propsNotice = ""
	d.props = props
	d.propOffset = 0
	d.propColOffset = 0
}

// SetPropertiesError surfaces a failed properties load.
func (d *DetailPane) SetPropertiesError(err error) {
	d.propsLoading = false
	d.propsNotice = err.Error()
}

// SetCLINotice surfaces a failure to launch the external CLI.
func (d *DetailPane) SetCLINotice(err error) {
	d.cliNotice = err.Error()
}

// Update handles non-key messages; nothing here is consumed.
func (d *DetailPane) Update(msg tea.Msg) Update {
	return Emit(msg)
}

// HandleKey processes one key press.
func (d *DetailPane) HandleKey(msg tea.KeyMsg) Update {
	switch msg.String() {
	case "1":
		d.tab = TabRecords
		return None()
	case "2":
		d.tab = TabSQL
		return None()
	case "3":
		d.tab = TabProperties
		if !d.propsLoaded && !d.propsLoading {
			d.propsLoading = true
			return Emit(FocusPropertiesMsg{})
		}
		return None()
	case "esc":
		return Emit(BackToTreeMsg{})
	}

	switch d.tab {
	case TabRecords:
		return d.handleRecordsKey(msg)
	case TabSQL:
		if msg.String() == "enter" {
			return Emit(LaunchSQLCliMsg{})
		}
	case TabProperties:
		switch msg.String() {
		case "j", "down":
			d.propOffset++
		case "k", "up":
			d.propOffset--
		case "pgdown":
			d.propOffset += pageStep
		case "pgup":
			d.propOffset -= pageStep
		case "g":
			d.propOffset = 0
		case "G":
			d.propOffset = len(d.props.Columns)
		case "h", "left":
			d.propColOffset--
		case "l", "right":
			d.propColOffset++
		case "[":
			d.propColOffset -= columnJump
		case "]":
			d.propColOffset += columnJump
		case "ctrl+a":
			d.propColOffset = 0
		case "ctrl+e":
			d.propColOffset = len(propColumns)
		default:
			return Emit(msg)
		}
		return None()
	}
	return Emit(msg)
}

func (d *DetailPane) handleRecordsKey(msg tea.KeyMsg) Update {
	switch msg.String() {
	case "j", "down":
		if d.selRow < len(d.records.Rows)-1 {
			d.selRow++
		}
	case "k", "up":
		if d.selRow > 0 {
			d.selRow--
		}
	case "pgdown":
		d.selRow += pageStep
		if d.selRow >= len(d.records.Rows) {
			d.selRow = len(d.records.Rows) - 1
		}
		if d.selRow < 0 {
			d.selRow = 0
		}
	case "pgup":
		d.selRow -= pageStep
		if d.selRow < 0 {
			d.selRow = 0
		}
	case "g":
		d.selRow = 0
	case "G":
		if len(d.records.Rows) > 0 {
			d.selRow = len(d.records.Rows) - 1
		}
	case "h", "left":
		d.colOffset--
	case "l", "right":
		d.colOffset++
	case "[":
		d.colOffset -= columnJump
	case "]":
		d.colOffset += columnJump
	case "ctrl+a":
		d.colOffset = 0
	case "ctrl+e":
		d.colOffset = len(d.records.Columns)
	case "y":
		return d.yankRow()
	default:
		return Emit(msg)
	}
	return None()
}

// yankRow copies the selected row to the system clipboard, cells
// joined by tabs.
func (d *DetailPane) yankRow() Update {
	if d.selRow >= len(d.records.Rows) {
		return None()
	}
	row := d.records.Rows[d.selRow]
	if err := clipboard.WriteAll(strings.Join(row, "\t")); err != nil {
		d.recordsNotice = fmt.Sprintf("copy failed: %v", err)
	}
	return None()
}

// View renders the pane.
func (d *DetailPane) View(width, height int, focused bool) string {
	panel := Panel{
		Title:   d.title(),
		Width:   width,
		Height:  height,
		Focused: focused,
		Theme:   d.theme,
	}

	lines := []string{d.tabLine()}
	viewport := panel.InnerHeight() - 1

	switch d.tab {
	case TabRecords:
		lines = append(lines, d.recordLines(width-4, viewport)...)
	case TabSQL:
		lines = append(lines, d.sqlLines()...)
	case TabProperties:
		lines = append(lines, d.propertyLines(width-4, viewport)...)
	}

	panel.Content = joinLines(lines)
	return panel.View()
}

func (d *DetailPane) title() string {
	if d.table == "" {
		return "Detail"
	}
	if d.schema != "" {
		return fmt.Sprintf("%s.%s.%s", d.database, d.schema, d.table)
	}
	return fmt.Sprintf("%s.%s", d.database, d.table)
}

func (d *DetailPane) tabLine() string {
	names := []string{"1 Records", "2 SQL", "3 Properties"}
	active := lipgloss.NewStyle().Foreground(d.theme.Info).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(d.theme.Muted)
	parts := make([]string, len(names))
	for i, name := range names {
		if Tab(i) == d.tab {
			parts[i] = active.Render("[" + name + "]")
		} else {
			parts[i] = inactive.Render(" " + name + " ")
		}
	}
	return strings.Join(parts, " ")
}

// recordLines renders the grid: header, separator, a row window, and a
// status line. Both offsets are clamped here, never in the key
// handlers, so scrolling past the end is always safe.
func (d *DetailPane) recordLines(width, viewport int) []string {
	var lines []string
	if d.recordsNotice != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(d.theme.Error).Render(pad(d.recordsNotice, width)))
	}
	if d.recordsLoading {
		return append(lines, lipgloss.NewStyle().Foreground(d.theme.Muted).Render("loading..."))
	}
	if len(d.records.Columns) == 0 {
		return append(lines, lipgloss.NewStyle().Foreground(d.theme.Muted).Render("(no data)"))
	}

	visibleCols := width / (cellWidth + 3)
	if visibleCols < 1 {
		visibleCols = 1
	}
	colStart, colEnd := scroll.Window(d.colOffset, len(d.records.Columns), visibleCols)
	d.colOffset = colStart

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(d.theme.TableHeader)
	var cells []string
	for _, col := range d.records.Columns[colStart:colEnd] {
		cells = append(cells, pad(col, cellWidth))
	}
	lines = append(lines, headerStyle.Render(strings.Join(cells, " │ ")))
	lines = append(lines, strings.Repeat("─", min(width, (cellWidth+3)*(colEnd-colStart))))

	rowViewport := viewport - len(lines) - 1
	if d.selRow >= len(d.records.Rows) && len(d.records.Rows) > 0 {
		d.selRow = len(d.records.Rows) - 1
	}
	d.rowOffset = scroll.Follow(d.rowOffset, d.selRow, len(d.records.Rows), rowViewport)
	rowStart, rowEnd := scroll.Window(d.rowOffset, len(d.records.Rows), rowViewport)

	selStyle := lipgloss.NewStyle().Background(d.theme.TableRowSelected).Bold(true)
	for i := rowStart; i < rowEnd; i++ {
		row := d.records.Rows[i]
		cells = cells[:0]
		for c := colStart; c < colEnd; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			cells = append(cells, pad(cell, cellWidth))
		}
		line := strings.Join(cells, " │ ")
		if i == d.selRow {
			line = selStyle.Render(line)
		}
		lines = append(lines, line)
	}

	status := fmt.Sprintf("rows %d-%d of %d", rowStart+1, rowEnd, len(d.records.Rows))
	if len(d.records.Rows) == 0 {
		status = "no rows"
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(d.theme.Muted).Render(status))
	return lines
}

func (d *DetailPane) sqlLines() []string {
	tool := db.CLIToolName(d.dbType)
	muted := lipgloss.NewStyle().Foreground(d.theme.Muted)

	var lines []string
	if d.cliNotice != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(d.theme.Error).Render(d.cliNotice))
	}
	if db.CLIToolAvailable(d.dbType) {
		lines = append(lines,
			fmt.Sprintf("Press Enter to open %s for this connection.", tool),
			"",
			muted.Render("The terminal is handed over until the tool exits."))
	} else {
		lines = append(lines,
			lipgloss.NewStyle().Foreground(d.theme.Warning).Render(tool+" is not installed"),
			"",
			muted.Render("Install it to run ad-hoc SQL against this connection."))
	}
	return lines
}

// propColumns fixes the properties grid layout. The column window
// scrolls over it the same way the record grid scrolls over data
// columns.
var propColumns = []struct {
	title string
	width int
}{
	{"name", cellWidth},
	{"type", cellWidth},
	{"nullable", 8},
	{"default", cellWidth},
	{"pk", 2},
}

func (d *DetailPane) propertyLines(width, viewport int) []string {
	var lines []string
	if d.propsNotice != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(d.theme.Error).Render(pad(d.propsNotice, width)))
	}
	if d.propsLoading {
		return append(lines, lipgloss.NewStyle().Foreground(d.theme.Muted).Render("loading..."))
	}
	if len(d.props.Columns) == 0 {
		return append(lines, lipgloss.NewStyle().Foreground(d.theme.Muted).Render("(no columns)"))
	}

	visibleCols := width / (cellWidth + 3)
	if visibleCols < 1 {
		visibleCols = 1
	}
	colStart, colEnd := scroll.Window(d.propColOffset, len(propColumns), visibleCols)
	d.propColOffset = colStart

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(d.theme.TableHeader)
	sepWidth := 0
	var header []string
	for _, pc := range propColumns[colStart:colEnd] {
		header = append(header, pad(pc.title, pc.width))
		sepWidth += pc.width + 3
	}
	lines = append(lines, headerStyle.Render(strings.Join(header, " │ ")))
	lines = append(lines, strings.Repeat("─", min(width, sepWidth)))

	rowViewport := viewport - len(lines)
	start, end := scroll.Window(d.propOffset, len(d.props.Columns), rowViewport)
	d.propOffset = start

	for _, col := range d.props.Columns[start:end] {
		nullable := ""
		if col.Nullable {
			nullable = "YES"
		}
		def := ""
		if col.Default != nil {
			def = *col.Default
		}
		pk := ""
		if col.PrimaryKey {
			pk = "✔"
		}
		all := []string{col.Name, col.DataType, nullable, def, pk}
		var cells []string
		for c := colStart; c < colEnd; c++ {
			cells = append(cells, pad(all[c], propColumns[c].width))
		}
		lines = append(lines, strings.Join(cells, " │ "))
	}
	return lines
}
