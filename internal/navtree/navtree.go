// Package navtree implements the database > schema > table navigation
// tree: expand/collapse state, a live substring filter, and a single
// selection addressed structurally so that hiding or collapsing nodes
// can never leave the selection dangling.
package navtree

import "strings"

// Table is a leaf node. Schema is set when the table lives under a
// schema, empty when it hangs directly off the database.
type Table struct {
	Name   string
	Schema string
}

// Schema groups tables under a database (PostgreSQL layout).
type Schema struct {
	Name     string
	Tables   []Table
	Expanded bool
}

// Child is one entry in a database's ordered child sequence: exactly one
// of Table or Schema is non-nil.
type Child struct {
	Table  *Table
	Schema *Schema
}

// TableChild wraps a table as a database child.
func TableChild(t Table) Child { return Child{Table: &t} }

// SchemaChild wraps a schema as a database child.
func SchemaChild(s Schema) Child { return Child{Schema: &s} }

// Database is a top-level node.
type Database struct {
	Name     string
	Children []Child
	Expanded bool
}

// PathKind discriminates the four structural positions a node can have.
type PathKind int

const (
	PathDatabase PathKind = iota
	PathSchema
	PathTableInDatabase
	PathTableInSchema
)

// NodePath addresses a node by position: DB indexes the database, Child
// the entry in its child sequence, Table the table within a schema.
// Fields beyond the ones the Kind uses are zero.
type NodePath struct {
	Kind  PathKind
	DB    int
	Child int
	Table int
}

// NodeKind is the typed result of the selection accessor.
type NodeKind int

const (
	NodeDatabase NodeKind = iota
	NodeSchema
	NodeTable
)

// Node is a resolved view of one tree position, enough for both
// rendering and deciding what Enter should do.
type Node struct {
	Kind        NodeKind
	Path        NodePath
	Name        string
	Database    string
	Schema      string
	Depth       int
	Expanded    bool
	HasChildren bool
}

// Tree holds the structure plus selection and filter state. The zero
// value is an empty tree.
type Tree struct {
	dbs    []Database
	sel    NodePath
	hasSel bool
	query  string
}

// Load replaces the whole structure. The filter is cleared, expand
// state is whatever the caller passed (fresh loads arrive collapsed),
// and the selection moves to the first visible node in pre-order.
func (t *Tree) Load(dbs []Database) {
	t.dbs = dbs
	t.query = ""
	t.selectFirstVisible()
}

// Empty reports whether the tree has no databases at all.
func (t *Tree) Empty() bool { return len(t.dbs) == 0 }

// Query returns the active filter string.
func (t *Tree) Query() string { return t.query }

// SetQuery replaces the filter string. A selection hidden by the new
// filter is relocated to the first visible node; if nothing is visible
// the selection is cleared until the filter relaxes.
func (t *Tree) SetQuery(q string) {
	t.query = q
	if t.hasSel && t.visible(t.sel) {
		return
	}
	t.selectFirstVisible()
}

// Selected returns the selected node, if any.
func (t *Tree) Selected() (Node, bool) {
	if !t.hasSel {
		return Node{}, false
	}
	return t.nodeAt(t.sel)
}

// MoveNext advances the selection to the next visible node in pre-order
// traversal. At the last visible node it is a no-op.
func (t *Tree) MoveNext() {
	if !t.hasSel {
		return
	}
	for p, ok := t.rawNext(t.sel); ok; p, ok = t.rawNext(p) {
		if t.visible(p) {
			t.sel = p
			return
		}
	}
}

// MovePrev steps the selection back to the previous visible node. At
// the first visible node it is a no-op.
func (t *Tree) MovePrev() {
	if !t.hasSel {
		return
	}
	for p, ok := t.rawPrev(t.sel); ok; p, ok = t.rawPrev(p) {
		if t.visible(p) {
			t.sel = p
			return
		}
	}
}

// MoveFirst jumps to the first visible node.
func (t *Tree) MoveFirst() {
	if !t.hasSel {
		return
	}
	t.selectFirstVisible()
}

// MoveLast jumps to the last visible node, descending into the deepest
// expanded visible descendant of the final database.
func (t *Tree) MoveLast() {
	if !t.hasSel || len(t.dbs) == 0 {
		return
	}
	p := t.deepestLast(NodePath{Kind: PathDatabase, DB: len(t.dbs) - 1})
	for {
		if t.visible(p) {
			t.sel = p
			return
		}
		prev, ok := t.rawPrev(p)
		if !ok {
			return
		}
		p = prev
	}
}

// ExpandSelected expands the selected container. Tables are a no-op.
func (t *Tree) ExpandSelected() { t.setExpanded(true) }

// CollapseSelected collapses the selected container. On a table it
// collapses the table's parent container and relocates the selection
// there, so the selection never points at a hidden node.
func (t *Tree) CollapseSelected() {
	if !t.hasSel {
		return
	}
	switch t.sel.Kind {
	case PathTableInDatabase:
		parent := NodePath{Kind: PathDatabase, DB: t.sel.DB}
		t.dbs[t.sel.DB].Expanded = false
		t.sel = parent
	case PathTableInSchema:
		parent := NodePath{Kind: PathSchema, DB: t.sel.DB, Child: t.sel.Child}
		t.dbs[t.sel.DB].Children[t.sel.Child].Schema.Expanded = false
		t.sel = parent
	default:
		t.setExpanded(false)
	}
}

// ToggleSelected flips the expand state of the selected container.
func (t *Tree) ToggleSelected() {
	if !t.hasSel {
		return
	}
	switch t.sel.Kind {
	case PathDatabase:
		t.dbs[t.sel.DB].Expanded = !t.dbs[t.sel.DB].Expanded
	case PathSchema:
		s := t.dbs[t.sel.DB].Children[t.sel.Child].Schema
		s.Expanded = !s.Expanded
	}
}

// VisibleNodes flattens the tree in pre-order: expanded containers
// contribute their children, the filter hides non-matching nodes.
func (t *Tree) VisibleNodes() []Node {
	var out []Node
	if len(t.dbs) == 0 {
		return out
	}
	p, ok := NodePath{Kind: PathDatabase}, true
	for ok {
		if t.visible(p) {
			if n, found := t.nodeAt(p); found {
				out = append(out, n)
			}
		}
		p, ok = t.rawNext(p)
	}
	return out
}

// SelectedIndex returns the position of the selection within
// VisibleNodes, or -1 when there is no selection.
func (t *Tree) SelectedIndex() int {
	if !t.hasSel {
		return -1
	}
	for i, n := range t.VisibleNodes() {
		if n.Path == t.sel {
			return i
		}
	}
	return -1
}

func (t *Tree) setExpanded(expanded bool) {
	if !t.hasSel {
		return
	}
	switch t.sel.Kind {
	case PathDatabase:
		t.dbs[t.sel.DB].Expanded = expanded
	case PathSchema:
		t.dbs[t.sel.DB].Children[t.sel.Child].Schema.Expanded = expanded
	}
}

func (t *Tree) selectFirstVisible() {
	t.hasSel = false
	if len(t.dbs) == 0 {
		return
	}
	p, ok := NodePath{Kind: PathDatabase}, true
	for ok {
		if t.visible(p) {
			t.sel = p
			t.hasSel = true
			return
		}
		p, ok = t.rawNext(p)
	}
}

// nodeAt resolves a path against the current structure, rejecting
// anything out of bounds.
func (t *Tree) nodeAt(p NodePath) (Node, bool) {
	if p.DB < 0 || p.DB >= len(t.dbs) {
		return Node{}, false
	}
	db := &t.dbs[p.DB]
	switch p.Kind {
	case PathDatabase:
		return Node{
			Kind:        NodeDatabase,
			Path:        p,
			Name:        db.Name,
			Database:    db.Name,
			Depth:       0,
			Expanded:    db.Expanded,
			HasChildren: len(db.Children) > 0,
		}, true
	case PathSchema:
		if p.Child < 0 || p.Child >= len(db.Children) || db.Children[p.Child].Schema == nil {
			return Node{}, false
		}
		s := db.Children[p.Child].Schema
		return Node{
			Kind:        NodeSchema,
			Path:        p,
			Name:        s.Name,
			Database:    db.Name,
			Schema:      s.Name,
			Depth:       1,
			Expanded:    s.Expanded,
			HasChildren: len(s.Tables) > 0,
		}, true
	case PathTableInDatabase:
		if p.Child < 0 || p.Child >= len(db.Children) || db.Children[p.Child].Table == nil {
			return Node{}, false
		}
		tb := db.Children[p.Child].Table
		return Node{
			Kind:     NodeTable,
			Path:     p,
			Name:     tb.Name,
			Database: db.Name,
			Depth:    1,
		}, true
	case PathTableInSchema:
		if p.Child < 0 || p.Child >= len(db.Children) || db.Children[p.Child].Schema == nil {
			return Node{}, false
		}
		s := db.Children[p.Child].Schema
		if p.Table < 0 || p.Table >= len(s.Tables) {
			return Node{}, false
		}
		return Node{
			Kind:     NodeTable,
			Path:     p,
			Name:     s.Tables[p.Table].Name,
			Database: db.Name,
			Schema:   s.Name,
			Depth:    2,
		}, true
	}
	return Node{}, false
}

// rawNext is the pre-order successor. Children of collapsed containers
// are skipped; the filter is not consulted here.
func (t *Tree) rawNext(p NodePath) (NodePath, bool) {
	switch p.Kind {
	case PathDatabase:
		db := &t.dbs[p.DB]
		if db.Expanded && len(db.Children) > 0 {
			return t.childPath(p.DB, 0), true
		}
		return t.nextDatabase(p.DB)
	case PathSchema:
		s := t.dbs[p.DB].Children[p.Child].Schema
		if s.Expanded && len(s.Tables) > 0 {
			return NodePath{Kind: PathTableInSchema, DB: p.DB, Child: p.Child}, true
		}
		return t.nextChild(p.DB, p.Child)
	case PathTableInDatabase:
		return t.nextChild(p.DB, p.Child)
	case PathTableInSchema:
		s := t.dbs[p.DB].Children[p.Child].Schema
		if p.Table+1 < len(s.Tables) {
			return NodePath{Kind: PathTableInSchema, DB: p.DB, Child: p.Child, Table: p.Table + 1}, true
		}
		return t.nextChild(p.DB, p.Child)
	}
	return NodePath{}, false
}

// rawPrev is the pre-order predecessor, mirroring rawNext.
func (t *Tree) rawPrev(p NodePath) (NodePath, bool) {
	switch p.Kind {
	case PathDatabase:
		if p.DB == 0 {
			return NodePath{}, false
		}
		return t.deepestLast(NodePath{Kind: PathDatabase, DB: p.DB - 1}), true
	case PathSchema, PathTableInDatabase:
		if p.Child == 0 {
			return NodePath{Kind: PathDatabase, DB: p.DB}, true
		}
		return t.deepestLast(t.childPath(p.DB, p.Child-1)), true
	case PathTableInSchema:
		if p.Table == 0 {
			return NodePath{Kind: PathSchema, DB: p.DB, Child: p.Child}, true
		}
		return NodePath{Kind: PathTableInSchema, DB: p.DB, Child: p.Child, Table: p.Table - 1}, true
	}
	return NodePath{}, false
}

func (t *Tree) nextChild(dbIdx, childIdx int) (NodePath, bool) {
	if childIdx+1 < len(t.dbs[dbIdx].Children) {
		return t.childPath(dbIdx, childIdx+1), true
	}
	return t.nextDatabase(dbIdx)
}

func (t *Tree) nextDatabase(dbIdx int) (NodePath, bool) {
	if dbIdx+1 < len(t.dbs) {
		return NodePath{Kind: PathDatabase, DB: dbIdx + 1}, true
	}
	return NodePath{}, false
}

func (t *Tree) childPath(dbIdx, childIdx int) NodePath {
	if t.dbs[dbIdx].Children[childIdx].Schema != nil {
		return NodePath{Kind: PathSchema, DB: dbIdx, Child: childIdx}
	}
	return NodePath{Kind: PathTableInDatabase, DB: dbIdx, Child: childIdx}
}

// deepestLast descends from p into its last expanded descendant.
func (t *Tree) deepestLast(p NodePath) NodePath {
	switch p.Kind {
	case PathDatabase:
		db := &t.dbs[p.DB]
		if !db.Expanded || len(db.Children) == 0 {
			return p
		}
		return t.deepestLast(t.childPath(p.DB, len(db.Children)-1))
	case PathSchema:
		s := t.dbs[p.DB].Children[p.Child].Schema
		if !s.Expanded || len(s.Tables) == 0 {
			return p
		}
		return NodePath{Kind: PathTableInSchema, DB: p.DB, Child: p.Child, Table: len(s.Tables) - 1}
	}
	return p
}

// visible evaluates the filter predicate lazily: with no query every
// node is visible; containers are visible when their own name or any
// descendant's name matches; tables only on their own name.
func (t *Tree) visible(p NodePath) bool {
	if t.query == "" {
		return true
	}
	if p.DB < 0 || p.DB >= len(t.dbs) {
		return false
	}
	db := &t.dbs[p.DB]
	switch p.Kind {
	case PathDatabase:
		if t.matches(db.Name) {
			return true
		}
		for _, c := range db.Children {
			if c.Table != nil && t.matches(c.Table.Name) {
				return true
			}
			if c.Schema != nil {
				if t.matches(c.Schema.Name) {
					return true
				}
				for _, tb := range c.Schema.Tables {
					if t.matches(tb.Name) {
						return true
					}
				}
			}
		}
		return false
	case PathSchema:
		s := db.Children[p.Child].Schema
		if t.matches(s.Name) {
			return true
		}
		for _, tb := range s.Tables {
			if t.matches(tb.Name) {
				return true
			}
		}
		return false
	case PathTableInDatabase:
		return t.matches(db.Children[p.Child].Table.Name)
	case PathTableInSchema:
		return t.matches(db.Children[p.Child].Schema.Tables[p.Table].Name)
	}
	return false
}

func (t *Tree) matches(name string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(t.query))
}
