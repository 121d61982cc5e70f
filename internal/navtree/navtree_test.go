package navtree

import "testing"

// createTestTree builds:
//
//	postgres_db
//	  public (schema)
//	    users
//	    orders
//	  audit (schema)
//	    events
//	mysql_db
//	  customers
//	  invoices
func createTestTree() *Tree {
	t := &Tree{}
	t.Load([]Database{
		{
			Name: "postgres_db",
			Children: []Child{
				SchemaChild(Schema{Name: "public", Tables: []Table{
					{Name: "users", Schema: "public"},
					{Name: "orders", Schema: "public"},
				}}),
				SchemaChild(Schema{Name: "audit", Tables: []Table{
					{Name: "events", Schema: "audit"},
				}}),
			},
		},
		{
			Name: "mysql_db",
			Children: []Child{
				TableChild(Table{Name: "customers"}),
				TableChild(Table{Name: "invoices"}),
			},
		},
	})
	return t
}

func selectedName(t *testing.T, tree *Tree) string {
	t.Helper()
	n, ok := tree.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	return n.Name
}

func TestLoadSelectsFirstNode(t *testing.T) {
	tree := createTestTree()
	n, ok := tree.Selected()
	if !ok {
		t.Fatal("expected a selection after Load")
	}
	if n.Kind != NodeDatabase || n.Name != "postgres_db" {
		t.Errorf("selected = %v %q, want database postgres_db", n.Kind, n.Name)
	}
}

func TestMoveSkipsCollapsedChildren(t *testing.T) {
	tree := createTestTree()

	tree.MoveNext()
	if got := selectedName(t, tree); got != "mysql_db" {
		t.Errorf("after MoveNext got %q, want mysql_db", got)
	}

	// Last visible node: further moves are no-ops, no wraparound.
	tree.MoveNext()
	if got := selectedName(t, tree); got != "mysql_db" {
		t.Errorf("MoveNext at end moved to %q", got)
	}

	tree.MovePrev()
	tree.MovePrev()
	if got := selectedName(t, tree); got != "postgres_db" {
		t.Errorf("MovePrev at start moved to %q", got)
	}
}

func TestExpandRevealsDescendants(t *testing.T) {
	tree := createTestTree()

	tree.ExpandSelected()
	tree.MoveNext()
	if got := selectedName(t, tree); got != "public" {
		t.Fatalf("after expanding postgres_db got %q, want public", got)
	}

	tree.ExpandSelected()
	tree.MoveNext()
	if got := selectedName(t, tree); got != "users" {
		t.Errorf("after expanding public got %q, want users", got)
	}

	tree.MoveNext()
	tree.MoveNext()
	if got := selectedName(t, tree); got != "audit" {
		t.Errorf("expected audit after last table of public, got %q", got)
	}

	// audit stays collapsed, so its tables are skipped.
	tree.MoveNext()
	if got := selectedName(t, tree); got != "mysql_db" {
		t.Errorf("expected mysql_db after collapsed audit, got %q", got)
	}
}

func TestCollapseOnTableRelocatesToParent(t *testing.T) {
	tree := createTestTree()
	tree.ExpandSelected()
	tree.MoveNext()
	tree.ExpandSelected()
	tree.MoveNext() // users

	tree.CollapseSelected()
	n, ok := tree.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if n.Kind != NodeSchema || n.Name != "public" {
		t.Errorf("selected = %v %q, want schema public", n.Kind, n.Name)
	}
	if n.Expanded {
		t.Error("public should be collapsed")
	}
}

func TestCollapseOnDirectTableRelocatesToDatabase(t *testing.T) {
	tree := createTestTree()
	tree.MoveNext()       // mysql_db
	tree.ExpandSelected() //
	tree.MoveNext()       // customers

	tree.CollapseSelected()
	n, ok := tree.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if n.Kind != NodeDatabase || n.Name != "mysql_db" {
		t.Errorf("selected = %v %q, want database mysql_db", n.Kind, n.Name)
	}
}

func TestMoveFirstAndLast(t *testing.T) {
	tree := createTestTree()
	tree.ExpandSelected()
	tree.MoveNext()
	tree.ExpandSelected()
	tree.MoveNext()
	tree.MoveNext() // orders

	tree.MoveFirst()
	if got := selectedName(t, tree); got != "postgres_db" {
		t.Errorf("MoveFirst got %q", got)
	}

	tree.MoveLast()
	if got := selectedName(t, tree); got != "mysql_db" {
		t.Errorf("MoveLast got %q, want mysql_db", got)
	}

	// Expanding the last database makes its last table the last node.
	tree.ExpandSelected()
	tree.MoveLast()
	if got := selectedName(t, tree); got != "invoices" {
		t.Errorf("MoveLast after expand got %q, want invoices", got)
	}
}

func TestFilterHidesNonMatchingLeaves(t *testing.T) {
	tree := createTestTree()
	tree.ExpandSelected()
	tree.MoveNext()
	tree.ExpandSelected()

	tree.SetQuery("user")

	names := visibleNames(tree)
	want := []string{"postgres_db", "public", "users"}
	if len(names) != len(want) {
		t.Fatalf("visible = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("visible = %v, want %v", names, want)
		}
	}
}

func TestFilterVisibilityIsTransitive(t *testing.T) {
	tree := createTestTree()

	// "events" matches a table two levels down; both ancestors stay
	// visible even though their own names do not match.
	tree.SetQuery("events")
	names := visibleNames(tree)
	if len(names) != 1 || names[0] != "postgres_db" {
		t.Fatalf("visible = %v, want [postgres_db]", names)
	}

	tree.ExpandSelected()
	names = visibleNames(tree)
	if len(names) != 2 || names[1] != "audit" {
		t.Fatalf("visible = %v, want [postgres_db audit]", names)
	}
}

func TestFilterRelocatesHiddenSelection(t *testing.T) {
	tree := createTestTree()
	tree.MoveNext() // mysql_db

	tree.SetQuery("audit")
	if got := selectedName(t, tree); got != "postgres_db" {
		t.Errorf("selection after filter = %q, want postgres_db", got)
	}

	// Nothing matches: selection is cleared, navigation is inert.
	tree.SetQuery("zzz")
	if _, ok := tree.Selected(); ok {
		t.Error("expected no selection when nothing matches")
	}
	tree.MoveNext()
	tree.MoveLast()

	// Relaxing the filter restores a selection.
	tree.SetQuery("")
	if got := selectedName(t, tree); got != "postgres_db" {
		t.Errorf("selection after clearing filter = %q", got)
	}
}

func TestEmptyTreeOperationsAreNoOps(t *testing.T) {
	tree := &Tree{}
	tree.MoveNext()
	tree.MovePrev()
	tree.MoveFirst()
	tree.MoveLast()
	tree.ExpandSelected()
	tree.CollapseSelected()
	tree.ToggleSelected()
	tree.SetQuery("x")
	if _, ok := tree.Selected(); ok {
		t.Error("empty tree should have no selection")
	}
	if nodes := tree.VisibleNodes(); len(nodes) != 0 {
		t.Errorf("VisibleNodes = %v, want empty", nodes)
	}
}

func TestToggleFlipsExpandState(t *testing.T) {
	tree := createTestTree()
	tree.ToggleSelected()
	if n, _ := tree.Selected(); !n.Expanded {
		t.Error("toggle should expand a collapsed database")
	}
	tree.ToggleSelected()
	if n, _ := tree.Selected(); n.Expanded {
		t.Error("toggle should collapse an expanded database")
	}
}

func TestSelectedIndexMatchesVisibleOrder(t *testing.T) {
	tree := createTestTree()
	tree.ExpandSelected()
	tree.MoveNext()
	tree.ExpandSelected()
	tree.MoveNext()
	tree.MoveNext() // orders

	nodes := tree.VisibleNodes()
	idx := tree.SelectedIndex()
	if idx < 0 || idx >= len(nodes) {
		t.Fatalf("index %d out of range of %d visible nodes", idx, len(nodes))
	}
	if nodes[idx].Name != "orders" {
		t.Errorf("visible[%d] = %q, want orders", idx, nodes[idx].Name)
	}
	if nodes[idx].Depth != 2 || nodes[idx].Schema != "public" {
		t.Errorf("orders node = %+v, want depth 2 under public", nodes[idx])
	}
}

func visibleNames(tree *Tree) []string {
	nodes := tree.VisibleNodes()
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}

func expandAll(tree *Tree) {
	tree.MoveFirst()
	for {
		tree.ExpandSelected()
		before := tree.SelectedIndex()
		tree.MoveNext()
		if tree.SelectedIndex() == before {
			return
		}
	}
}

func TestFilterNarrowsMonotonically(t *testing.T) {
	tree := createTestTree()
	expandAll(tree)

	prev := visibleNames(tree)
	for _, q := range []string{"e", "ev", "eve", "even", "event", "eventsz"} {
		tree.SetQuery(q)
		cur := visibleNames(tree)

		seen := make(map[string]bool, len(prev))
		for _, name := range prev {
			seen[name] = true
		}
		for _, name := range cur {
			if !seen[name] {
				t.Errorf("query %q revealed %q, hidden under the shorter query", q, name)
			}
		}
		if len(cur) > len(prev) {
			t.Errorf("query %q grew the visible set from %d to %d", q, len(prev), len(cur))
		}
		prev = cur
	}
	if len(prev) != 0 {
		t.Errorf("query matching nothing left %v visible", prev)
	}
}

func TestExpandCollapseRoundTripUnderFilter(t *testing.T) {
	tree := createTestTree()
	tree.SetQuery("events")

	before := visibleNames(tree)
	if len(before) != 1 || before[0] != "postgres_db" {
		t.Fatalf("visible = %v, want just postgres_db", before)
	}

	tree.ExpandSelected() // postgres_db
	tree.MoveNext()       // audit, the only visible child under the filter
	tree.ExpandSelected()

	expanded := visibleNames(tree)
	want := []string{"postgres_db", "audit", "events"}
	if len(expanded) != len(want) {
		t.Fatalf("expanded visible = %v, want %v", expanded, want)
	}
	for i, name := range want {
		if expanded[i] != name {
			t.Fatalf("expanded visible = %v, want %v", expanded, want)
		}
	}

	tree.CollapseSelected() // audit
	tree.MovePrev()         // postgres_db
	tree.CollapseSelected()

	after := visibleNames(tree)
	if len(after) != len(before) {
		t.Fatalf("after round trip visible = %v, want %v", after, before)
	}
	for i, name := range before {
		if after[i] != name {
			t.Errorf("after round trip visible = %v, want %v", after, before)
		}
	}
}
