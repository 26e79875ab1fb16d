package domain

import (
	"errors"
	"testing"
)

func testNode(t *testing.T, id, path string) *Node {
	t.Helper()
	return &Node{
		ID:       id,
		Path:     mustPath(t, path),
		Title:    "Title " + id,
		Slug:     "title-" + id,
		Doctypes: []string{DoctypeDraft, DoctypeNotes},
	}
}

func buildOutline(t *testing.T, nodes ...*Node) *Outline {
	t.Helper()
	o := NewOutline()
	for _, n := range nodes {
		if err := o.Insert(n); err != nil {
			t.Fatalf("Insert(%s) unexpected error: %v", n.ID, err)
		}
	}
	return o
}

func TestOutline_InsertRejectsDuplicates(t *testing.T) {
	o := buildOutline(t, testNode(t, "a", "100"))

	if err := o.Insert(testNode(t, "a", "200")); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate id error = %v, want ErrDuplicateID", err)
	}
	if err := o.Insert(testNode(t, "b", "100")); !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("duplicate path error = %v, want ErrDuplicatePath", err)
	}
}

func TestOutline_NodesInPathOrder(t *testing.T) {
	o := buildOutline(t,
		testNode(t, "c", "200"),
		testNode(t, "a", "100"),
		testNode(t, "b", "100-200"),
		testNode(t, "d", "100-100"),
	)

	want := []string{"100", "100-100", "100-200", "200"}
	nodes := o.Nodes()
	if len(nodes) != len(want) {
		t.Fatalf("len(Nodes()) = %d, want %d", len(nodes), len(want))
	}
	for i, n := range nodes {
		if n.Path.String() != want[i] {
			t.Errorf("Nodes()[%d].Path = %q, want %q", i, n.Path.String(), want[i])
		}
	}
}

func TestOutline_Lookups(t *testing.T) {
	o := buildOutline(t, testNode(t, "a", "100"), testNode(t, "b", "100-100"))

	if n, ok := o.Get("a"); !ok || n.Path.String() != "100" {
		t.Errorf("Get(a) = %v, %v", n, ok)
	}
	if _, ok := o.Get("zz"); ok {
		t.Error("Get(zz) should miss")
	}
	if n, ok := o.AtPath(mustPath(t, "100-100")); !ok || n.ID != "b" {
		t.Errorf("AtPath(100-100) = %v, %v", n, ok)
	}
	if _, ok := o.AtPath(mustPath(t, "300")); ok {
		t.Error("AtPath(300) should miss")
	}
}

func TestOutline_ChildrenAndPositions(t *testing.T) {
	o := buildOutline(t,
		testNode(t, "a", "100"),
		testNode(t, "b", "200"),
		testNode(t, "c", "100-100"),
		testNode(t, "d", "100-300"),
		testNode(t, "e", "100-100-100"),
	)

	roots := o.Children(Path{})
	if len(roots) != 2 || roots[0].ID != "a" || roots[1].ID != "b" {
		t.Errorf("root children = %v", roots)
	}

	children := o.Children(mustPath(t, "100"))
	if len(children) != 2 || children[0].ID != "c" || children[1].ID != "d" {
		t.Errorf("children of 100 = %v", children)
	}

	positions := o.ChildPositions(mustPath(t, "100"))
	if len(positions) != 2 || positions[0] != 100 || positions[1] != 300 {
		t.Errorf("ChildPositions(100) = %v, want [100 300]", positions)
	}
}

func TestOutline_SubtreeAndDescendants(t *testing.T) {
	o := buildOutline(t,
		testNode(t, "a", "100"),
		testNode(t, "b", "100-100"),
		testNode(t, "c", "100-100-100"),
		testNode(t, "d", "200"),
	)

	subtree := o.Subtree(mustPath(t, "100"))
	if len(subtree) != 3 {
		t.Fatalf("len(Subtree(100)) = %d, want 3", len(subtree))
	}
	if subtree[0].ID != "a" || subtree[1].ID != "b" || subtree[2].ID != "c" {
		t.Errorf("Subtree(100) order = %s %s %s", subtree[0].ID, subtree[1].ID, subtree[2].ID)
	}

	descendants := o.Descendants(mustPath(t, "100"))
	if len(descendants) != 2 {
		t.Fatalf("len(Descendants(100)) = %d, want 2", len(descendants))
	}
}

func TestOutline_AncestorIffPathPrefix(t *testing.T) {
	// A is an ancestor of B iff B's path begins with A's path plus at
	// least one more segment.
	o := buildOutline(t,
		testNode(t, "a", "100"),
		testNode(t, "b", "100-100"),
		testNode(t, "c", "101"),
	)
	a, _ := o.Get("a")
	b, _ := o.Get("b")
	c, _ := o.Get("c")

	if !a.Path.IsAncestorOf(b.Path) {
		t.Error("a should be ancestor of b")
	}
	if a.Path.IsAncestorOf(c.Path) {
		t.Error("a should not be ancestor of c")
	}
}

func TestOutline_SetPath(t *testing.T) {
	o := buildOutline(t, testNode(t, "a", "100"), testNode(t, "b", "200"))

	if err := o.SetPath("a", mustPath(t, "300")); err != nil {
		t.Fatalf("SetPath unexpected error: %v", err)
	}
	if _, ok := o.AtPath(mustPath(t, "100")); ok {
		t.Error("old path should be vacated")
	}
	if n, ok := o.AtPath(mustPath(t, "300")); !ok || n.ID != "a" {
		t.Error("new path should resolve to a")
	}
	if err := o.SetPath("a", mustPath(t, "200")); !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("SetPath onto occupied = %v, want ErrDuplicatePath", err)
	}
	if err := o.SetPath("zz", mustPath(t, "400")); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("SetPath unknown id = %v, want ErrNodeNotFound", err)
	}
}

func TestOutline_NextCounterKeepsMaximum(t *testing.T) {
	o := NewOutline()
	if o.NextCounter() != 1 {
		t.Fatalf("fresh outline counter = %d, want 1", o.NextCounter())
	}
	o.SetNextCounter(5)
	o.SetNextCounter(3)
	if o.NextCounter() != 5 {
		t.Errorf("counter = %d, want 5", o.NextCounter())
	}
}
