package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateID is returned when two nodes share an id.
var ErrDuplicateID = errors.New("duplicate id")

// ErrDuplicatePath is returned when two nodes share a materialized path.
var ErrDuplicatePath = errors.New("duplicate materialized path")

// ErrNodeNotFound is returned when no node matches an id or path.
var ErrNodeNotFound = errors.New("node not found")

// Outline is the in-memory aggregate: nodes keyed by id, with a
// derived path index rebuilt on every mutation so the two views can
// never drift apart. It also tracks the counter used to mint the next
// id.
type Outline struct {
	nodes       map[string]*Node
	byPath      map[string]string // path string -> id, derived
	order       []string          // ids in path order, derived
	nextCounter uint64
}

// NewOutline returns an empty outline.
func NewOutline() *Outline {
	return &Outline{
		nodes:       map[string]*Node{},
		byPath:      map[string]string{},
		nextCounter: 1,
	}
}

// Insert adds a node, enforcing global id and path uniqueness.
func (o *Outline) Insert(n *Node) error {
	if _, exists := o.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
	}
	if id, exists := o.byPath[n.Path.String()]; exists {
		return fmt.Errorf("%w: %s held by %s", ErrDuplicatePath, n.Path, id)
	}
	o.nodes[n.ID] = n
	o.rebuild()
	return nil
}

// Remove drops a node by id.
func (o *Outline) Remove(id string) {
	delete(o.nodes, id)
	o.rebuild()
}

// SetPath repositions a node in the aggregate. Disk renames are the
// planner's business; this only updates the in-memory views.
func (o *Outline) SetPath(id string, p Path) error {
	n, ok := o.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if held, occupied := o.byPath[p.String()]; occupied && held != id {
		return fmt.Errorf("%w: %s held by %s", ErrDuplicatePath, p, held)
	}
	n.Path = p
	o.rebuild()
	return nil
}

// rebuild recomputes the derived path index and ordering.
func (o *Outline) rebuild() {
	o.byPath = make(map[string]string, len(o.nodes))
	o.order = o.order[:0]
	for id, n := range o.nodes {
		o.byPath[n.Path.String()] = id
		o.order = append(o.order, id)
	}
	sort.Slice(o.order, func(i, j int) bool {
		return o.nodes[o.order[i]].Path.Less(o.nodes[o.order[j]].Path)
	})
}

// Len returns the node count.
func (o *Outline) Len() int {
	return len(o.nodes)
}

// Get returns the node with the given id.
func (o *Outline) Get(id string) (*Node, bool) {
	n, ok := o.nodes[id]
	return n, ok
}

// AtPath returns the node occupying the given path.
func (o *Outline) AtPath(p Path) (*Node, bool) {
	id, ok := o.byPath[p.String()]
	if !ok {
		return nil, false
	}
	return o.nodes[id], true
}

// Nodes returns all nodes in depth-first path order.
func (o *Outline) Nodes() []*Node {
	out := make([]*Node, len(o.order))
	for i, id := range o.order {
		out[i] = o.nodes[id]
	}
	return out
}

// Children returns the direct children of parent in path order. The
// zero Path selects the root level.
func (o *Outline) Children(parent Path) []*Node {
	var out []*Node
	for _, id := range o.order {
		n := o.nodes[id]
		if n.Path.Depth() != parent.Depth()+1 {
			continue
		}
		if parent.IsZero() || parent.IsAncestorOf(n.Path) {
			out = append(out, n)
		}
	}
	return out
}

// ChildPositions returns the occupied sibling positions under parent.
func (o *Outline) ChildPositions(parent Path) []int {
	children := o.Children(parent)
	positions := make([]int, len(children))
	for i, c := range children {
		positions[i] = c.Path.LastSegment()
	}
	return positions
}

// Subtree returns the node at root plus every descendant, in
// depth-first path order.
func (o *Outline) Subtree(root Path) []*Node {
	var out []*Node
	for _, id := range o.order {
		n := o.nodes[id]
		if n.Path.HasPrefix(root) {
			out = append(out, n)
		}
	}
	return out
}

// Descendants returns every node strictly below root, in path order.
func (o *Outline) Descendants(root Path) []*Node {
	var out []*Node
	for _, id := range o.order {
		n := o.nodes[id]
		if root.IsAncestorOf(n.Path) {
			out = append(out, n)
		}
	}
	return out
}

// NextCounter returns the counter to use when minting the next id.
func (o *Outline) NextCounter() uint64 {
	return o.nextCounter
}

// SetNextCounter records the mint counter, keeping the maximum seen.
func (o *Outline) SetNextCounter(c uint64) {
	if c > o.nextCounter {
		o.nextCounter = c
	}
}
