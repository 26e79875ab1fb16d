package domain

import (
	"errors"
	"fmt"
)

// OpKind identifies a single filesystem operation in a plan.
type OpKind int

const (
	// OpCreate writes a new file (create or replace).
	OpCreate OpKind = iota
	// OpRename renames an existing file.
	OpRename
	// OpDelete unlinks an existing file.
	OpDelete
)

// Op is one planned filesystem operation. Each op maps to a single
// syscall-equivalent step in the executor.
type Op struct {
	Kind    OpKind
	Name    string
	NewName string // rename target
	Content string // create content
}

// Plan is an ordered list of filesystem operations. Steps are applied
// in order; each step is individually atomic but the plan as a whole
// is not rolled back on failure.
type Plan struct {
	Ops []Op
}

func (p *Plan) delete(name string) {
	p.Ops = append(p.Ops, Op{Kind: OpDelete, Name: name})
}

// ErrCycle is returned when a move would place a node under its own
// subtree.
var ErrCycle = errors.New("cycle detected")

// ErrOccupied is returned when a move target path is already held by
// another node.
var ErrOccupied = errors.New("target path occupied")

// ErrNoOp is returned when a move target equals the current path.
var ErrNoOp = errors.New("node already at target path")

// rename pairs an old filename with its replacement.
type rename struct {
	old string
	new string
}

// appendRenames emits the rename pairs as ops, staging through unique
// temporary names whenever a target collides with a source that has
// not been renamed yet. Temporaries use a suffix outside the .md
// namespace so a cancelled plan never leaves them behind as phantom
// nodes; the directory listing skips them, so the validator does not
// report them either.
func appendRenames(p *Plan, renames []rename) {
	sources := make(map[string]bool, len(renames))
	for _, r := range renames {
		sources[r.old] = true
	}
	collides := false
	for _, r := range renames {
		if sources[r.new] && r.new != r.old {
			collides = true
			break
		}
	}
	if !collides {
		for _, r := range renames {
			p.Ops = append(p.Ops, Op{Kind: OpRename, Name: r.old, NewName: r.new})
		}
		return
	}
	for i, r := range renames {
		p.Ops = append(p.Ops, Op{Kind: OpRename, Name: r.old, NewName: tempName(r.new, i)})
	}
	for i, r := range renames {
		p.Ops = append(p.Ops, Op{Kind: OpRename, Name: tempName(r.new, i), NewName: r.new})
	}
}

func tempName(name string, i int) string {
	return fmt.Sprintf("%s.tmp%d", name, i)
}

// subtreeRenames emits one rename per doctype file for every node in
// the subtree rooted at node, replacing oldRoot with newRoot in each
// path.
func (o *Outline) subtreeRenames(root *Node, newRoot Path) ([]rename, error) {
	var renames []rename
	for _, n := range o.Subtree(root.Path) {
		newPath, err := n.Path.ReplacePrefix(root.Path, newRoot)
		if err != nil {
			return nil, err
		}
		for _, d := range n.Doctypes {
			renames = append(renames, rename{
				old: EncodeFilename(n.Path, n.ID, d, n.Slug),
				new: EncodeFilename(newPath, n.ID, d, n.Slug),
			})
		}
	}
	return renames, nil
}

// PlanMove produces the rename plan relocating the node with the given
// id — and its entire subtree — to target. It rejects unknown ids,
// occupied targets, cycles, and no-ops.
func (o *Outline) PlanMove(id string, target Path) (Plan, error) {
	n, ok := o.Get(id)
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if target.Equal(n.Path) {
		return Plan{}, fmt.Errorf("%w: %s", ErrNoOp, target)
	}
	if holder, occupied := o.AtPath(target); occupied && holder.ID != id {
		return Plan{}, fmt.Errorf("%w: %s held by %s", ErrOccupied, target, holder.ID)
	}
	if n.Path.IsAncestorOf(target) {
		return Plan{}, fmt.Errorf("%w: %s is inside %s", ErrCycle, target, n.Path)
	}

	renames, err := o.subtreeRenames(n, target)
	if err != nil {
		return Plan{}, err
	}
	var plan Plan
	appendRenames(&plan, renames)
	return plan, nil
}

// ErrHasChildren is returned when deleting a node with descendants
// without the recursive or promote modes.
var ErrHasChildren = errors.New("node has descendants; use recursive or promote")

// PlanDelete produces the plan removing the node with the given id
// according to mode. It returns the ids of every deleted node.
func (o *Outline) PlanDelete(id string, mode DeleteMode) (Plan, []string, error) {
	n, ok := o.Get(id)
	if !ok {
		return Plan{}, nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	descendants := o.Descendants(n.Path)

	var plan Plan
	switch mode {
	case DeleteLeaf:
		if len(descendants) > 0 {
			return Plan{}, nil, fmt.Errorf("%w: %s", ErrHasChildren, id)
		}
		deleteNodeFiles(&plan, n)
		return plan, []string{n.ID}, nil

	case DeleteRecursive:
		deleted := []string{n.ID}
		deleteNodeFiles(&plan, n)
		for _, d := range descendants {
			deleteNodeFiles(&plan, d)
			deleted = append(deleted, d.ID)
		}
		return plan, deleted, nil

	default: // DeletePromote
		if err := o.planPromote(&plan, n); err != nil {
			return Plan{}, nil, err
		}
		deleteNodeFiles(&plan, n)
		return plan, []string{n.ID}, nil
	}
}

// planPromote emits the renames lifting each direct child of n to n's
// parent level, assigning positions among the pre-existing siblings by
// the append rule, one child at a time in path order.
func (o *Outline) planPromote(plan *Plan, n *Node) error {
	parent, _ := n.Path.Parent()

	occupied := o.ChildPositions(parent)
	// The node being deleted frees its own position.
	occupied = removePosition(occupied, n.Path.LastSegment())

	var renames []rename
	for _, child := range o.Children(n.Path) {
		position, err := AppendPosition(occupied)
		if err != nil {
			return err
		}
		occupied = append(occupied, position)
		newPath, err := parent.Child(position)
		if err != nil {
			return err
		}
		rs, err := o.subtreeRenames(child, newPath)
		if err != nil {
			return err
		}
		renames = append(renames, rs...)
	}
	appendRenames(plan, renames)
	return nil
}

func removePosition(positions []int, position int) []int {
	out := positions[:0]
	for _, p := range positions {
		if p != position {
			out = append(out, p)
		}
	}
	return out
}

func deleteNodeFiles(plan *Plan, n *Node) {
	for _, d := range n.Doctypes {
		plan.delete(n.Filename(d))
	}
}

// PlanCompact renumbers the direct children of parent (the roots when
// parent is the zero Path) to evenly spaced positions at the widest
// fitting tier, cascading each reassignment into descendants. It
// returns the number of siblings at the level.
func (o *Outline) PlanCompact(parent Path) (Plan, int, error) {
	children := o.Children(parent)
	if len(children) == 0 {
		return Plan{}, 0, nil
	}
	positions, err := CompactPositions(len(children))
	if err != nil {
		return Plan{}, 0, err
	}

	var renames []rename
	for i, child := range children {
		if child.Path.LastSegment() == positions[i] {
			continue
		}
		newPath, err := parent.Child(positions[i])
		if err != nil {
			return Plan{}, 0, err
		}
		rs, err := o.subtreeRenames(child, newPath)
		if err != nil {
			return Plan{}, 0, err
		}
		renames = append(renames, rs...)
	}
	var plan Plan
	appendRenames(&plan, renames)
	return plan, len(children), nil
}
