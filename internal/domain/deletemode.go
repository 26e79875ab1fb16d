package domain

// DeleteMode selects how descendants are handled when deleting a node.
type DeleteMode int

const (
	// DeleteLeaf deletes only childless nodes; it fails when
	// descendants exist.
	DeleteLeaf DeleteMode = iota
	// DeleteRecursive deletes the node and its entire subtree.
	DeleteRecursive
	// DeletePromote deletes the node and lifts its direct children to
	// the node's parent level.
	DeletePromote
)
