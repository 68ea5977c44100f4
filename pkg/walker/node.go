package walker

import "fmt"

// Point is the final position computed for a node. X grows rightward from
// the root; Y grows downward, one LevelSeparation per level.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Family describes one node of the tree when populating an engine.
// All relations are node ids; the empty string means "no such relation".
// Exactly one Family in a populate set must have an empty Parent (the root),
// and a node is a leaf iff it has no FirstChild.
type Family struct {
	// ID is the unique identifier of the node.
	ID string

	// IsLeaf indicates the node has no children. It must agree with
	// FirstChild: a leaf with a first child (or an internal node without
	// one) is rejected at populate time.
	IsLeaf bool

	// LeftSibling is the id of the node with the same parent immediately
	// to the left, if any.
	LeftSibling string

	// RightSibling is the id of the node with the same parent immediately
	// to the right, if any.
	RightSibling string

	// Parent is the id of the parent node, if any.
	Parent string

	// FirstChild is the id of the leftmost child, if any.
	FirstChild string
}

// node is the internal computation record for one Family. The tree store
// owns all nodes exclusively; every cross-reference is an id resolved
// through the store, never a pointer held across runs.
type node struct {
	Family

	// prelim is the preliminary x-coordinate relative to the node's own
	// subtree, assigned during the first walk.
	prelim float64

	// modifier is the x-shift to apply to all descendants, accumulated
	// during the first walk and apportionment, then summed top-down as the
	// second walk descends.
	modifier float64

	// leftNeighbor is the id of the nearest node positioned earlier at the
	// same depth, regardless of parentage. Empty until the first walk
	// reaches the node.
	leftNeighbor string

	// point holds the final coordinates, populated by the second walk.
	// The root's point may be pre-seeded to anchor the whole layout.
	point Point
}

// hasChild reports whether the node is internal. Populate guarantees that
// internal nodes carry a first child id.
func (n *node) hasChild() bool { return !n.IsLeaf }

func (n *node) String() string {
	return fmt.Sprintf("id: %s, left_neighbor: %s, point: %v, prelim: %v, modifier: %v",
		n.ID, n.leftNeighbor, n.point, n.prelim, n.modifier)
}
