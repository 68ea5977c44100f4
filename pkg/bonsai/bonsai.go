// Package bonsai is the high-level editing façade over the positioning
// engine. It models the tree the way callers tend to hold it, as a map from
// parent id to ordered children, and re-derives the sibling and first-child
// links the engine needs on every layout run.
//
// Editing is rebuild-based: AddLeaf and Prune mutate the adjacency map and
// then rebuild and reposition the whole tree. Child order is preserved across
// rebuilds by sorting each sibling group on its previous x-coordinate.
package bonsai

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/sudotliu/bonsai/pkg/errors"
	"github.com/sudotliu/bonsai/pkg/walker"
)

// Node is the unit of the tree, used for both input and output.
//
// Pos is centered: zero x is the middle of the layout with negative values
// to the left, and y is inverted so zero is the top of the tree and positive
// values go down. On input only the x-coordinate matters, and only for the
// ordering of siblings; everything is recomputed on layout.
type Node struct {
	ID   string       `json:"id"`
	Pos  walker.Point `json:"pos"`
	Leaf bool         `json:"is_leaf"`
}

// DefaultConfig returns the spacing defaults, sized in pixels for rendering
// the tree in a web application.
func DefaultConfig() walker.Config {
	return walker.Config{
		SiblingSeparation: 50,
		SubtreeSeparation: 100,
		LevelSeparation:   275,
		MaxDepth:          100,
		NodeSize:          250,
	}
}

// Tree is a positioned, editable tree. All methods must be serialized by the
// caller; a Tree is never valid and unpositioned at the same time.
type Tree struct {
	children map[string][]Node
	cfg      walker.Config
	logger   *log.Logger
	engine   *walker.Tree
	rootID   string
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger attaches a logger, which is also passed through to the
// underlying positioning engine.
func WithLogger(l *log.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// New builds a tree from a parent-to-children adjacency map and positions
// it. The map must describe exactly one root: a parent id that never appears
// as a child. A nil or empty map is an INVALID_TREE error.
func New(tree map[string][]Node, cfg walker.Config, opts ...Option) (*Tree, error) {
	if len(tree) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTree, "no nodes found")
	}

	t := &Tree{
		children: make(map[string][]Node, len(tree)),
		cfg:      cfg,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	for id, children := range tree {
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidTree, "node ID must not be empty")
		}
		t.children[id] = append([]Node(nil), children...)
	}

	if err := t.reposition(); err != nil {
		return nil, err
	}
	return t, nil
}

// RootID returns the id of the root node.
func (t *Tree) RootID() string { return t.rootID }

// Config returns the spacing configuration the tree was built with.
func (t *Tree) Config() walker.Config { return t.cfg }

// Nodes returns every node with its current position, sorted by id.
func (t *Tree) Nodes() []Node {
	ids := t.nodeIDs()
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		pos, err := t.engine.Position(id)
		if err != nil {
			// Every id returned by nodeIDs was populated into the engine.
			continue
		}
		// Child count, not key presence: the root keeps its adjacency entry
		// even when childless.
		nodes = append(nodes, Node{ID: id, Pos: pos, Leaf: len(t.children[id]) == 0})
	}
	return nodes
}

// Position returns the current position of a single node.
func (t *Tree) Position(id string) (walker.Point, error) {
	return t.engine.Position(id)
}

// Adjacency returns a copy of the parent-to-children structure with current
// positions, children in on-screen order. Mutating the copy does not affect
// the tree.
func (t *Tree) Adjacency() map[string][]Node {
	out := make(map[string][]Node, len(t.children))
	for id, group := range t.children {
		out[id] = append([]Node(nil), group...)
	}
	return out
}

// AddLeaf attaches a new leaf node under the given parent and repositions
// the tree. The new leaf always lands to the right of its existing siblings.
func (t *Tree) AddLeaf(nodeID, parentID string) error {
	if nodeID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "node ID must not be empty")
	}
	if t.contains(nodeID) {
		return errors.New(errors.ErrCodeInvalidInput, "node already exists in tree: %s", nodeID)
	}
	if !t.contains(parentID) {
		return errors.New(errors.ErrCodeNodeNotFound, "parent node ID: %s", parentID)
	}

	// Seed the x-coordinate past the rightmost sibling so the ordering sort
	// places the new leaf last.
	rightmostX := 0.0
	for _, sibling := range t.children[parentID] {
		if sibling.Pos.X > rightmostX {
			rightmostX = sibling.Pos.X
		}
	}
	t.children[parentID] = append(t.children[parentID], Node{
		ID:   nodeID,
		Pos:  walker.Point{X: rightmostX + 1},
		Leaf: true,
	})

	return t.reposition()
}

// Prune removes a node and its entire subtree, then repositions what is
// left. The root cannot be pruned; an empty tree has no valid use.
func (t *Tree) Prune(nodeID, parentID string) error {
	if nodeID == t.rootID {
		return errors.New(errors.ErrCodeInvalidInput, "cannot prune the root node: %s", nodeID)
	}
	if !t.isChildOf(nodeID, parentID) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %s under parent %s", nodeID, parentID)
	}

	// Delete the subtree breadth-first so every adjacency entry is removed.
	queue := []string{nodeID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range t.children[id] {
			queue = append(queue, child.ID)
		}
		delete(t.children, id)
	}
	t.removeChild(nodeID, parentID)

	// A parent left childless is a leaf again and drops out of the adjacency
	// map, except the root, which must stay so the tree is never empty.
	if len(t.children[parentID]) == 0 && parentID != t.rootID {
		delete(t.children, parentID)
	}

	return t.reposition()
}

// reposition rebuilds the positioning engine from the adjacency map, runs a
// full layout, and writes the fresh coordinates back onto the stored nodes.
func (t *Tree) reposition() error {
	rootID, err := t.findRoot()
	if err != nil {
		return err
	}
	t.rootID = rootID

	// Keep each sibling group in its on-screen order.
	for id := range t.children {
		group := t.children[id]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Pos.X < group[j].Pos.X })
	}

	families := t.families(rootID)

	engine, err := walker.New(t.cfg, walker.WithLogger(t.logger))
	if err != nil {
		return err
	}
	if err := engine.Populate(families); err != nil {
		return err
	}
	if err := engine.PositionTree(); err != nil {
		return err
	}
	t.engine = engine

	// Sync positions back so future ordering decisions use real coordinates.
	for id, group := range t.children {
		for i := range group {
			pos, err := engine.Position(group[i].ID)
			if err != nil {
				return err
			}
			group[i].Pos = pos
		}
		t.children[id] = group
	}
	return nil
}

// families flattens the adjacency map into the engine's per-node relation
// records.
func (t *Tree) families(rootID string) []walker.Family {
	families := []walker.Family{{
		ID:         rootID,
		IsLeaf:     len(t.children[rootID]) == 0,
		FirstChild: firstChildID(t.children[rootID]),
	}}
	for parentID, group := range t.children {
		for i, child := range group {
			f := walker.Family{
				ID:         child.ID,
				IsLeaf:     len(t.children[child.ID]) == 0,
				Parent:     parentID,
				FirstChild: firstChildID(t.children[child.ID]),
			}
			if i > 0 {
				f.LeftSibling = group[i-1].ID
			}
			if i < len(group)-1 {
				f.RightSibling = group[i+1].ID
			}
			families = append(families, f)
		}
	}
	return families
}

func firstChildID(group []Node) string {
	if len(group) == 0 {
		return ""
	}
	return group[0].ID
}

// findRoot identifies the single parent id that never appears as a child.
func (t *Tree) findRoot() (string, error) {
	childIDs := make(map[string]struct{})
	for _, group := range t.children {
		for _, child := range group {
			childIDs[child.ID] = struct{}{}
		}
	}

	var rootIDs []string
	for id := range t.children {
		if _, ok := childIDs[id]; !ok {
			rootIDs = append(rootIDs, id)
		}
	}

	switch len(rootIDs) {
	case 1:
		return rootIDs[0], nil
	case 0:
		return "", errors.New(errors.ErrCodeInvalidTree, "no root node found")
	default:
		sort.Strings(rootIDs)
		return "", errors.New(errors.ErrCodeInvalidTree, "multiple root nodes found: %v", rootIDs)
	}
}

// nodeIDs returns every node id in the tree, sorted.
func (t *Tree) nodeIDs() []string {
	seen := map[string]struct{}{t.rootID: {}}
	for _, group := range t.children {
		for _, child := range group {
			seen[child.ID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (t *Tree) contains(id string) bool {
	if id == t.rootID {
		return true
	}
	if _, ok := t.children[id]; ok {
		return true
	}
	for _, group := range t.children {
		for _, child := range group {
			if child.ID == id {
				return true
			}
		}
	}
	return false
}

func (t *Tree) isChildOf(nodeID, parentID string) bool {
	for _, child := range t.children[parentID] {
		if child.ID == nodeID {
			return true
		}
	}
	return false
}

func (t *Tree) removeChild(nodeID, parentID string) {
	group := t.children[parentID]
	kept := group[:0]
	for _, child := range group {
		if child.ID != nodeID {
			kept = append(kept, child)
		}
	}
	t.children[parentID] = kept
}
