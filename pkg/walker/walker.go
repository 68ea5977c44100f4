package walker

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/sudotliu/bonsai/pkg/errors"
)

// Tree is the positioning engine: a store of computation nodes plus the
// bookkeeping for one postorder/preorder positioning run.
//
// A Tree is single-threaded and owns its nodes exclusively. Callers that
// need to reposition after a structural edit rebuild: create a new Tree (or
// Populate again) and run PositionTree once more. Concurrent calls on the
// same instance must be serialized by the caller.
type Tree struct {
	cfg    Config
	logger *log.Logger

	nodes  map[string]*node
	rootID string
	levels levelTracker

	// Fixed adjustments applied during the second walk so the whole layout
	// is absolute with respect to the root's (possibly pre-seeded) point.
	xTopAdjustment float64
	yTopAdjustment float64
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger attaches a logger for debug tracing of both walks and the
// apportionment steps. Without it, tracing is discarded.
func WithLogger(l *log.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates an engine with an empty tree store.
// Returns an INVALID_CONFIGURATION error if cfg is invalid; a failed
// configuration is fatal to the instance.
func New(cfg Config, opts ...Option) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Tree{
		cfg:    cfg,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		nodes:  make(map[string]*node),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Config returns the configuration the engine was built with.
func (t *Tree) Config() Config { return t.cfg }

// Populate builds the id→node store from the given family descriptors and
// validates structural consistency: exactly one root, symmetric sibling
// links, symmetric parent/first-child links, resolvable references, and
// agreement between the leaf flag and the first-child relation.
//
// Populate replaces any previously stored nodes. Node positions are not
// updated until PositionTree is called.
func (t *Tree) Populate(families []Family) error {
	nodes := make(map[string]*node, len(families))
	for _, f := range families {
		if f.ID == "" {
			return errors.New(errors.ErrCodeInvalidTree, "node ID must not be empty")
		}
		if _, exists := nodes[f.ID]; exists {
			return errors.New(errors.ErrCodeInvalidTree, "duplicate node ID: %s", f.ID)
		}
		nodes[f.ID] = &node{Family: f}
	}
	rootID, err := validateTree(nodes)
	if err != nil {
		return err
	}
	t.nodes = nodes
	t.rootID = rootID
	return nil
}

// validateTree checks every invariant over the node set in a single pass and
// returns the discovered root id.
func validateTree(nodes map[string]*node) (string, error) {
	var rootIDs []string
	for id, n := range nodes {
		if n.IsLeaf && n.FirstChild != "" {
			return "", errors.New(errors.ErrCodeInvalidTree, "leaf node cannot also have a child: %s", id)
		}
		if !n.IsLeaf && n.FirstChild == "" {
			return "", errors.New(errors.ErrCodeInvalidTree, "parent node must have a child: %s", id)
		}
		if n.Parent == "" {
			rootIDs = append(rootIDs, id)
		}

		// All referenced ids must exist in the set.
		if n.Parent != "" {
			if _, ok := nodes[n.Parent]; !ok {
				return "", errors.New(errors.ErrCodeInvalidTree, "parent ID not in tree for node: %s", id)
			}
		}
		if n.LeftSibling != "" {
			if _, ok := nodes[n.LeftSibling]; !ok {
				return "", errors.New(errors.ErrCodeInvalidTree, "left sibling ID not in tree for node: %s", id)
			}
		}
		if n.RightSibling != "" {
			if _, ok := nodes[n.RightSibling]; !ok {
				return "", errors.New(errors.ErrCodeInvalidTree, "right sibling ID not in tree for node: %s", id)
			}
		}
		if n.FirstChild != "" {
			if _, ok := nodes[n.FirstChild]; !ok {
				return "", errors.New(errors.ErrCodeInvalidTree, "first child ID not in tree for node: %s", id)
			}
		}

		// Sibling links must be mutual.
		if n.LeftSibling != "" && nodes[n.LeftSibling].RightSibling != id {
			return "", errors.New(errors.ErrCodeInvalidTree, "left sibling discrepancy: %s", id)
		}
		if n.RightSibling != "" && nodes[n.RightSibling].LeftSibling != id {
			return "", errors.New(errors.ErrCodeInvalidTree, "right sibling discrepancy: %s", id)
		}

		// Parent/first-child links must be mutual.
		if n.FirstChild != "" && nodes[n.FirstChild].Parent != id {
			return "", errors.New(errors.ErrCodeInvalidTree, "first child discrepancy: %s", id)
		}
	}

	if len(rootIDs) != 1 {
		sort.Strings(rootIDs)
		return "", errors.New(errors.ErrCodeInvalidTree, "invalid number of nodes with no parent: %v", rootIDs)
	}
	return rootIDs[0], nil
}

// node resolves an id through the store. An empty id means "no such
// relation" and yields (nil, nil); an unknown id is a NODE_NOT_FOUND error.
func (t *Tree) node(id string) (*node, error) {
	if id == "" {
		return nil, nil
	}
	n, ok := t.nodes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node ID: %s", id)
	}
	return n, nil
}

// PositionTree determines the coordinates of every node in the store.
//
// The root's point is used as the anchor: pre-seed it with SetPosition to
// place the tree at an absolute location, otherwise the root lands at the
// origin and everything else is positioned relative to it.
//
// Any failure aborts the run and leaves the store in an unpositioned,
// unsafe-to-query state; there is no partial success.
func (t *Tree) PositionTree() error {
	if len(t.nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidTree, "empty tree; tree must be populated before positioning")
	}
	root, err := t.node(t.rootID)
	if err != nil {
		return err
	}
	if root == nil {
		return errors.New(errors.ErrCodeInvalidTree, "no root node found")
	}

	t.levels.reset()

	// Preliminary positioning, postorder.
	if err := t.firstWalk(root, 0); err != nil {
		return err
	}

	// Anchor all nodes with respect to the root.
	t.xTopAdjustment = root.point.X - root.prelim
	t.yTopAdjustment = root.point.Y
	t.logger.Debugf("adjustments: x_top=%v, y_top=%v", t.xTopAdjustment, t.yTopAdjustment)

	// Final positioning, preorder.
	return t.secondWalk(root, 0, 0)
}

// Position returns the point computed for the given node id. The value is
// only meaningful after PositionTree has completed successfully; callers
// that populate and query without positioning get the zero point.
func (t *Tree) Position(id string) (Point, error) {
	if len(t.nodes) == 0 {
		return Point{}, errors.New(errors.ErrCodeInvalidTree, "empty tree; tree must be populated before positioning")
	}
	n, err := t.node(id)
	if err != nil {
		return Point{}, err
	}
	if n == nil {
		return Point{}, errors.New(errors.ErrCodeNodeNotFound, "node ID: %s", id)
	}
	return n.point, nil
}

// SetPosition seeds a node's point before a run. Its only practical use is
// anchoring the root: PositionTree derives its adjustments from the root's
// point, so seeding any other node has no effect on the outcome.
func (t *Tree) SetPosition(id string, p Point) error {
	n, err := t.node(id)
	if err != nil {
		return err
	}
	if n == nil {
		return errors.New(errors.ErrCodeNodeNotFound, "node ID: %s", id)
	}
	n.point = p
	return nil
}

// RootID returns the id of the discovered root node, or an
// UNIDENTIFIED_ROOT error when the store is empty or not yet populated.
func (t *Tree) RootID() (string, error) {
	if t.rootID == "" {
		return "", errors.New(errors.ErrCodeUnidentifiedRoot, "root node has not been identified; populate the tree first")
	}
	return t.rootID, nil
}

// NodeIDs returns all node ids in the store, sorted for deterministic output.
func (t *Tree) NodeIDs() []string {
	ids := make([]string, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
