// Package walker computes 2-D coordinates for every node of an ordered,
// rooted tree so the tree can be drawn without subtree overlaps.
//
// The implementation follows John Q. Walker II's node-positioning algorithm
// for general trees (UNC technical report 89-034), with corrections for two
// errata in the published pseudocode: the apportionment loop must decrement
// the move distance by one portion per intervening sibling, and the left
// neighbor must be recomputed each time the comparison descends a level so
// that both sides of the comparison stay at the same depth.
//
// # Usage
//
// Build a tree from family descriptors, position it, and read coordinates:
//
//	t, err := walker.New(walker.Config{
//	    SiblingSeparation: 4,
//	    SubtreeSeparation: 4,
//	    LevelSeparation:   1,
//	    MaxDepth:          100,
//	    NodeSize:          2,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := t.Populate(families); err != nil {
//	    return err
//	}
//	if err := t.PositionTree(); err != nil {
//	    return err
//	}
//	p, err := t.Position("A")
//
// The two walks run in postorder (preliminary coordinates plus overlap
// repair) and preorder (final coordinates). A node's "left neighbor" is the
// nearest node positioned earlier at the same depth anywhere in the tree,
// not necessarily a sibling; that is what lets the overlap repair detect
// collisions between subtrees rooted at different parents.
//
// A Tree instance is not safe for concurrent use. Repositioning after a
// structural edit means rebuilding: populate a fresh instance and run again
// (see the bonsai package for a façade that does exactly that).
package walker
