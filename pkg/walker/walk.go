package walker

import (
	"github.com/sudotliu/bonsai/pkg/errors"
)

// firstWalk assigns preliminary x-coordinates and modifiers in a postorder
// traversal. Leaves (and nodes at MaxDepth, treated as leaves) are placed
// relative to their left sibling; interior nodes are centered over their
// children and then shifted right via apportion whenever that centering
// would collide with subtrees already placed to the left.
func (t *Tree) firstWalk(n *node, level int) error {
	n.leftNeighbor = t.levels.prevNode(level)
	t.levels.setPrevNode(level, n.ID)
	n.modifier = 0

	if n.IsLeaf || level == t.cfg.MaxDepth {
		left, err := t.node(n.LeftSibling)
		if err != nil {
			return err
		}
		if left != nil {
			n.prelim = left.prelim + t.cfg.SiblingSeparation + t.cfg.NodeSize
		} else {
			n.prelim = 0
		}
		t.logger.Debugf("first walk, leaf: %s", n)
		return nil
	}

	// Position each child subtree, left to right.
	first, err := t.node(n.FirstChild)
	if err != nil {
		return err
	}
	rightmost := first
	if err := t.firstWalk(rightmost, level+1); err != nil {
		return err
	}
	for rightmost.RightSibling != "" {
		next, err := t.node(rightmost.RightSibling)
		if err != nil {
			return err
		}
		rightmost = next
		if err := t.firstWalk(rightmost, level+1); err != nil {
			return err
		}
	}

	midpoint := (first.prelim + rightmost.prelim) / 2

	left, err := t.node(n.LeftSibling)
	if err != nil {
		return err
	}
	if left != nil {
		n.prelim = left.prelim + t.cfg.SiblingSeparation + t.cfg.NodeSize
		n.modifier = n.prelim - midpoint
		if err := t.apportion(n, level); err != nil {
			return err
		}
	} else {
		n.prelim = midpoint
	}
	t.logger.Debugf("first walk, interior: %s", n)
	return nil
}

// apportion resolves overlaps between the subtree rooted at n and the
// subtrees to its left. It descends one level at a time, comparing the
// leftmost descendant of n against that descendant's left neighbor; when
// they sit too close, the whole subtree is pushed right and the slack is
// shared among the intervening siblings, each receiving one portion less
// than the sibling to its right.
func (t *Tree) apportion(n *node, level int) error {
	leftMost, err := t.node(n.FirstChild)
	if err != nil {
		return err
	}
	var neighbor *node
	if leftMost != nil {
		neighbor, err = t.node(leftMost.leftNeighbor)
		if err != nil {
			return err
		}
	}

	compareDepth := 1
	depthToStop := t.cfg.MaxDepth - level

	for leftMost != nil && neighbor != nil && compareDepth <= depthToStop {
		// Sum the modifiers along both ancestor chains up to n's level.
		leftModSum := 0.0
		rightModSum := 0.0
		ancestorLeftmost := leftMost
		ancestorNeighbor := neighbor
		for i := 0; i < compareDepth; i++ {
			ancestorLeftmost, err = t.node(ancestorLeftmost.Parent)
			if err != nil {
				return err
			}
			ancestorNeighbor, err = t.node(ancestorNeighbor.Parent)
			if err != nil {
				return err
			}
			if ancestorLeftmost == nil || ancestorNeighbor == nil {
				return errors.New(errors.ErrCodeInvalidTree,
					"broken ancestor chain at node: %s", n.ID)
			}
			rightModSum += ancestorLeftmost.modifier
			leftModSum += ancestorNeighbor.modifier
		}

		moveDistance := neighbor.prelim + leftModSum + t.cfg.SubtreeSeparation +
			t.cfg.NodeSize - (leftMost.prelim + rightModSum)
		t.logger.Debugf("apportion: node=%s, depth=%d, move=%v", n.ID, compareDepth, moveDistance)

		if moveDistance > 0 {
			// Count the siblings between n and the subtree it collided with.
			tmp := n
			numSiblings := 0
			for tmp != nil && tmp != ancestorNeighbor {
				numSiblings++
				tmp, err = t.node(tmp.LeftSibling)
				if err != nil {
					return err
				}
			}
			if tmp == nil {
				// The colliding subtree hangs off a different parent; an
				// ancestor closer to the root will resolve it.
				return nil
			}

			portion := moveDistance / float64(numSiblings)
			tmp = n
			for tmp != ancestorNeighbor {
				t.logger.Debugf("apportion: shifting %s by %v", tmp.ID, moveDistance)
				tmp.prelim += moveDistance
				tmp.modifier += moveDistance
				moveDistance -= portion
				tmp, err = t.node(tmp.LeftSibling)
				if err != nil {
					return err
				}
			}
		}

		// Descend to the next level of comparison.
		compareDepth++
		if leftMost.IsLeaf {
			leftMost, err = t.leftmost(n, 0, compareDepth)
		} else {
			leftMost, err = t.node(leftMost.FirstChild)
		}
		if err != nil {
			return err
		}
		if leftMost != nil {
			// The neighbor must be recomputed at the new depth so both sides
			// of the comparison sit on the same level.
			neighbor, err = t.node(leftMost.leftNeighbor)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// leftmost returns the leftmost descendant of n at the given depth below it,
// or nil if the subtree is not that deep.
func (t *Tree) leftmost(n *node, level, depth int) (*node, error) {
	if level >= depth {
		return n, nil
	}
	if n.IsLeaf {
		return nil, nil
	}
	rightmost, err := t.node(n.FirstChild)
	if err != nil {
		return nil, err
	}
	leftMost, err := t.leftmost(rightmost, level+1, depth)
	if err != nil {
		return nil, err
	}
	for leftMost == nil && rightmost.RightSibling != "" {
		rightmost, err = t.node(rightmost.RightSibling)
		if err != nil {
			return nil, err
		}
		leftMost, err = t.leftmost(rightmost, level+1, depth)
		if err != nil {
			return nil, err
		}
	}
	return leftMost, nil
}

// secondWalk converts preliminary coordinates into final points in a
// preorder traversal, threading the accumulated modifier sum down each
// branch. Descending below MaxDepth is a hard failure here, unlike the
// first walk which quietly flattens anything at that depth.
func (t *Tree) secondWalk(n *node, level int, modSum float64) error {
	if level > t.cfg.MaxDepth {
		return errors.New(errors.ErrCodeMaxDepthExceeded,
			"level %d exceeds max depth %d at node: %s", level, t.cfg.MaxDepth, n.ID)
	}

	x := t.xTopAdjustment + n.prelim + modSum
	y := t.yTopAdjustment + float64(level)*t.cfg.LevelSeparation
	if err := t.cfg.checkRange(n.ID, x, y); err != nil {
		return err
	}
	n.point = Point{X: x, Y: y}
	t.logger.Debugf("second walk: %s", n)

	if n.hasChild() {
		child, err := t.node(n.FirstChild)
		if err != nil {
			return err
		}
		if err := t.secondWalk(child, level+1, modSum+n.modifier); err != nil {
			return err
		}
	}
	if n.RightSibling != "" {
		sibling, err := t.node(n.RightSibling)
		if err != nil {
			return err
		}
		if err := t.secondWalk(sibling, level, modSum); err != nil {
			return err
		}
	}
	return nil
}
