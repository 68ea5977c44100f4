package walker

import (
	"fmt"
	"math"
	"strings"

	"github.com/sudotliu/bonsai/pkg/errors"
)

// Config holds the spacing parameters for a positioning run.
// All distances are in abstract drawing units; callers typically treat them
// as pixels.
//
// The four coordinate bounds are optional: leaving a Min/Max pair at its
// zero value leaves that axis unbounded. When set, every computed
// coordinate is checked against the bounds during the final walk and a
// violation aborts the run with OUT_OF_COORDINATE_RANGE.
type Config struct {
	// SiblingSeparation is the minimum distance between adjacent siblings.
	SiblingSeparation float64

	// SubtreeSeparation is the minimum distance between adjacent subtrees.
	// For proper aesthetics this is normally somewhat larger than
	// SiblingSeparation.
	SubtreeSeparation float64

	// LevelSeparation is the fixed distance between adjacent levels,
	// used for the y-coordinate of every node.
	LevelSeparation float64

	// MaxDepth is the deepest level the first walk will descend to for
	// overlap repair; nodes at exactly this level are positioned as if they
	// were leaves. The second walk treats any level beyond MaxDepth as a
	// hard error. Set it comfortably above the tree height to position all
	// levels.
	MaxDepth int

	// NodeSize is the uniform width of a node. Trees with per-node sizes
	// are not modeled.
	NodeSize float64

	// MinX, MaxX, MinY, MaxY bound the coordinate plane. A pair left at
	// zero means that axis is unbounded. Setting one side of a pair makes
	// the other side an explicit bound at zero; for a one-sided bound set
	// the open side to math.Inf.
	MinX, MaxX float64
	MinY, MaxY float64
}

// Validate checks the configuration and returns an INVALID_CONFIGURATION
// error naming every offending field, or nil. It is called once by New;
// a Config never changes after that.
func (c Config) Validate() error {
	var invalid []string
	if c.SiblingSeparation < 0 {
		invalid = append(invalid, fmt.Sprintf("sibling_separation=%v", c.SiblingSeparation))
	}
	if c.SubtreeSeparation < 0 {
		invalid = append(invalid, fmt.Sprintf("subtree_separation=%v", c.SubtreeSeparation))
	}
	if c.LevelSeparation < 0 {
		invalid = append(invalid, fmt.Sprintf("level_separation=%v", c.LevelSeparation))
	}
	if c.MaxDepth < 0 {
		invalid = append(invalid, fmt.Sprintf("max_depth=%d", c.MaxDepth))
	}
	if c.NodeSize < 0 {
		invalid = append(invalid, fmt.Sprintf("node_size=%v", c.NodeSize))
	}
	minX, maxX := c.boundsX()
	if minX >= maxX {
		invalid = append(invalid, fmt.Sprintf("min_x=%v, max_x=%v", c.MinX, c.MaxX))
	}
	minY, maxY := c.boundsY()
	if minY >= maxY {
		invalid = append(invalid, fmt.Sprintf("min_y=%v, max_y=%v", c.MinY, c.MaxY))
	}
	if len(invalid) > 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "invalid values: %s", strings.Join(invalid, "; "))
	}
	return nil
}

// boundsX returns the effective x bounds, substituting ±Inf for an unset pair.
func (c Config) boundsX() (min, max float64) {
	if c.MinX == 0 && c.MaxX == 0 {
		return math.Inf(-1), math.Inf(1)
	}
	return c.MinX, c.MaxX
}

// boundsY returns the effective y bounds, substituting ±Inf for an unset pair.
func (c Config) boundsY() (min, max float64) {
	if c.MinY == 0 && c.MaxY == 0 {
		return math.Inf(-1), math.Inf(1)
	}
	return c.MinY, c.MaxY
}

// checkRange verifies that a computed coordinate pair lies inside the
// configured bounds. Out-of-range coordinates abort the run rather than
// being clamped.
func (c Config) checkRange(id string, x, y float64) error {
	if minX, maxX := c.boundsX(); x < minX || x > maxX {
		return errors.New(errors.ErrCodeOutOfRange,
			"node %s: x=%v is beyond configured range [%v, %v]", id, x, minX, maxX)
	}
	if minY, maxY := c.boundsY(); y < minY || y > maxY {
		return errors.New(errors.ErrCodeOutOfRange,
			"node %s: y=%v is beyond configured range [%v, %v]", id, y, minY, maxY)
	}
	return nil
}
