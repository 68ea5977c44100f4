package walker

// levelTracker records, per depth, the id of the most recently visited node
// during the first walk. It is the sole source of "left neighbor"
// information: depth-relative, not parent-relative, which is what lets the
// apportion step detect overlap between subtrees rooted at different
// parents.
//
// The original algorithm keeps a hand-rolled linked list of levels; a
// lazily-extended slice has identical semantics.
type levelTracker struct {
	previous []string // index = level, value = id of last node seen ("" = none yet)
}

// reset clears all levels. Called at the start of every first walk.
func (lt *levelTracker) reset() {
	lt.previous = lt.previous[:0]
}

// prevNode returns the id of the last node recorded at level, or "" if no
// node has been seen there yet.
func (lt *levelTracker) prevNode(level int) string {
	if level < 0 || level >= len(lt.previous) {
		return ""
	}
	return lt.previous[level]
}

// setPrevNode records id as the most recent node visited at level,
// extending the tracker with empty levels as needed.
func (lt *levelTracker) setPrevNode(level int, id string) {
	for len(lt.previous) <= level {
		lt.previous = append(lt.previous, "")
	}
	lt.previous[level] = id
}
