package walker_test

import (
	"fmt"

	"github.com/sudotliu/bonsai/pkg/walker"
)

func Example() {
	tree, err := walker.New(walker.Config{
		SiblingSeparation: 4,
		SubtreeSeparation: 4,
		LevelSeparation:   1,
		MaxDepth:          10,
		NodeSize:          2,
	})
	if err != nil {
		panic(err)
	}

	families := []walker.Family{
		{ID: "root", FirstChild: "left"},
		{ID: "left", IsLeaf: true, Parent: "root", RightSibling: "right"},
		{ID: "right", IsLeaf: true, Parent: "root", LeftSibling: "left"},
	}
	if err := tree.Populate(families); err != nil {
		panic(err)
	}
	if err := tree.PositionTree(); err != nil {
		panic(err)
	}

	for _, id := range tree.NodeIDs() {
		p, _ := tree.Position(id)
		fmt.Printf("%s: (%g, %g)\n", id, p.X, p.Y)
	}
	// Output:
	// left: (-3, 1)
	// right: (3, 1)
	// root: (0, 0)
}
