package bonsai_test

import (
	"fmt"

	"github.com/sudotliu/bonsai/pkg/bonsai"
	"github.com/sudotliu/bonsai/pkg/walker"
)

func Example() {
	tree, err := bonsai.New(map[string][]bonsai.Node{
		"root": {{ID: "left"}, {ID: "right", Pos: walker.Point{X: 1}}},
	}, bonsai.DefaultConfig())
	if err != nil {
		panic(err)
	}

	if err := tree.AddLeaf("child", "left"); err != nil {
		panic(err)
	}

	for _, n := range tree.Nodes() {
		fmt.Printf("%s: (%g, %g) leaf=%v\n", n.ID, n.Pos.X, n.Pos.Y, n.Leaf)
	}
	// Output:
	// child: (-150, 550) leaf=true
	// left: (-150, 275) leaf=false
	// right: (150, 275) leaf=true
	// root: (0, 0) leaf=false
}
