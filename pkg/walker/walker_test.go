package walker

import (
	"strings"
	"testing"

	"github.com/sudotliu/bonsai/pkg/errors"
)

func testConfig() Config {
	return Config{
		SiblingSeparation: 4,
		SubtreeSeparation: 4,
		LevelSeparation:   1,
		MaxDepth:          25,
		NodeSize:          2,
	}
}

func TestNew(t *testing.T) {
	if _, err := New(testConfig()); err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err := New(Config{SiblingSeparation: -1})
	if errors.GetCode(err) != errors.ErrCodeInvalidConfiguration {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfiguration)
	}
}

func TestPopulate(t *testing.T) {
	tests := []struct {
		name     string
		families []Family
		wantErr  string
	}{
		{
			name:     "SingleNode",
			families: []Family{{ID: "a", IsLeaf: true}},
		},
		{
			name: "ParentWithTwoChildren",
			families: []Family{
				{ID: "r", FirstChild: "a"},
				{ID: "a", IsLeaf: true, Parent: "r", RightSibling: "b"},
				{ID: "b", IsLeaf: true, Parent: "r", LeftSibling: "a"},
			},
		},
		{
			name:     "EmptyID",
			families: []Family{{ID: "", IsLeaf: true}},
			wantErr:  "must not be empty",
		},
		{
			name: "DuplicateID",
			families: []Family{
				{ID: "a", IsLeaf: true},
				{ID: "a", IsLeaf: true},
			},
			wantErr: "duplicate node ID",
		},
		{
			name: "TwoRoots",
			families: []Family{
				{ID: "a", IsLeaf: true},
				{ID: "b", IsLeaf: true},
			},
			wantErr: "invalid number of nodes with no parent",
		},
		{
			name: "NoRoot",
			families: []Family{
				{ID: "a", IsLeaf: true, Parent: "b"},
				{ID: "b", FirstChild: "a", Parent: "a"},
			},
			wantErr: "invalid number of nodes with no parent",
		},
		{
			name: "LeafWithChild",
			families: []Family{
				{ID: "r", IsLeaf: true, FirstChild: "a"},
				{ID: "a", IsLeaf: true, Parent: "r"},
			},
			wantErr: "leaf node cannot also have a child",
		},
		{
			name: "InteriorWithoutChild",
			families: []Family{
				{ID: "r", FirstChild: "a"},
				{ID: "a", Parent: "r"},
			},
			wantErr: "parent node must have a child",
		},
		{
			name: "UnknownParent",
			families: []Family{
				{ID: "a", IsLeaf: true, Parent: "ghost"},
			},
			wantErr: "parent ID not in tree",
		},
		{
			name: "UnknownFirstChild",
			families: []Family{
				{ID: "r", FirstChild: "ghost"},
			},
			wantErr: "first child ID not in tree",
		},
		{
			name: "AsymmetricSiblings",
			families: []Family{
				{ID: "r", FirstChild: "a"},
				{ID: "a", IsLeaf: true, Parent: "r", RightSibling: "b"},
				{ID: "b", IsLeaf: true, Parent: "r"},
			},
			wantErr: "right sibling discrepancy",
		},
		{
			// The link check on r fires before root counting ever runs.
			name: "FirstChildDisowned",
			families: []Family{
				{ID: "r", FirstChild: "a"},
				{ID: "a", IsLeaf: true},
			},
			wantErr: "first child discrepancy: r",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := New(testConfig())
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			err = tree.Populate(tt.families)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Populate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Populate: expected error, got nil")
			}
			if errors.GetCode(err) != errors.ErrCodeInvalidTree {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidTree)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPopulateReplacesPreviousTree(t *testing.T) {
	tree, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tree.Populate([]Family{{ID: "old", IsLeaf: true}}); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if err := tree.Populate([]Family{{ID: "new", IsLeaf: true}}); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	if _, err := tree.Position("old"); errors.GetCode(err) != errors.ErrCodeNodeNotFound {
		t.Errorf("Position(old) code = %v, want %v", errors.GetCode(err), errors.ErrCodeNodeNotFound)
	}
	root, err := tree.RootID()
	if err != nil {
		t.Fatalf("RootID: %v", err)
	}
	if root != "new" {
		t.Errorf("RootID = %q, want new", root)
	}
}

func TestRootID(t *testing.T) {
	tree, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := tree.RootID(); errors.GetCode(err) != errors.ErrCodeUnidentifiedRoot {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnidentifiedRoot)
	}

	if err := tree.Populate([]Family{{ID: "solo", IsLeaf: true}}); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	root, err := tree.RootID()
	if err != nil {
		t.Fatalf("RootID: %v", err)
	}
	if root != "solo" {
		t.Errorf("RootID = %q, want solo", root)
	}
}

func TestNodeIDsSorted(t *testing.T) {
	tree, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	families := []Family{
		{ID: "r", FirstChild: "c"},
		{ID: "c", IsLeaf: true, Parent: "r", RightSibling: "a"},
		{ID: "a", IsLeaf: true, Parent: "r", LeftSibling: "c", RightSibling: "b"},
		{ID: "b", IsLeaf: true, Parent: "r", LeftSibling: "a"},
	}
	if err := tree.Populate(families); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	got := tree.NodeIDs()
	want := []string{"a", "b", "c", "r"}
	if len(got) != len(want) {
		t.Fatalf("NodeIDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NodeIDs = %v, want %v", got, want)
		}
	}
}

func TestPositionErrors(t *testing.T) {
	tree, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := tree.Position("a"); errors.GetCode(err) != errors.ErrCodeInvalidTree {
		t.Errorf("empty tree code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidTree)
	}

	if err := tree.Populate([]Family{{ID: "a", IsLeaf: true}}); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if _, err := tree.Position("missing"); errors.GetCode(err) != errors.ErrCodeNodeNotFound {
		t.Errorf("unknown node code = %v, want %v", errors.GetCode(err), errors.ErrCodeNodeNotFound)
	}
	if err := tree.SetPosition("missing", Point{}); errors.GetCode(err) != errors.ErrCodeNodeNotFound {
		t.Errorf("SetPosition code = %v, want %v", errors.GetCode(err), errors.ErrCodeNodeNotFound)
	}
}

func TestPositionTreeEmpty(t *testing.T) {
	tree, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tree.PositionTree(); errors.GetCode(err) != errors.ErrCodeInvalidTree {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidTree)
	}
}
