package treeio

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sudotliu/bonsai/pkg/bonsai"
	"github.com/sudotliu/bonsai/pkg/errors"
)

func sampleDocument() *Document {
	return &Document{Nodes: []DocNode{
		{ID: "root"},
		{ID: "a", Parent: "root"},
		{ID: "b", Parent: "root"},
		{ID: "c", Parent: "a"},
	}}
}

func TestReadDocument(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantErr   string
	}{
		{
			name:      "Valid",
			input:     `{"nodes": [{"id": "root"}, {"id": "a", "parent": "root"}]}`,
			wantNodes: 2,
		},
		{
			name:      "SingleNode",
			input:     `{"nodes": [{"id": "solo"}]}`,
			wantNodes: 1,
		},
		{
			name:    "MalformedJSON",
			input:   `{"nodes": [`,
			wantErr: "decode",
		},
		{
			name:    "NoNodes",
			input:   `{"nodes": []}`,
			wantErr: "no nodes",
		},
		{
			name:    "EmptyID",
			input:   `{"nodes": [{"id": ""}]}`,
			wantErr: "must not be empty",
		},
		{
			name:    "DuplicateID",
			input:   `{"nodes": [{"id": "a"}, {"id": "a"}]}`,
			wantErr: "duplicate node ID",
		},
		{
			name:    "UnknownParent",
			input:   `{"nodes": [{"id": "root"}, {"id": "a", "parent": "ghost"}]}`,
			wantErr: "unknown parent",
		},
		{
			name:    "MultipleRoots",
			input:   `{"nodes": [{"id": "a"}, {"id": "b"}]}`,
			wantErr: "exactly one root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ReadDocument(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("ReadDocument: expected error, got nil")
				}
				if errors.GetCode(err) != errors.ErrCodeInvalidDocument {
					t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidDocument)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadDocument: %v", err)
			}
			if len(doc.Nodes) != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", len(doc.Nodes), tt.wantNodes)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	if err := WriteDocument(doc, &buf); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	got, err := ReadDocument(&buf)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}

	if len(got.Nodes) != len(doc.Nodes) {
		t.Fatalf("nodes = %d, want %d", len(got.Nodes), len(doc.Nodes))
	}
	for i := range doc.Nodes {
		if got.Nodes[i] != doc.Nodes[i] {
			t.Errorf("node %d = %+v, want %+v", i, got.Nodes[i], doc.Nodes[i])
		}
	}
}

func TestImportExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")

	if err := ExportFile(sampleDocument(), path); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	doc, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if len(doc.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(doc.Nodes))
	}

	if _, err := ImportFile(filepath.Join(t.TempDir(), "missing.json")); !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("ImportFile on missing file: %v", err)
	}
}

func TestDocumentChildren(t *testing.T) {
	children := sampleDocument().Children()

	if len(children["root"]) != 2 {
		t.Fatalf("root children = %d, want 2", len(children["root"]))
	}
	if children["root"][0].ID != "a" || children["root"][1].ID != "b" {
		t.Errorf("root children = %+v, want a then b", children["root"])
	}
	if !(children["root"][0].Pos.X < children["root"][1].Pos.X) {
		t.Error("sibling order must be encoded in seeded x-coordinates")
	}
	if len(children["a"]) != 1 || children["a"][0].ID != "c" {
		t.Errorf("a children = %+v, want c", children["a"])
	}

	// The root key must exist even for a childless root.
	solo := (&Document{Nodes: []DocNode{{ID: "solo"}}}).Children()
	if _, ok := solo["solo"]; !ok {
		t.Error("childless root missing from adjacency")
	}
}

func TestFromTreeRoundTrip(t *testing.T) {
	doc := sampleDocument()
	tree, err := bonsai.New(doc.Children(), bonsai.DefaultConfig())
	if err != nil {
		t.Fatalf("bonsai.New: %v", err)
	}

	got := FromTree(tree)
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(got.Nodes) != len(doc.Nodes) {
		t.Fatalf("nodes = %d, want %d", len(got.Nodes), len(doc.Nodes))
	}

	parents := make(map[string]string)
	for _, n := range got.Nodes {
		parents[n.ID] = n.Parent
	}
	want := map[string]string{"root": "", "a": "root", "b": "root", "c": "a"}
	for id, parent := range want {
		if parents[id] != parent {
			t.Errorf("parent of %s = %q, want %q", id, parents[id], parent)
		}
	}
}

func TestLayoutFromNodes(t *testing.T) {
	doc := sampleDocument()
	tree, err := bonsai.New(doc.Children(), bonsai.DefaultConfig())
	if err != nil {
		t.Fatalf("bonsai.New: %v", err)
	}

	layout := LayoutFromNodes(tree.Nodes())
	if len(layout.Positions) != 4 {
		t.Fatalf("positions = %d, want 4", len(layout.Positions))
	}
	for i := 1; i < len(layout.Positions); i++ {
		if layout.Positions[i-1].ID >= layout.Positions[i].ID {
			t.Fatalf("positions not sorted by id: %+v", layout.Positions)
		}
	}

	var buf bytes.Buffer
	if err := WriteLayout(layout, &buf); err != nil {
		t.Fatalf("WriteLayout: %v", err)
	}
	got, err := ReadLayout(&buf)
	if err != nil {
		t.Fatalf("ReadLayout: %v", err)
	}
	if len(got.Positions) != len(layout.Positions) {
		t.Errorf("round trip positions = %d, want %d", len(got.Positions), len(layout.Positions))
	}
}
