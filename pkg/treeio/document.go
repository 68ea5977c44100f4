package treeio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sudotliu/bonsai/pkg/bonsai"
	"github.com/sudotliu/bonsai/pkg/errors"
	"github.com/sudotliu/bonsai/pkg/walker"
)

// Document is the serialized form of a tree: every node with the id of its
// parent. Sibling order is array order.
type Document struct {
	Nodes []DocNode `json:"nodes"`
}

// DocNode is one node of a tree document. The root has no parent.
type DocNode struct {
	ID     string `json:"id"`
	Parent string `json:"parent,omitempty"`
}

// Validate checks the document shape: at least one node, unique non-empty
// ids, parents that resolve, and exactly one root.
func (d *Document) Validate() error {
	if len(d.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "document has no nodes")
	}

	ids := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidDocument, "node ID must not be empty")
		}
		if _, dup := ids[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidDocument, "duplicate node ID: %s", n.ID)
		}
		ids[n.ID] = struct{}{}
	}

	roots := 0
	for _, n := range d.Nodes {
		if n.Parent == "" {
			roots++
			continue
		}
		if _, ok := ids[n.Parent]; !ok {
			return errors.New(errors.ErrCodeInvalidDocument, "node %s references unknown parent: %s", n.ID, n.Parent)
		}
	}
	if roots != 1 {
		return errors.New(errors.ErrCodeInvalidDocument, "document must have exactly one root, found %d", roots)
	}
	return nil
}

// Children converts the document into the parent-to-children adjacency the
// editing façade consumes, preserving sibling order via seeded x-coordinates.
// The root always appears as a key, even when it has no children.
func (d *Document) Children() map[string][]bonsai.Node {
	out := make(map[string][]bonsai.Node)
	for _, n := range d.Nodes {
		if n.Parent == "" {
			if _, ok := out[n.ID]; !ok {
				out[n.ID] = nil
			}
			continue
		}
		out[n.Parent] = append(out[n.Parent], bonsai.Node{
			ID:  n.ID,
			Pos: walker.Point{X: float64(len(out[n.Parent]))},
		})
	}
	return out
}

// FromTree serializes an editable tree back into document form, walking the
// adjacency from the root so children keep their on-screen order.
func FromTree(t *bonsai.Tree) *Document {
	adjacency := t.Adjacency()
	doc := &Document{Nodes: []DocNode{{ID: t.RootID()}}}

	queue := []string{t.RootID()}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, child := range adjacency[parent] {
			doc.Nodes = append(doc.Nodes, DocNode{ID: child.ID, Parent: parent})
			queue = append(queue, child.ID)
		}
	}
	return doc
}

// ReadDocument decodes and validates a tree document from r.
// The returned document is independent of r; ReadDocument does not close r.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ImportFile reads and validates a tree document from the file at path.
func ImportFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// WriteDocument encodes a document as indented JSON and writes it to w.
// The output can be re-imported with [ReadDocument] for round-trip editing.
func WriteDocument(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes a document to a JSON file at path.
func ExportFile(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(d, f)
}

// Layout is the serialized result of a positioning run.
type Layout struct {
	Positions []Position `json:"positions"`
}

// Position pairs a node id with its computed coordinates.
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// LayoutFromNodes collects positioned nodes into a layout, sorted by id.
func LayoutFromNodes(nodes []bonsai.Node) Layout {
	l := Layout{Positions: make([]Position, len(nodes))}
	for i, n := range nodes {
		l.Positions[i] = Position{ID: n.ID, X: n.Pos.X, Y: n.Pos.Y}
	}
	sort.Slice(l.Positions, func(i, j int) bool { return l.Positions[i].ID < l.Positions[j].ID })
	return l
}

// ReadLayout decodes a layout from r.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode layout")
	}
	return l, nil
}

// WriteLayout encodes a layout as indented JSON and writes it to w.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportLayoutFile writes a layout to a JSON file at path.
func ExportLayoutFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(l, f)
}
