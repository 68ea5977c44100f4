// Package treeio provides JSON import and export for tree documents and
// computed layouts, plus the TOML spacing-configuration loader shared by the
// CLI and the server.
//
// # Tree document format
//
// A tree document lists every node with the id of its parent; the root is
// the single node without one. Sibling order is array order:
//
//	{
//	  "nodes": [
//	    {"id": "root"},
//	    {"id": "left", "parent": "root"},
//	    {"id": "right", "parent": "root"}
//	  ]
//	}
//
// Use [ImportFile] to read a document from a file path, or [ReadDocument] to
// read from any io.Reader. Both validate the document shape (unique non-empty
// ids, resolvable parents, exactly one root); deeper structural validation
// happens when the document is positioned.
//
// # Layout format
//
// A layout is the serialized result of a positioning run, sorted by id so
// output is deterministic:
//
//	{
//	  "positions": [
//	    {"id": "left", "x": -150, "y": 275},
//	    {"id": "right", "x": 150, "y": 275},
//	    {"id": "root", "x": 0, "y": 0}
//	  ]
//	}
//
// # Spacing configuration
//
// [LoadConfig] reads a TOML file of spacing parameters. Omitted keys keep
// their defaults:
//
//	sibling_separation = 50.0
//	subtree_separation = 100.0
//	level_separation = 275.0
//	max_depth = 100
//	node_size = 250.0
package treeio
