// Package cache stores computed layouts so identical (tree, configuration)
// pairs skip the positioning run. The CLI uses the file backend, the server
// can use redis, and the null backend disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends. Values are opaque
// byte slices; callers serialize layouts before storing them.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for layout results.
type Keyer interface {
	// LayoutKey derives a key from the hash of a tree document and the
	// spacing options used to position it. Identical trees positioned with
	// different spacing must not share a key.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the spacing parameters that affect a layout's result.
// Every field participates in the key.
type LayoutKeyOpts struct {
	SiblingSeparation float64
	SubtreeSeparation float64
	LevelSeparation   float64
	MaxDepth          int
	NodeSize          float64
	MinX, MaxX        float64
	MinY, MaxY        float64
}

// DefaultKeyer hashes the tree hash together with all spacing options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key of the form layout:<sha256>.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}
