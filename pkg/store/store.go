// Package store persists named tree documents so the server can position
// them on demand. Only the input documents are stored; computed layouts live
// in the cache or are recomputed.
//
// Two backends are provided:
//   - memory: in-memory storage for development and tests
//   - mongo: MongoDB-backed storage for deployments
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sudotliu/bonsai/pkg/treeio"
)

// Record is a stored tree document with its metadata.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name" bson:"name"`
	Document  treeio.Document `json:"document" bson:"document"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for tree document storage backends.
type Store interface {
	// Get retrieves a record by id. Returns nil, nil if it does not exist.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores a record, minting an id and timestamps as needed. An
	// existing record with the same id is replaced.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all records sorted by id.
	List(ctx context.Context) ([]*Record, error)
}

// prepare fills in the id and timestamps before a write.
func prepare(rec *Record) {
	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
}
