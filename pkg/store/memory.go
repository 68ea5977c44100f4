package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sudotliu/bonsai/pkg/treeio"
)

// MemoryStore keeps records in a map. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Get retrieves a record by id. Returns nil, nil if it does not exist.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	out := rec
	out.Document.Nodes = append([]treeio.DocNode(nil), rec.Document.Nodes...)
	return &out, nil
}

// Put stores a record, minting an id and timestamps as needed.
func (s *MemoryStore) Put(ctx context.Context, rec *Record) error {
	prepare(rec)

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	stored.Document.Nodes = append([]treeio.DocNode(nil), rec.Document.Nodes...)
	s.records[rec.ID] = stored
	return nil
}

// Delete removes a record; missing ids are ignored.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

// List returns all records sorted by id.
func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		copied := rec
		copied.Document.Nodes = append([]treeio.DocNode(nil), rec.Document.Nodes...)
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
