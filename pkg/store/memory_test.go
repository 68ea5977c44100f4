package store

import (
	"context"
	"testing"

	"github.com/sudotliu/bonsai/pkg/treeio"
)

func sampleRecord(name string) *Record {
	return &Record{
		Name: name,
		Document: treeio.Document{Nodes: []treeio.DocNode{
			{ID: "root"},
			{ID: "a", Parent: "root"},
		}},
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := sampleRecord("demo")
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Put should mint an id")
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("Put should set timestamps")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored record")
	}
	if got.Name != "demo" || len(got.Document.Nodes) != 2 {
		t.Errorf("Get = %+v", got)
	}

	// The stored copy must be isolated from later caller mutations.
	got.Document.Nodes[0].ID = "mutated"
	again, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Document.Nodes[0].ID != "root" {
		t.Error("stored record was mutated through a returned copy")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get missing = %+v, want nil", got)
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := sampleRecord("v1")
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	created := rec.CreatedAt

	rec.Name = "v2"
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Error("replace should keep CreatedAt")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "v2" {
		t.Errorf("Name = %q, want v2", got.Name)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List = %d records, want 1", len(list))
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := sampleRecord("demo")
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Get(ctx, rec.ID); got != nil {
		t.Error("record still present after Delete")
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestMemoryStoreListSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, id := range []string{"c", "a", "b"} {
		rec := sampleRecord(id)
		rec.ID = id
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, rec := range list {
		if rec.ID != want[i] {
			t.Errorf("List[%d].ID = %q, want %q", i, rec.ID, want[i])
		}
	}
}
