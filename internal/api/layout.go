package api

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/sudotliu/bonsai/pkg/bonsai"
	"github.com/sudotliu/bonsai/pkg/cache"
	"github.com/sudotliu/bonsai/pkg/errors"
	"github.com/sudotliu/bonsai/pkg/observability"
	"github.com/sudotliu/bonsai/pkg/store"
	"github.com/sudotliu/bonsai/pkg/treeio"
	"github.com/sudotliu/bonsai/pkg/walker"
)

// layoutTTL bounds how long cached layouts live; identical inputs always
// produce identical output, so the TTL only caps storage growth.
const layoutTTL = 24 * time.Hour

// layout positions a document, consulting the cache first. The bool reports
// whether the result came from the cache.
func (s *Server) layout(ctx context.Context, doc *treeio.Document, cfg walker.Config) (treeio.Layout, bool, error) {
	key, err := s.layoutKey(doc, cfg)
	if err != nil {
		return treeio.Layout{}, false, err
	}

	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		var cached treeio.Layout
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
	} else if err != nil {
		s.logger.Warn("cache get failed", "error", err)
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, len(doc.Nodes))
	tree, err := bonsai.New(doc.Children(), cfg, bonsai.WithLogger(s.logger))
	observability.Layout().OnLayoutComplete(ctx, len(doc.Nodes), time.Since(start), err)
	if err != nil {
		return treeio.Layout{}, false, err
	}
	result := treeio.LayoutFromNodes(tree.Nodes())

	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, data, layoutTTL); err != nil {
			s.logger.Warn("cache set failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return result, false, nil
}

// layoutKey derives the cache key from the canonical document bytes and the
// spacing configuration.
func (s *Server) layoutKey(doc *treeio.Document, cfg walker.Config) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return s.keyer.LayoutKey(cache.Hash(buf.Bytes()), cache.LayoutKeyOpts{
		SiblingSeparation: cfg.SiblingSeparation,
		SubtreeSeparation: cfg.SubtreeSeparation,
		LevelSeparation:   cfg.LevelSeparation,
		MaxDepth:          cfg.MaxDepth,
		NodeSize:          cfg.NodeSize,
		MinX:              cfg.MinX,
		MaxX:              cfg.MaxX,
		MinY:              cfg.MinY,
		MaxY:              cfg.MaxY,
	}), nil
}

// getRecord fetches a stored document, translating absence into a
// DOCUMENT_NOT_FOUND error.
func (s *Server) getRecord(ctx context.Context, id string) (*store.Record, error) {
	start := time.Now()
	rec, err := s.store.Get(ctx, id)
	observability.Store().OnStoreRead(ctx, "get", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "fetch tree %s", id)
	}
	if rec == nil {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "tree not found: %s", id)
	}
	return rec, nil
}

func (s *Server) putRecord(ctx context.Context, rec *store.Record) error {
	start := time.Now()
	err := s.store.Put(ctx, rec)
	observability.Store().OnStoreWrite(ctx, "put", time.Since(start), err)
	return err
}

func (s *Server) deleteRecord(ctx context.Context, id string) error {
	start := time.Now()
	err := s.store.Delete(ctx, id)
	observability.Store().OnStoreWrite(ctx, "delete", time.Since(start), err)
	return err
}

func (s *Server) listRecords(ctx context.Context) ([]*store.Record, error) {
	start := time.Now()
	recs, err := s.store.List(ctx)
	observability.Store().OnStoreRead(ctx, "list", time.Since(start), err)
	return recs, err
}
