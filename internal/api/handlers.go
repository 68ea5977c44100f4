package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sudotliu/bonsai/pkg/errors"
	"github.com/sudotliu/bonsai/pkg/store"
	"github.com/sudotliu/bonsai/pkg/treeio"
	"github.com/sudotliu/bonsai/pkg/walker"
)

// configPayload is the JSON shape of a spacing override. Pointer fields
// distinguish "omitted, keep the server default" from an explicit zero.
type configPayload struct {
	SiblingSeparation *float64 `json:"sibling_separation,omitempty"`
	SubtreeSeparation *float64 `json:"subtree_separation,omitempty"`
	LevelSeparation   *float64 `json:"level_separation,omitempty"`
	MaxDepth          *int     `json:"max_depth,omitempty"`
	NodeSize          *float64 `json:"node_size,omitempty"`
	MinX              *float64 `json:"min_x,omitempty"`
	MaxX              *float64 `json:"max_x,omitempty"`
	MinY              *float64 `json:"min_y,omitempty"`
	MaxY              *float64 `json:"max_y,omitempty"`
}

// apply overlays the payload onto a base configuration.
func (p *configPayload) apply(base walker.Config) walker.Config {
	if p == nil {
		return base
	}
	if p.SiblingSeparation != nil {
		base.SiblingSeparation = *p.SiblingSeparation
	}
	if p.SubtreeSeparation != nil {
		base.SubtreeSeparation = *p.SubtreeSeparation
	}
	if p.LevelSeparation != nil {
		base.LevelSeparation = *p.LevelSeparation
	}
	if p.MaxDepth != nil {
		base.MaxDepth = *p.MaxDepth
	}
	if p.NodeSize != nil {
		base.NodeSize = *p.NodeSize
	}
	if p.MinX != nil {
		base.MinX = *p.MinX
	}
	if p.MaxX != nil {
		base.MaxX = *p.MaxX
	}
	if p.MinY != nil {
		base.MinY = *p.MinY
	}
	if p.MaxY != nil {
		base.MaxY = *p.MaxY
	}
	return base
}

type layoutRequest struct {
	Tree   *treeio.Document `json:"tree"`
	Config *configPayload   `json:"config,omitempty"`
}

// handleLayout positions an inline tree document.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Tree == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "missing tree document"))
		return
	}
	if err := req.Tree.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg := req.Config.apply(s.config)
	if err := cfg.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	layout, cached, err := s.layout(r.Context(), req.Tree, cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCacheHeader(w, cached)
	respondJSON(w, http.StatusOK, layout)
}

type createTreeRequest struct {
	Name string           `json:"name"`
	Tree *treeio.Document `json:"tree"`
}

// handleCreateTree validates and stores a tree document.
func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Tree == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "missing tree document"))
		return
	}
	if err := req.Tree.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := &store.Record{Name: req.Name, Document: *req.Tree}
	if err := s.putRecord(r.Context(), rec); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store tree"))
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

type listTreesResponse struct {
	Trees []*store.Record `json:"trees"`
}

// handleListTrees lists all stored documents.
func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	recs, err := s.listRecords(r.Context())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "list trees"))
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	respondJSON(w, http.StatusOK, listTreesResponse{Trees: recs})
}

// handleGetTree fetches one stored document.
func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	rec, err := s.getRecord(r.Context(), chi.URLParam(r, "treeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// handleDeleteTree removes a stored document.
func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := s.deleteRecord(r.Context(), chi.URLParam(r, "treeID")); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete tree"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTreeLayout positions a stored document with the server's default
// spacing configuration.
func (s *Server) handleTreeLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.getRecord(r.Context(), chi.URLParam(r, "treeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	layout, cached, err := s.layout(r.Context(), &rec.Document, s.config)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCacheHeader(w, cached)
	respondJSON(w, http.StatusOK, layout)
}

func writeCacheHeader(w http.ResponseWriter, cached bool) {
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}
