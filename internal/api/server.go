// Package api implements the HTTP layout service.
//
// The service positions tree documents on demand and manages a small
// collection of stored documents:
//
//	POST   /v1/layout            position an inline tree document
//	GET    /v1/trees             list stored documents
//	POST   /v1/trees             store a document
//	GET    /v1/trees/{id}        fetch a stored document
//	DELETE /v1/trees/{id}        delete a stored document
//	GET    /v1/trees/{id}/layout position a stored document
//
// Layout responses are cached keyed on the document hash and the spacing
// configuration; the X-Cache response header reports HIT or MISS.
package api

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/sudotliu/bonsai/pkg/bonsai"
	"github.com/sudotliu/bonsai/pkg/cache"
	"github.com/sudotliu/bonsai/pkg/store"
	"github.com/sudotliu/bonsai/pkg/walker"
)

// Server holds the service dependencies. Construct with NewServer and mount
// Router on an http.Server.
type Server struct {
	logger *log.Logger
	store  store.Store
	cache  cache.Cache
	keyer  cache.Keyer
	config walker.Config
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the tree document store. Defaults to in-memory.
func WithStore(st store.Store) Option {
	return func(s *Server) {
		if st != nil {
			s.store = st
		}
	}
}

// WithCache sets the layout cache. Defaults to the null cache.
func WithCache(c cache.Cache) Option {
	return func(s *Server) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithKeyer sets the cache keyer. Defaults to the standard keyer.
func WithKeyer(k cache.Keyer) Option {
	return func(s *Server) {
		if k != nil {
			s.keyer = k
		}
	}
}

// WithConfig sets the default spacing configuration applied when a request
// does not override it.
func WithConfig(cfg walker.Config) Option {
	return func(s *Server) { s.config = cfg }
}

// NewServer creates a server with in-memory defaults suitable for
// development; production deployments override the store and cache.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		store:  store.NewMemoryStore(),
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		config: bonsai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi route tree with request-id, logging, and recovery
// middleware applied to every endpoint.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Route("/trees", func(r chi.Router) {
			r.Get("/", s.handleListTrees)
			r.Post("/", s.handleCreateTree)
			r.Route("/{treeID}", func(r chi.Router) {
				r.Get("/", s.handleGetTree)
				r.Delete("/", s.handleDeleteTree)
				r.Get("/layout", s.handleTreeLayout)
			})
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
