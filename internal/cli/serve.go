package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/sudotliu/bonsai/internal/api"
	"github.com/sudotliu/bonsai/pkg/bonsai"
	"github.com/sudotliu/bonsai/pkg/cache"
	"github.com/sudotliu/bonsai/pkg/store"
	"github.com/sudotliu/bonsai/pkg/treeio"
)

// shutdownTimeout bounds how long in-flight requests may run after the server
// receives a stop signal.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command that runs the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		redisAddr  string
		mongoURI   string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

The service positions tree documents over HTTP and manages a collection of
stored documents. Without --mongo documents live in memory; without --redis
layouts are cached on the local filesystem.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, mongoURI, configPath, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address (host:port) for the layout cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "mongodb connection URI for document storage")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML spacing configuration file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")

	return cmd
}

// runServe wires the configured backends into the API server and blocks until
// the context is cancelled or the listener fails.
func (c *CLI) runServe(ctx context.Context, addr, redisAddr, mongoURI, configPath string, noCache bool) error {
	cfg := bonsai.DefaultConfig()
	if configPath != "" {
		loaded, err := treeio.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	layoutCache, err := c.serveCache(ctx, redisAddr, noCache)
	if err != nil {
		return err
	}
	defer layoutCache.Close()

	docStore, err := c.serveStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	if closer, ok := docStore.(interface{ Close(context.Context) error }); ok {
		defer closer.Close(context.Background())
	}

	server := api.NewServer(
		api.WithLogger(c.Logger),
		api.WithStore(docStore),
		api.WithCache(layoutCache),
		api.WithConfig(cfg),
	)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
}

// serveCache picks the layout cache backend for the server.
func (c *CLI) serveCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, redisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", redisAddr, err)
		}
		c.Logger.Info("layout cache", "backend", "redis", "addr", redisAddr)
		return rc, nil
	}
	return newCache(false)
}

// serveStore picks the document store backend for the server.
func (c *CLI) serveStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI == "" {
		c.Logger.Warn("no --mongo given, documents are stored in memory")
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	c.Logger.Info("document store", "backend", "mongodb")
	return ms, nil
}
