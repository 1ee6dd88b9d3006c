package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotfield/plotfield/internal/server"
	"github.com/plotfield/plotfield/pkg/cache"
	"github.com/plotfield/plotfield/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run an HTTP service exposing the render pipeline.

Endpoints:
  GET  /healthz             health check
  GET  /v1/pieces           pieces and presets as JSON
  GET  /v1/render/{piece}   render one artifact (seed, width, height, format,
                            preset, palette, ... as query parameters)
  POST /v1/render           render with a full options JSON body

The service stores entries in the CLI's cache directory by default, under
API-versioned keys; pass --redis-url to cache in Redis instead, or
--no-cache to disable caching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.serveCache(ctx, redisURL, noCache)
			if err != nil {
				return err
			}
			keyer := cache.NewScopedKeyer(nil, "v1:")
			runner := pipeline.NewRunner(store, keyer, c.Logger)
			defer runner.Close()
			return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "listen address")
	f.StringVar(&redisURL, "redis-url", "", "cache in Redis at this URL (e.g. redis://localhost:6379/0)")
	f.BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// serveCache picks the cache backend for the service: Redis when a URL is
// given, the shared file cache otherwise.
func (c *CLI) serveCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		store, err := cache.NewRedisCache(ctx, redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, nil
	}
	return newCache(false)
}
