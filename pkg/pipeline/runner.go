package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plotfield/plotfield/pkg/cache"
	"github.com/plotfield/plotfield/pkg/observability"
	"github.com/plotfield/plotfield/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → frame → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	obs := observability.Pipeline()

	// Stage 1: Generate
	genStart := time.Now()
	obs.OnGenerateStart(ctx, opts.Piece, opts.Seed)
	sc, sceneHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		obs.OnGenerateComplete(ctx, opts.Piece, 0, time.Since(genStart), err)
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Scene = sc
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.MarkCount = sc.MarkCount()
	result.Stats.PanelCount = len(sc.Panels)
	result.CacheInfo.SceneHit = sceneHit
	obs.OnGenerateComplete(ctx, opts.Piece, result.Stats.MarkCount, result.Stats.GenerateTime, nil)

	// Compute scene hash for cache keys and API responses
	if sceneData, err := scene.Marshal(sc); err == nil {
		result.SceneHash = cache.Hash(sceneData)
	}

	r.Logger.Info("generated scene",
		"piece", opts.Piece,
		"marks", result.Stats.MarkCount,
		"panels", result.Stats.PanelCount,
		"duration", result.Stats.GenerateTime)

	// Stages 2+3: Frame and Render
	renderStart := time.Now()
	obs.OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sc, result.SceneHash, opts)
	if err != nil {
		obs.OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	obs.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, nil)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo builds the scene with caching and returns cache hit info.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*scene.Scene, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey, cacheable := r.sceneKey(opts)

	// Try cache first (unless refresh requested)
	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if sc, err := scene.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, observability.KeyTypeScene)
				return sc, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, observability.KeyTypeScene)
	}

	// Generate
	sc, err := Generate(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result. Oversized scenes are skipped: regenerating them is
	// cheaper than reading them back.
	if cacheable && sc.MarkCount() <= MaxCachedMarks {
		if data, err := scene.Marshal(sc); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLScene)
			observability.Cache().OnCacheSet(ctx, observability.KeyTypeScene, len(data))
		}
	}

	return sc, false, nil // Cache miss
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*scene.Scene, error) {
	sc, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return sc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// sceneHash keys the artifact cache; pass "" to bypass it.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc *scene.Scene, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if sceneHash != "" && !opts.Refresh {
		allCached := true
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, observability.KeyTypeArtifact)
			return artifacts, true, nil // All artifacts from cache
		}
		observability.Cache().OnCacheMiss(ctx, observability.KeyTypeArtifact)
	}

	// Render all formats
	rendered, err := Render(sc, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	if sceneHash != "" {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
			observability.Cache().OnCacheSet(ctx, observability.KeyTypeArtifact, len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, sc *scene.Scene, sceneHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, sc, sceneHash, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// sceneKey returns the scene cache key for opts and whether the scene may
// be cached at all. Scripted scenes are never cached: the key could only
// cover the script path, not what the file does.
func (r *Runner) sceneKey(opts Options) (string, bool) {
	if opts.Script != "" {
		return "", false
	}
	paramsHash, err := opts.ParamsHash()
	if err != nil {
		return "", false
	}
	return r.Keyer.SceneKey(opts.Piece, paramsHash), true
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
