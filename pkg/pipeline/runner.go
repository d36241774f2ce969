package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rnagraph/pkg/bulge"
	"github.com/matzehuels/rnagraph/pkg/cache"
	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/observability"
)

// Runner executes the pipeline with caching. It holds no per-run state,
// so one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching and a nil
// keyer selects [cache.DefaultKeyer].
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute builds the graphs in opts.Input and renders opts.Formats for
// each of them.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res := &Result{}

	start := time.Now()
	gs, key, hit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	res.GraphKey = key
	res.CacheInfo.BuildHit = hit
	res.Stats.BuildTime = time.Since(start)
	res.Stats.Graphs = len(gs)
	for _, g := range gs {
		res.Stats.Elements += g.NumElements()
	}
	r.Logger.Info("built graphs",
		"graphs", res.Stats.Graphs,
		"elements", res.Stats.Elements,
		"cached", hit,
		"duration", res.Stats.BuildTime)

	start = time.Now()
	res.CacheInfo.RenderHit = true
	for _, g := range gs {
		artifacts, hit, err := r.RenderWithCacheInfo(ctx, g, opts)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "graph %s", g.Name())
		}
		res.CacheInfo.RenderHit = res.CacheInfo.RenderHit && hit
		res.Outputs = append(res.Outputs, Output{Graph: g, Artifacts: artifacts})
	}
	res.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"cached", res.CacheInfo.RenderHit,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// BuildWithCacheInfo builds the graphs for opts, consulting the cache
// unless opts.Refresh is set. It returns the graph cache key and whether
// the graphs came from cache.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) ([]*bulge.Graph, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, "", false, err
	}

	key := r.Keyer.GraphKey(opts.Input, opts.GraphKeyOpts())
	hooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if gs, err := decodeGraphs(data); err == nil {
				hooks.OnCacheHit(ctx, "graph")
				return gs, key, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", key)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "err", err)
		}
		hooks.OnCacheMiss(ctx, "graph")
	}

	gs, err := Build(ctx, opts)
	if err != nil {
		return nil, "", false, err
	}

	if data, err := encodeGraphs(gs); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.GraphTTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, "graph", len(data))
		}
	}
	return gs, key, false, nil
}

// Build is BuildWithCacheInfo without the cache details.
func (r *Runner) Build(ctx context.Context, opts Options) ([]*bulge.Graph, error) {
	gs, _, _, err := r.BuildWithCacheInfo(ctx, opts)
	return gs, err
}

// RenderWithCacheInfo renders opts.Formats for g. The second result is
// true when every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *bulge.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	graphHash := cache.Hash([]byte(g.Text()))
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, g, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the cache details.
func (r *Runner) Render(ctx context.Context, g *bulge.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
