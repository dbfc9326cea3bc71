package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicmap/pkg/cache"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/observability"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	Generator Generator // required only for the generate stage
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
		Cache:  cache.Instrument(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → layout → render pipeline with
// caching and returns one result per generated tree.
func (r *Runner) Execute(ctx context.Context, opts Options) ([]*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	trees, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	generateTime := time.Since(start)

	results := make([]*Result, 0, len(trees))
	for _, t := range trees {
		res, err := r.ExecuteTree(ctx, t, opts)
		if err != nil {
			return nil, err
		}
		res.Stats.GenerateTime = generateTime
		res.CacheInfo.GenerateHit = hit
		results = append(results, res)
	}
	return results, nil
}

// ExecuteTree runs the layout and render stages for an existing tree.
func (r *Runner) ExecuteTree(ctx context.Context, t topic.Tree, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	t = t.Normalize()
	result := &Result{Tree: t}
	result.TreeHash, _ = cache.HashJSON(t)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(layout.Nodes)
	result.Stats.EdgeCount = len(layout.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"subject", t.Subject,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo asks the generator for topic trees, caching them by
// document content and model settings.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (trees []topic.Tree, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}
	if r.Generator == nil {
		return nil, false, errors.New(errors.ErrCodeUnsupported, "no topic generator configured")
	}

	label := opts.Documents[0].Name
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, label)
	start := time.Now()
	defer func() {
		hooks.OnGenerateComplete(ctx, label, len(trees), time.Since(start), err)
	}()

	docHash, err := cache.HashJSON(documentEntries(opts.Documents))
	if err != nil {
		return nil, false, fmt.Errorf("hash documents: %w", err)
	}
	cacheKey := r.Keyer.GenerateKey(docHash, cache.GenerateKeyOpts{
		Model:     r.Generator.Model(),
		MaxTokens: r.Generator.MaxTokens(),
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, cacheKey); err == nil && ok {
			if cached, err := topic.DecodeAll(data); err == nil && len(cached) > 0 {
				return cached, true, nil // Cache hit
			}
		}
	}

	trees, err = r.Generator.GenerateTrees(ctx, opts.Documents, opts.Refresh)
	if err != nil {
		return nil, false, err
	}
	opts.Logger.Info("generated topic trees", "documents", len(opts.Documents), "trees", len(trees))

	// Regenerated trees replace the cached entry.
	if data, err := json.Marshal(trees); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLGenerate)
	}
	return trees, false, nil // Cache miss
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) ([]topic.Tree, error) {
	trees, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return trees, err
}

// ComputeLayoutWithCacheInfo lays out a tree with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, t topic.Tree, opts Options) (l graph.Layout, hit bool, err error) {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()

	hooks := observability.Pipeline()
	mains, subs := t.Counts()
	hooks.OnLayoutStart(ctx, 1+mains+subs)
	start := time.Now()
	steps := 0
	defer func() {
		hooks.OnLayoutComplete(ctx, steps, time.Since(start), err)
	}()

	treeHash, err := cache.HashJSON(t.Normalize())
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("hash tree: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	if data, ok, err := r.Cache.Get(ctx, cacheKey); err == nil && ok {
		if cached, err := graph.UnmarshalLayout(data); err == nil {
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}

	l, steps = computeLayout(t, opts)
	opts.Logger.Debug("relaxed layout", "steps", steps, "iterations", opts.Iterations)

	if data, err := graph.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}
	return l, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, t topic.Tree, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout graph.Layout, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	// Compute cache key from layout data
	layoutData, err := graph.MarshalLayout(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts = make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, ok, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	rendered, err := Render(ctx, layout, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}
	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
