package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/twbisect/pkg/bisect"
	"github.com/matzehuels/twbisect/pkg/cache"
	"github.com/matzehuels/twbisect/pkg/graph"
	"github.com/matzehuels/twbisect/pkg/nice"
	"github.com/matzehuels/twbisect/pkg/observability"
	"github.com/matzehuels/twbisect/pkg/store"
	"github.com/matzehuels/twbisect/pkg/td"
)

const keyTypeResult = "result"

// Runner encapsulates pipeline execution with caching and run history.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store   // optional
	TTL    time.Duration // cache entry lifetime; 0 means cache.TTLResult
	Limits Limits
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and store.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil store disables run history.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
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
		Store:  st,
		Logger: logger,
	}
}

// Prepared holds the parsed inputs and their nice tree decomposition.
type Prepared struct {
	Graph   *graph.Graph
	Generic *td.Decomposition // nil for trivial runs
	Nice    *nice.Decomposition
	Stats   Stats
}

// cachedResult is the cache payload of a computed result.
type cachedResult struct {
	RunID  uuid.UUID `json:"run_id"`
	Weight float64   `json:"weight"`
	Stats  Stats     `json:"stats"`
}

// Execute runs the complete parse → normalize → evaluate pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	key := r.resultKey(opts)
	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			opts.Logger.Info("using cached result", "weight", res.Weight)
			return res, nil
		}
	}

	p, err := r.Prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	stats := p.Stats

	hooks := observability.Pipeline()
	hooks.OnEvaluateStart(ctx, p.Nice.Depth())
	start := time.Now()
	out, err := bisect.Compute(ctx, p.Nice, bisect.Options{Workers: opts.Workers, Logger: opts.Logger})
	stats.EvaluateTime = time.Since(start)
	hooks.OnEvaluateComplete(ctx, out.Weight, stats.EvaluateTime, err)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	stats.PeakCells = out.PeakCells
	opts.Logger.Info("computed max bisection",
		"weight", out.Weight,
		"duration", stats.EvaluateTime)

	res := &Result{RunID: uuid.New(), Weight: out.Weight, Stats: stats}
	r.record(ctx, opts, res)
	r.save(ctx, key, res)
	return res, nil
}

// Prepare parses the inputs and builds the nice tree decomposition.
func (r *Runner) Prepare(ctx context.Context, opts Options) (*Prepared, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Prepared{}

	// Stage 1: Parse
	start := time.Now()
	g, err := graph.ParseLimited(strings.NewReader(opts.GraphText), r.Limits.MaxVertices)
	if err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}
	g.SetLogger(opts.Logger)
	p.Graph = g
	if !opts.Trivial {
		if p.Generic, err = td.ParseString(opts.TreeText); err != nil {
			return nil, fmt.Errorf("parse tree decomposition: %w", err)
		}
		if opts.Validate {
			if err := p.Generic.Validate(g); err != nil {
				return nil, fmt.Errorf("validate tree decomposition: %w", err)
			}
		}
		p.Stats.Bags = p.Generic.CountNodes()
	}
	p.Stats.ParseTime = time.Since(start)
	p.Stats.Vertices = g.Vertices()
	p.Stats.Edges = g.EdgeCount()
	opts.Logger.Info("parsed input",
		"vertices", p.Stats.Vertices,
		"edges", p.Stats.Edges,
		"bags", p.Stats.Bags,
		"duration", p.Stats.ParseTime)

	// Stage 2: Normalize
	hooks := observability.Pipeline()
	hooks.OnNormalizeStart(ctx, p.Stats.Bags)
	start = time.Now()
	if opts.Trivial {
		p.Nice, err = nice.Trivial(g)
	} else {
		p.Nice, err = nice.Normalize(g, p.Generic)
	}
	p.Stats.NormalizeTime = time.Since(start)
	if err != nil {
		hooks.OnNormalizeComplete(ctx, 0, 0, p.Stats.NormalizeTime, err)
		return nil, fmt.Errorf("normalize: %w", err)
	}
	hooks.OnNormalizeComplete(ctx, p.Nice.NumNodes, p.Nice.Width, p.Stats.NormalizeTime, nil)

	p.Stats.NiceNodes = p.Nice.NumNodes
	p.Stats.Width = p.Nice.Width
	p.Stats.Layers = p.Nice.Depth()
	p.Stats.Suboptimal = p.Nice.Suboptimal()
	opts.Logger.Info("normalized decomposition",
		"nodes", p.Stats.NiceNodes,
		"width", p.Stats.Width,
		"layers", p.Stats.Layers,
		"duration", p.Stats.NormalizeTime)
	if p.Stats.Suboptimal {
		opts.Logger.Warn("tree decomposition is suboptimal",
			"nodes", p.Stats.NiceNodes,
			"limit", 4*p.Stats.Vertices)
	}
	if err := r.Limits.checkWidth(p.Stats.Width); err != nil {
		return nil, err
	}
	return p, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close(ctx context.Context) error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(ctx); err == nil {
			err = serr
		}
	}
	return err
}

func (r *Runner) resultKey(opts Options) string {
	tdHash := ""
	if !opts.Trivial {
		tdHash = cache.Hash([]byte(opts.TreeText))
	}
	return r.Keyer.ResultKey(cache.Hash([]byte(opts.GraphText)), tdHash, cache.ResultKeyOpts{
		Trivial:  opts.Trivial,
		Validate: opts.Validate,
	})
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		hooks.OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyTypeResult)
	return &Result{RunID: cached.RunID, Weight: cached.Weight, Stats: cached.Stats, CacheHit: true}, true
}

func (r *Runner) save(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(cachedResult{RunID: res.RunID, Weight: res.Weight, Stats: res.Stats})
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLResult
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeResult, len(data))
}

func (r *Runner) record(ctx context.Context, opts Options, res *Result) {
	if r.Store == nil {
		return
	}
	run := store.Run{
		ID:        res.RunID.String(),
		GraphHash: cache.Hash([]byte(opts.GraphText)),
		Trivial:   opts.Trivial,
		Vertices:  res.Stats.Vertices,
		Edges:     res.Stats.Edges,
		Width:     res.Stats.Width,
		NiceNodes: res.Stats.NiceNodes,
		Weight:    res.Weight,
		Duration:  res.Stats.Total(),
	}
	if !opts.Trivial {
		run.TDHash = cache.Hash([]byte(opts.TreeText))
	}
	if err := r.Store.Save(ctx, &run); err != nil {
		r.Logger.Warn("recording run failed", "run", run.ID, "err", err)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
