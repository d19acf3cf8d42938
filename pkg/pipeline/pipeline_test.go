package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/twbisect/internal/fixtures"
	"github.com/matzehuels/twbisect/pkg/cache"
	twerrors "github.com/matzehuels/twbisect/pkg/errors"
	"github.com/matzehuels/twbisect/pkg/graph"
	"github.com/matzehuels/twbisect/pkg/observability"
	"github.com/matzehuels/twbisect/pkg/store"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"graph and tree", Options{GraphText: fixtures.WikiGraph, TreeText: fixtures.WikiDecomposition}, false},
		{"trivial", Options{GraphText: fixtures.WikiGraph, Trivial: true}, false},
		{"missing graph", Options{TreeText: fixtures.WikiDecomposition}, true},
		{"missing tree", Options{GraphText: fixtures.WikiGraph}, true},
		{"both tree and trivial", Options{GraphText: fixtures.WikiGraph, TreeText: "x", Trivial: true}, true},
		{"negative workers", Options{GraphText: fixtures.WikiGraph, Trivial: true, Workers: -1}, true},
		{"whitespace graph", Options{GraphText: "  \n", Trivial: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.opts.Logger == nil {
				t.Error("Validate() should set a default logger")
			}
			if err != nil && !twerrors.IsInputError(err) {
				t.Errorf("Validate() error should be an input error: %v", err)
			}
		})
	}
}

func newTestRunner(t *testing.T) (*Runner, *store.MemoryStore) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	st := store.NewMemoryStore()
	r := NewRunner(c, nil, st, log.New(&strings.Builder{}))
	t.Cleanup(func() { r.Close(context.Background()) })
	return r, st
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r, st := newTestRunner(t)

	res, err := r.Execute(ctx, Options{GraphText: fixtures.WikiGraph, TreeText: fixtures.WikiDecomposition})
	require.NoError(t, err)
	require.Equal(t, fixtures.WikiWeight, res.Weight)
	require.False(t, res.CacheHit)
	require.Equal(t, 8, res.Stats.Vertices)
	require.Equal(t, 13, res.Stats.Edges)
	require.Equal(t, 6, res.Stats.Bags)
	require.Equal(t, 17, res.Stats.NiceNodes)
	require.Equal(t, 2, res.Stats.Width)
	require.Equal(t, 7, res.Stats.Layers)
	require.False(t, res.Stats.Suboptimal)

	run, err := st.Get(ctx, res.RunID.String())
	require.NoError(t, err)
	require.Equal(t, res.Weight, run.Weight)
	require.Equal(t, cache.Hash([]byte(fixtures.WikiGraph)), run.GraphHash)
	require.NotEmpty(t, run.TDHash)
}

func TestExecuteCacheHit(t *testing.T) {
	ctx := context.Background()
	r, st := newTestRunner(t)
	opts := Options{GraphText: fixtures.WikiGraph, TreeText: fixtures.WikiDecomposition}

	first, err := r.Execute(ctx, opts)
	require.NoError(t, err)

	second, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Weight, second.Weight)
	require.Equal(t, first.RunID, second.RunID)
	require.Equal(t, first.Stats.NiceNodes, second.Stats.NiceNodes)

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	require.False(t, third.CacheHit)
	require.NotEqual(t, first.RunID, third.RunID)

	runs, err := st.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2, "cache hits are not recorded")
}

func TestExecuteTrivialMatchesDecomposition(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner(t)

	res, err := r.Execute(ctx, Options{GraphText: fixtures.ExampleGraph, Trivial: true, Workers: 1})
	require.NoError(t, err)
	require.Equal(t, fixtures.ExampleWeight, res.Weight)
	require.Equal(t, 0, res.Stats.Bags)
	require.Equal(t, 1, res.Stats.NiceNodes)
	require.Equal(t, 6, res.Stats.Width)
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil, log.New(&strings.Builder{}))

	tests := []struct {
		name string
		opts Options
		code twerrors.Code
	}{
		{
			name: "bad graph header",
			opts: Options{GraphText: "p xx 2 1\n1 2\n", Trivial: true},
			code: twerrors.ErrCodeInvalidFormat,
		},
		{
			name: "cyclic decomposition",
			opts: Options{GraphText: fixtures.WikiGraph, TreeText: "s td 2 2 8\nb 1 1\nb 2 1\n1 2\n2 1\n"},
			code: twerrors.ErrCodeInvalidDecomposition,
		},
		{
			name: "uncovered edge",
			opts: Options{
				GraphText: "p tw 3 2\n1 2\n2 3\n",
				TreeText:  "s td 2 2 3\nb 1 1 2\nb 2 3\n1 2\n",
				Validate:  true,
			},
			code: twerrors.ErrCodeInvalidDecomposition,
		},
		{
			name: "bag vertex outside graph",
			opts: Options{
				GraphText: "p tw 4 1\n2 3\n",
				TreeText:  "s td 1 2 5\nb 1 1 5\n",
			},
			code: twerrors.ErrCodeInvalidDecomposition,
		},
		{
			name: "treewidth too large",
			opts: Options{GraphText: "p tw 32 0\n", Trivial: true},
			code: twerrors.ErrCodeCapacityExceeded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.opts)
			require.Error(t, err)
			require.Equal(t, tt.code, twerrors.GetCode(err), "err: %v", err)
		})
	}
}

func TestExecuteCancelled(t *testing.T) {
	r := NewRunner(nil, nil, nil, log.New(&strings.Builder{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Execute(ctx, Options{GraphText: fixtures.WikiGraph, TreeText: fixtures.WikiDecomposition})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPrepare(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	p, err := r.Prepare(context.Background(), Options{GraphText: fixtures.WikiGraph, TreeText: fixtures.WikiDecomposition})
	require.NoError(t, err)
	require.NotNil(t, p.Generic)
	require.Equal(t, p.Nice.NumNodes, p.Stats.NiceNodes)
	require.Equal(t, []int{2, 3, 5}, p.Nice.RootNode().Bag)
	require.Equal(t, p.Nice.Depth(), p.Stats.Layers)
}

func TestExecuteLimits(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil, log.New(&strings.Builder{}))
	r.Limits = Limits{MaxVertices: 16, MaxWidth: 2}

	res, err := r.Execute(ctx, Options{GraphText: fixtures.WikiGraph, TreeText: fixtures.WikiDecomposition})
	require.NoError(t, err)
	require.Equal(t, fixtures.WikiWeight, res.Weight)

	_, err = r.Execute(ctx, Options{GraphText: fixtures.WikiGraph, Trivial: true})
	require.ErrorIs(t, err, ErrLimitExceeded)
	require.Equal(t, twerrors.ErrCodeCapacityExceeded, twerrors.GetCode(err))

	_, err = r.Execute(ctx, Options{GraphText: "p tw 100000 0\n", Trivial: true})
	require.ErrorIs(t, err, graph.ErrTooManyVertices)
	require.Equal(t, twerrors.ErrCodeCapacityExceeded, twerrors.GetCode(err))
}

func TestHooksFire(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	ctx := context.Background()
	r, _ := newTestRunner(t)
	opts := Options{GraphText: fixtures.ExampleGraph, Trivial: true}
	_, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	_, err = r.Execute(ctx, opts)
	require.NoError(t, err)

	require.Equal(t, []string{
		"cache-miss", "normalize-start", "normalize-done", "evaluate-start", "evaluate-done", "cache-set",
		"cache-hit",
	}, rec.events)
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnNormalizeStart(context.Context, int) { h.add("normalize-start") }
func (h *recordingHooks) OnNormalizeComplete(context.Context, int, int, time.Duration, error) {
	h.add("normalize-done")
}
func (h *recordingHooks) OnEvaluateStart(context.Context, int) { h.add("evaluate-start") }
func (h *recordingHooks) OnEvaluateComplete(context.Context, float64, time.Duration, error) {
	h.add("evaluate-done")
}
func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.add("cache-hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.add("cache-miss") }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.add("cache-set") }
