package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/twbisect/internal/fixtures"
	"github.com/matzehuels/twbisect/pkg/cache"
	"github.com/matzehuels/twbisect/pkg/config"
	twerrors "github.com/matzehuels/twbisect/pkg/errors"
	"github.com/matzehuels/twbisect/pkg/pipeline"
)

// captureStdout redirects command output to a buffer for the test's duration.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// workspace writes the wiki instance and a config pointing the file cache
// into a temp dir.
type workspace struct {
	dir, graph, tree, config, cacheDir string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	w := workspace{
		dir:      dir,
		graph:    filepath.Join(dir, "wiki.gr"),
		tree:     filepath.Join(dir, "wiki.td"),
		config:   filepath.Join(dir, "config.toml"),
		cacheDir: filepath.Join(dir, "cache"),
	}
	files := map[string]string{
		w.graph:  fixtures.WikiGraph,
		w.tree:   fixtures.WikiDecomposition,
		w.config: "[cache]\ndir = \"" + filepath.ToSlash(w.cacheDir) + "\"\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return w
}

func run(t *testing.T, w workspace, args ...string) (string, error) {
	t.Helper()
	out := captureStdout(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", w.config}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSolve(t *testing.T) {
	w := newWorkspace(t)
	out, err := run(t, w, "solve", "-g", w.graph, "-t", w.tree, "--validate")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	for _, want := range []string{"Max bisection weight: 9", "Treewidth", "TD bags", "NTD nodes", "fresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// The second run is served from the file cache.
	out, err = run(t, w, "solve", "-g", w.graph, "-t", w.tree, "--validate")
	if err != nil {
		t.Fatalf("solve (cached): %v", err)
	}
	if !strings.Contains(out, "cached") {
		t.Errorf("second run should be a cache hit:\n%s", out)
	}
}

func TestSolveTrivial(t *testing.T) {
	w := newWorkspace(t)
	out, err := run(t, w, "solve", "-g", w.graph, "--trivial", "--no-cache", "-w", "1")
	if err != nil {
		t.Fatalf("solve --trivial: %v", err)
	}
	if !strings.Contains(out, "Max bisection weight: 9") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "TD bags") {
		t.Errorf("trivial run should not report TD bags:\n%s", out)
	}
}

func TestSolveShow(t *testing.T) {
	w := newWorkspace(t)
	show := filepath.Join(w.dir, "tree.dot")
	out, err := run(t, w, "solve", "-g", w.graph, "-t", w.tree, "--no-cache", "--show", show)
	if err != nil {
		t.Fatalf("solve --show: %v", err)
	}
	data, err := os.ReadFile(show)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Root: Join {2,3,5}") {
		t.Errorf("tree.dot missing root label:\n%s", data)
	}
	if !strings.Contains(out, show) {
		t.Errorf("output should name %s:\n%s", show, out)
	}
}

func TestSolveErrors(t *testing.T) {
	w := newWorkspace(t)
	tests := []struct {
		name string
		args []string
		code twerrors.Code
	}{
		{"tree and trivial", []string{"solve", "-g", w.graph, "-t", w.tree, "--trivial"}, ""},
		{"no decomposition", []string{"solve", "-g", w.graph}, ""},
		{"missing graph file", []string{"solve", "-g", filepath.Join(w.dir, "nope.gr"), "--trivial"}, twerrors.ErrCodeFileNotFound},
		{"graph as decomposition", []string{"solve", "-g", w.graph, "-t", w.graph, "--no-cache"}, twerrors.ErrCodeInvalidFormat},
		{"negative workers", []string{"solve", "-g", w.graph, "--trivial", "-w", "-2"}, twerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, w, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.code != "" && twerrors.GetCode(err) != tt.code {
				t.Errorf("code = %s, want %s (%v)", twerrors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	w := newWorkspace(t)
	out, err := run(t, w, "normalize", "-g", w.graph, "-t", w.tree, "--nodes")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	for _, want := range []string{"Join {2,3,5}", "Layer 6", "Max bag", "inspect"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVisualize(t *testing.T) {
	w := newWorkspace(t)
	base := filepath.Join(w.dir, "out")
	if _, err := run(t, w, "visualize", "-g", w.graph, "-t", w.tree, "-f", "dot", "-o", base); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	for target, want := range map[string]string{"graph": "graph G {", "tree": "digraph T {"} {
		data, err := os.ReadFile(base + "." + target + ".dot")
		if err != nil {
			t.Fatalf("%s output: %v", target, err)
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("%s output missing %q", target, want)
		}
	}

	single := filepath.Join(w.dir, "only-tree.dot")
	if _, err := run(t, w, "visualize", "-g", w.graph, "-t", w.tree, "-f", "dot", "--target", "tree", "-o", single); err != nil {
		t.Fatalf("visualize single: %v", err)
	}
	if _, err := os.Stat(single); err != nil {
		t.Errorf("single target should be written to -o as-is: %v", err)
	}

	if _, err := run(t, w, "visualize", "-g", w.graph, "-t", w.tree, "-f", "gif"); err == nil {
		t.Error("unknown format should fail")
	}
	if _, err := run(t, w, "visualize", "-g", w.graph, "-t", w.tree, "-f", "dot", "--target", "forest"); err == nil {
		t.Error("unknown target should fail")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base, output, target string
		targets              int
		want                 string
	}{
		{"wiki", "", "graph", 2, "wiki.graph.svg"},
		{"out", "out.svg", "tree", 1, "out.svg"},
		{"out", "out.svg", "tree", 2, "out.tree.svg"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.base, tt.output, tt.target, "svg", tt.targets); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.base, tt.output, tt.target, got, tt.want)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	w := newWorkspace(t)
	out, err := run(t, w, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != w.cacheDir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), w.cacheDir)
	}

	out, err = run(t, w, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on missing dir: %q", out)
	}

	fc, err := cache.NewFileCache(w.cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(context.Background(), "result:x", []byte("{}"), time.Hour); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, w, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("clear output = %q", out)
	}
}

func TestBadConfig(t *testing.T) {
	w := newWorkspace(t)
	if err := os.WriteFile(w.config, []byte("[cache]\nbackend = \"tape\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, w, "cache", "path")
	if !twerrors.Is(err, twerrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestCompletion(t *testing.T) {
	w := newWorkspace(t)
	out, err := run(t, w, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the command name")
	}
}

func TestRunnerFromConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config = config.Default()
	c.Config.Cache.Backend = config.BackendNone
	c.Config.Cache.Prefix = "staging:"
	c.Config.Server.MaxWidth = 3

	r, err := c.newRunner(context.Background(), false)
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	defer r.Close(context.Background())

	key := r.Keyer.ResultKey("g", "t", cache.ResultKeyOpts{})
	if !strings.HasPrefix(key, "staging:result:") {
		t.Errorf("key %q should carry the configured prefix", key)
	}
	if r.Limits != (pipeline.Limits{}) {
		t.Errorf("local runner should be unbounded, got %+v", r.Limits)
	}

	limits := c.serverLimits()
	if limits.MaxWidth != 3 || limits.MaxVertices != config.DefaultMaxVertices {
		t.Errorf("serverLimits() = %+v", limits)
	}
}
