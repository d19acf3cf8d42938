// Package pipeline runs the load → normalize → evaluate pipeline shared by the
// CLI and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read the PACE graph and tree decomposition (or build the
//     trivial single-bag decomposition) and optionally validate it
//  2. Normalize: convert the decomposition into a nice tree decomposition
//  3. Evaluate: run the bisection DP layer by layer
//
// Results are cached by content hash of the inputs, so re-running the same
// instance is free. Every computed result is recorded in the run store when
// one is configured.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, st, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    GraphText: graphText,
//	    TreeText:  tdText,
//	})
//	fmt.Println(res.Weight)
//
// [Runner.Prepare] runs the first two stages only, for commands that inspect
// or draw the nice tree decomposition.
package pipeline

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	GraphText string `json:"graph"`                        // PACE .gr
	TreeText  string `json:"tree_decomposition,omitempty"` // PACE .td
	Trivial   bool   `json:"trivial,omitempty"`            // use the single-bag decomposition
	Validate  bool   `json:"validate,omitempty"`           // check the decomposition against the graph
	Workers   int    `json:"workers,omitempty"`            // 0 = GOMAXPROCS
	Refresh   bool   `json:"refresh,omitempty"`            // bypass cached results

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Validate checks required fields and applies defaults.
func (o *Options) Validate() error {
	if err := twerrors.ValidatePayload("graph", o.GraphText); err != nil {
		return err
	}
	switch {
	case o.Trivial && o.TreeText != "":
		return twerrors.New(twerrors.ErrCodeInvalidInput, "tree decomposition and trivial are mutually exclusive")
	case !o.Trivial:
		if err := twerrors.ValidatePayload("tree decomposition", o.TreeText); err != nil {
			return err
		}
	}
	if err := twerrors.ValidateWorkers(o.Workers); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ErrLimitExceeded is returned when an instance is larger than the runner's
// [Limits] allow.
var ErrLimitExceeded = errors.New("instance exceeds configured limits")

// Limits bounds the instances a [Runner] accepts. Zero fields are unbounded.
type Limits struct {
	MaxVertices int // checked against the graph header before allocation
	MaxWidth    int // checked after normalization, before evaluation
}

func (l Limits) checkWidth(width int) error {
	if l.MaxWidth > 0 && width > l.MaxWidth {
		return twerrors.Wrap(twerrors.ErrCodeCapacityExceeded, ErrLimitExceeded,
			"width %d, at most %d accepted", width, l.MaxWidth)
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of [Runner.Execute].
type Result struct {
	RunID    uuid.UUID `json:"run_id"`
	Weight   float64   `json:"weight"`
	Stats    Stats     `json:"stats"`
	CacheHit bool      `json:"cache_hit"`
}

// Stats contains sizes and timings of a pipeline run.
type Stats struct {
	Vertices   int  `json:"vertices"`
	Edges      int  `json:"edges"`
	Bags       int  `json:"bags"`       // generic decomposition, 0 for trivial runs
	NiceNodes  int  `json:"nice_nodes"` // nodes of the nice tree decomposition
	Width      int  `json:"width"`
	Layers     int  `json:"layers"`
	PeakCells  int  `json:"peak_cells"`
	Suboptimal bool `json:"suboptimal"`

	ParseTime     time.Duration `json:"parse_time"`
	NormalizeTime time.Duration `json:"normalize_time"`
	EvaluateTime  time.Duration `json:"evaluate_time"`
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.ParseTime + s.NormalizeTime + s.EvaluateTime
}
