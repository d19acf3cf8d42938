// Package store records the history of bisection runs.
//
// A [Run] captures what was solved (content hashes and sizes of the inputs),
// how (width and size of the nice tree decomposition) and the outcome. Runs
// are written by the pipeline after every computed, non-cached result and
// listed by the CLI and the HTTP API.
//
// Two backends implement [Store]: [MongoStore] for shared deployments and
// [MemoryStore] for tests and for servers started without a database.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

// DefaultLimit is the number of runs returned by Recent when limit <= 0.
const DefaultLimit = 20

// ErrRunNotFound is returned by Get for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded bisection computation.
type Run struct {
	ID        string        `json:"id" bson:"_id"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	GraphHash string        `json:"graph_hash" bson:"graph_hash"`
	TDHash    string        `json:"td_hash,omitempty" bson:"td_hash,omitempty"`
	Trivial   bool          `json:"trivial,omitempty" bson:"trivial,omitempty"`
	Vertices  int           `json:"vertices" bson:"vertices"`
	Edges     int           `json:"edges" bson:"edges"`
	Width     int           `json:"width" bson:"width"`
	NiceNodes int           `json:"nice_nodes" bson:"nice_nodes"`
	Weight    float64       `json:"weight" bson:"weight"`
	Duration  time.Duration `json:"duration" bson:"duration"`
}

// NewRun returns a run with a fresh id and the current time.
func NewRun() Run {
	return Run{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
}

// Store persists runs.
type Store interface {
	// Save records run. An empty ID or zero CreatedAt is filled in.
	Save(ctx context.Context, run *Run) error

	// Get returns the run with the given id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Run, error)

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func prepare(run *Run) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
}

func notFound(id string) error {
	return twerrors.Wrap(twerrors.ErrCodeNotFound, ErrRunNotFound, "run %s", id)
}

// ValidateID checks that id is a UUID as produced by [NewRun].
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return twerrors.Wrap(twerrors.ErrCodeInvalidInput, err, "run id %q", id)
	}
	return nil
}
