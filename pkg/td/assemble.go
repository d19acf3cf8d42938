package td

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"

	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

// Assemble links bags into a tree rooted at bags[0] using the undirected
// edges, which may be listed in any order. Children are appended in the order
// their edges are attached. Existing Children slices are reset.
func Assemble(bags []*Bag, edges []Edge) (*Bag, error) {
	if len(bags) == 0 {
		return nil, twerrors.New(twerrors.ErrCodeInvalidDecomposition, "tree decomposition has no bags")
	}
	for _, b := range bags {
		b.Children = nil
	}

	pending := linkedlistqueue.New()
	for _, e := range edges {
		if e.From < 1 || e.From > len(bags) || e.To < 1 || e.To > len(bags) {
			return nil, twerrors.New(twerrors.ErrCodeInvalidDecomposition,
				"tree edge %d-%d references a bag outside [1,%d]", e.From, e.To, len(bags))
		}
		if e.From == e.To {
			return nil, twerrors.New(twerrors.ErrCodeInvalidDecomposition, "tree edge %d-%d is a loop", e.From, e.To)
		}
		pending.Enqueue(e)
	}

	rooted := make([]bool, len(bags))
	rooted[0] = true
	numRooted := 1

	// stalled counts consecutive deferrals; a whole pass without progress
	// means the remaining edges never reach the root.
	stalled := 0
	for !pending.Empty() {
		v, _ := pending.Dequeue()
		e := v.(Edge)
		from, to := e.From-1, e.To-1

		switch {
		case rooted[from] && rooted[to]:
			return nil, twerrors.New(twerrors.ErrCodeInvalidDecomposition,
				"tree edge %d-%d closes a cycle: this graph is not a tree", e.From, e.To)
		case rooted[from]:
			bags[from].Children = append(bags[from].Children, bags[to])
			rooted[to] = true
		case rooted[to]:
			bags[to].Children = append(bags[to].Children, bags[from])
			rooted[from] = true
		default:
			pending.Enqueue(e)
			stalled++
			if stalled > pending.Size() {
				return nil, twerrors.New(twerrors.ErrCodeInvalidDecomposition,
					"tree edges are disconnected from the root (%d edges never attach)", pending.Size())
			}
			continue
		}
		numRooted++
		stalled = 0
	}

	if numRooted != len(bags) {
		for i, ok := range rooted {
			if !ok {
				return nil, twerrors.New(twerrors.ErrCodeInvalidDecomposition,
					"bag %d is not connected to the root", i+1)
			}
		}
	}
	return bags[0], nil
}
