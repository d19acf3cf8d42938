// Package fixtures holds small graphs and decompositions shared by tests.
package fixtures

import (
	"github.com/matzehuels/twbisect/pkg/graph"
	"github.com/matzehuels/twbisect/pkg/nice"
)

// ExampleGraph is a 7-vertex graph made of three overlapping triangles
// with a pendant path 1-2-4. Its max bisection weight is [ExampleWeight].
const ExampleGraph = `p tw 7 9
1 2
2 4
3 4
3 5
4 5
4 6
5 6
5 7
6 7
`

// ExampleWeight is the max bisection weight of [ExampleGraph].
const ExampleWeight = 7.0

// WikiGraph is the 8-vertex graph from the Wikipedia article on tree
// decompositions.
const WikiGraph = `p tw 8 13
1 2
1 3
2 3
2 5
2 6
2 7
3 4
3 5
4 5
5 7
5 8
6 7
7 8
`

// WikiDecomposition is a width-2 decomposition of [WikiGraph].
const WikiDecomposition = `s td 6 3 8
b 1 2 3 5
b 2 1 2 3
b 3 3 4 5
b 4 2 5 7
b 5 2 6 7
b 6 5 7 8
1 2
1 3
1 4
4 5
4 6
`

// WikiWeight is the max bisection weight of [WikiGraph].
const WikiWeight = 9.0

// MustGraph parses a PACE graph and panics on error.
func MustGraph(text string) *graph.Graph {
	g, err := graph.ParseString(text)
	if err != nil {
		panic(err)
	}
	return g
}

// ExampleTree builds a hand-made width-2 nice tree for [ExampleGraph]
// in t and returns its root:
//
//	Intro 3 <- Forget 6 <- Join
//	  Join.left:  Intro 5 <- Forget 2 <- Intro 6 <- Forget 1 <- Leaf {1,2,4}
//	  Join.right: Intro 4 <- Forget 7 <- Leaf {5,6,7}
func ExampleTree(t *nice.Tree) nice.NodeID {
	leaf1 := t.Leaf([]int{1, 2, 4})
	leaf2 := t.Leaf([]int{5, 6, 7})
	fn1 := must(t.Forget(leaf1, 1))
	fn2 := must(t.Forget(leaf2, 7))
	in1 := must(t.Introduce(fn1, 6))
	in2 := must(t.Introduce(fn2, 4))
	fn3 := must(t.Forget(in1, 2))
	in3 := must(t.Introduce(fn3, 5))
	jn := must(t.Join(in3, in2))
	fn4 := must(t.Forget(jn, 6))
	return must(t.Introduce(fn4, 3))
}

// Example returns [ExampleGraph] with the decomposition built by [ExampleTree].
func Example() (*graph.Graph, *nice.Decomposition) {
	g := MustGraph(ExampleGraph)
	t := nice.NewTree()
	d, err := nice.New(g, t, ExampleTree(t))
	if err != nil {
		panic(err)
	}
	return g, d
}

func must(id nice.NodeID, err error) nice.NodeID {
	if err != nil {
		panic(err)
	}
	return id
}
