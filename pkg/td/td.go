package td

import (
	"fmt"
	"slices"
	"strings"
)

// Bag is one node of a generic tree decomposition.
type Bag struct {
	Index    int   // 1-based declaration index
	Vertices []int // ascending
	Children []*Bag
}

// NewBag returns a childless bag holding a sorted copy of vertices.
func NewBag(index int, vertices ...int) *Bag {
	vs := slices.Clone(vertices)
	slices.Sort(vs)
	return &Bag{Index: index, Vertices: vs}
}

// Contains reports whether v is in the bag.
func (b *Bag) Contains(v int) bool {
	_, ok := slices.BinarySearch(b.Vertices, v)
	return ok
}

func (b *Bag) String() string {
	parts := make([]string, len(b.Vertices))
	for i, v := range b.Vertices {
		parts[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%d{%s}", b.Index, strings.Join(parts, ","))
}

// Edge is an undirected tree edge between two bag indices.
type Edge struct {
	From, To int
}

// Decomposition is a rooted generic tree decomposition.
type Decomposition struct {
	Root        *Bag
	Bags        []*Bag // Bags[i].Index == i+1
	Width       int    // declared width (max bag size - 1)
	NumVertices int    // declared vertex count of the decomposed graph
}

// CountNodes returns the number of bags reachable from the root.
func (d *Decomposition) CountNodes() int {
	if d.Root == nil {
		return 0
	}
	return countNodes(d.Root)
}

func countNodes(b *Bag) int {
	n := 1
	for _, c := range b.Children {
		n += countNodes(c)
	}
	return n
}

// MaxBagSize returns the size of the largest bag.
func (d *Decomposition) MaxBagSize() int {
	max := 0
	for _, b := range d.Bags {
		if len(b.Vertices) > max {
			max = len(b.Vertices)
		}
	}
	return max
}
