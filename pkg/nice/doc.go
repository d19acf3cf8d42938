// Package nice provides nice tree decompositions and the normalizer that
// derives them from generic tree decompositions.
//
// # Overview
//
// A nice tree decomposition is a binary tree whose nodes come in four kinds:
//
//   - [KindLeaf]: a fixed bag, no children
//   - [KindIntroduce]: the child's bag plus one new vertex
//   - [KindForget]: the child's bag minus one vertex
//   - [KindJoin]: two children with identical bags
//
// Every node carries its bag in ascending order and the number of vertices
// forgotten somewhere below it. Bit i of a subset mask over a node refers to
// Bag[i], which is what the bisection dynamic program indexes by.
//
// # Node Arena
//
// Nodes live in a [Tree] arena and are addressed by [NodeID] handles assigned
// at insertion time. Two nodes with identical bags are still distinct
// entries, which lets per-layer evaluation results be keyed by handle.
//
//	t := nice.NewTree()
//	leaf := t.Leaf([]int{1, 2, 4})
//	f, _ := t.Forget(leaf, 1)
//	root, _ := t.Introduce(f, 6)
//	d, err := nice.New(g, t, root)
//
// # Layering
//
// [New] lays the tree out breadth-first: layer 0 holds the root and layer
// k+1 holds the children of layer k (Join contributes left then right). The
// evaluator walks layers deepest-first. While layering, New tracks the width
// and rejects any bag with more than [MaxBagSize] vertices, since subset
// masks over such a bag do not fit the DP's address space.
//
// # Normalization
//
// [Normalize] converts a generic decomposition recursively: a childless bag
// becomes a Leaf; every child subtree is bridged to its parent's bag by
// Forget steps followed by Introduce steps; several children are combined by
// a balanced fan-in of Join nodes, keeping the join depth logarithmic in the
// branching factor.
package nice
