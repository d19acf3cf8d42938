// Package td provides generic (unrestricted) tree decompositions as supplied
// by a decomposition solver, in the PACE ".td" format.
//
// # Overview
//
// A tree decomposition is a tree of [Bag]s, each holding a sorted set of
// graph vertices, such that every graph edge lies inside some bag and the
// bags containing any one vertex form a connected subtree. Branching is
// unrestricted; package nice turns a Decomposition into the binary
// Leaf/Introduce/Forget/Join form that the bisection solver needs.
//
// # PACE Format
//
//	c comment lines start with "c"
//	s td 4 3 5        <numBags> <maxBagSize> <numVertices>
//	b 1 1 2 3         <bagIndex> <vertices...>
//	b 2 2 3 4
//	b 3 3 4 5
//	b 4
//	1 2               tree edges over bag indices
//	2 3
//	2 4
//
// The declared width is maxBagSize - 1. Bag indices must follow their
// declaration order. Bag 1 becomes the root.
//
// # Assembly
//
// Tree edges may arrive in any order. [Assemble] attaches an edge as soon as
// one of its endpoints is connected to the root and re-queues edges whose
// endpoints are both still detached. An edge joining two bags that are both
// already rooted closes a cycle; a full pass over the queue without progress
// means the edge set is disconnected. Both are reported as
// INVALID_DECOMPOSITION errors.
//
// # Validation
//
// Parsing does not check the decomposition against a graph. Call
// [Decomposition.Validate] to verify vertex coverage, edge coverage and the
// connected-subtree property before trusting the solver's result.
package td
