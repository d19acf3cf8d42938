package nice

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeID is a handle into a [Tree] arena.
type NodeID int

// NoNode marks an absent child.
const NoNode NodeID = -1

// Kind tags the variant of a nice-tree node.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindIntroduce
	KindForget
	KindJoin
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindIntroduce:
		return "Intro"
	case KindForget:
		return "Forget"
	case KindJoin:
		return "Join"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is one nice-tree node. Which fields are meaningful depends on Kind:
//
//   - Introduce: Child, Vertex (the new vertex), Pos (its index in Bag)
//   - Forget: Child, Vertex (the forgotten vertex), Pos (its index in the child's bag)
//   - Join: Left, Right
type Node struct {
	ID        NodeID
	Kind      Kind
	Bag       []int // ascending
	Forgotten int

	Child       NodeID
	Left, Right NodeID
	Vertex      int
	Pos         int
}

// Size returns the number of vertices in the bag.
func (n *Node) Size() int { return len(n.Bag) }

// NumSubsets returns 2^Size, the number of subset masks over the bag.
func (n *Node) NumSubsets() int { return 1 << len(n.Bag) }

// Complement returns the mask of bag vertices not in s.
func (n *Node) Complement(s int) int {
	return ^s & (n.NumSubsets() - 1)
}

// ChildSubset maps a mask over an Introduce node's bag to the mask over its
// child's bag by dropping bit Pos and shifting the higher bits down.
func (n *Node) ChildSubset(s int) int {
	low := (1 << n.Pos) - 1
	return ((s >> 1) &^ low) | (s & low)
}

// HasNewVertex reports whether mask s of an Introduce node contains the
// introduced vertex.
func (n *Node) HasNewVertex(s int) bool {
	return s&(1<<n.Pos) != 0
}

// ForgetChildSubset maps a mask over a Forget node's bag to the mask over its
// child's bag, placing the forgotten vertex's bit at Pos.
func (n *Node) ForgetChildSubset(s int, withForgotten bool) int {
	low := (1 << n.Pos) - 1
	sub := ((s &^ low) << 1) | (s & low)
	if withForgotten {
		sub |= 1 << n.Pos
	}
	return sub
}

// Children returns the child handles in evaluation order.
func (n *Node) Children() []NodeID {
	switch n.Kind {
	case KindIntroduce, KindForget:
		return []NodeID{n.Child}
	case KindJoin:
		return []NodeID{n.Left, n.Right}
	}
	return nil
}

// SubsetString lists the bag vertices selected by s, comma separated.
func (n *Node) SubsetString(s int) string {
	var parts []string
	for i, v := range n.Bag {
		if s&(1<<i) != 0 {
			parts = append(parts, strconv.Itoa(v))
		}
	}
	return strings.Join(parts, ",")
}

// BagString renders the bag as "{v1,v2,...}".
func (n *Node) BagString() string {
	return "{" + n.SubsetString(n.NumSubsets()-1) + "}"
}

func (n *Node) String() string {
	switch n.Kind {
	case KindIntroduce, KindForget:
		return fmt.Sprintf("%s %d %s", n.Kind, n.Vertex, n.BagString())
	}
	return n.Kind.String() + " " + n.BagString()
}
