package nice

import (
	"errors"
	"slices"

	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

var (
	// ErrVertexPresent is returned when introducing a vertex the child bag already holds.
	ErrVertexPresent = errors.New("vertex already in child bag")

	// ErrVertexAbsent is returned when forgetting a vertex the child bag does not hold.
	ErrVertexAbsent = errors.New("vertex not in child bag")

	// ErrBagMismatch is returned when joining children with different bags.
	ErrBagMismatch = errors.New("join children have different bags")

	// ErrUnknownNode is returned when a handle does not belong to the arena.
	ErrUnknownNode = errors.New("unknown node")
)

// Tree is an append-only arena of nice-tree nodes.
type Tree struct {
	nodes []*Node
}

// NewTree returns an empty arena.
func NewTree() *Tree {
	return &Tree{}
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node for id, or nil if id is not in the arena.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

func (t *Tree) add(n *Node) NodeID {
	n.ID = NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return n.ID
}

func (t *Tree) lookup(id NodeID) (*Node, error) {
	n := t.Node(id)
	if n == nil {
		return nil, twerrors.Wrap(twerrors.ErrCodeStructuralViolation, ErrUnknownNode, "handle %d", id)
	}
	return n, nil
}

// Leaf adds a leaf holding a sorted copy of bag.
func (t *Tree) Leaf(bag []int) NodeID {
	b := slices.Clone(bag)
	slices.Sort(b)
	return t.add(&Node{
		Kind:  KindLeaf,
		Bag:   b,
		Child: NoNode,
		Left:  NoNode,
		Right: NoNode,
	})
}

// Introduce adds a node whose bag is child's bag plus v.
func (t *Tree) Introduce(child NodeID, v int) (NodeID, error) {
	c, err := t.lookup(child)
	if err != nil {
		return NoNode, err
	}
	pos, found := slices.BinarySearch(c.Bag, v)
	if found {
		return NoNode, twerrors.Wrap(twerrors.ErrCodeStructuralViolation, ErrVertexPresent,
			"introduce %d into %s", v, c.BagString())
	}
	return t.add(&Node{
		Kind:      KindIntroduce,
		Bag:       slices.Insert(slices.Clone(c.Bag), pos, v),
		Forgotten: c.Forgotten,
		Child:     child,
		Left:      NoNode,
		Right:     NoNode,
		Vertex:    v,
		Pos:       pos,
	}), nil
}

// Forget adds a node whose bag is child's bag minus v.
func (t *Tree) Forget(child NodeID, v int) (NodeID, error) {
	c, err := t.lookup(child)
	if err != nil {
		return NoNode, err
	}
	pos, found := slices.BinarySearch(c.Bag, v)
	if !found {
		return NoNode, twerrors.Wrap(twerrors.ErrCodeStructuralViolation, ErrVertexAbsent,
			"forget %d from %s", v, c.BagString())
	}
	return t.add(&Node{
		Kind:      KindForget,
		Bag:       slices.Delete(slices.Clone(c.Bag), pos, pos+1),
		Forgotten: c.Forgotten + 1,
		Child:     child,
		Left:      NoNode,
		Right:     NoNode,
		Vertex:    v,
		Pos:       pos,
	}), nil
}

// Join adds a node combining two children with identical bags.
func (t *Tree) Join(left, right NodeID) (NodeID, error) {
	l, err := t.lookup(left)
	if err != nil {
		return NoNode, err
	}
	r, err := t.lookup(right)
	if err != nil {
		return NoNode, err
	}
	if !slices.Equal(l.Bag, r.Bag) {
		return NoNode, twerrors.Wrap(twerrors.ErrCodeStructuralViolation, ErrBagMismatch,
			"%s vs %s", l.BagString(), r.BagString())
	}
	return t.add(&Node{
		Kind:      KindJoin,
		Bag:       slices.Clone(l.Bag),
		Forgotten: l.Forgotten + r.Forgotten,
		Child:     NoNode,
		Left:      left,
		Right:     right,
	}), nil
}
