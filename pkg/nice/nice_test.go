package nice_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/twbisect/internal/fixtures"
	twerrors "github.com/matzehuels/twbisect/pkg/errors"
	"github.com/matzehuels/twbisect/pkg/graph"
	"github.com/matzehuels/twbisect/pkg/nice"
	"github.com/matzehuels/twbisect/pkg/td"
)

func TestExampleTreeLayering(t *testing.T) {
	_, d := fixtures.Example()

	require.Equal(t, 2, d.Width)
	require.Len(t, d.Layers, 8)
	require.Equal(t, 11, d.NumNodes)
	require.Equal(t, []nice.NodeID{d.Root}, d.Layers[0])

	deepest := d.Layers[len(d.Layers)-1]
	require.Len(t, deepest, 1)
	leaf := d.Node(deepest[0])
	require.Equal(t, nice.KindLeaf, leaf.Kind)
	require.Equal(t, []int{1, 2, 4}, leaf.Bag)

	root := d.RootNode()
	require.Equal(t, nice.KindIntroduce, root.Kind)
	require.Equal(t, []int{3, 4, 5}, root.Bag)
	require.Equal(t, 4, root.Forgotten)
	require.False(t, d.Suboptimal())
}

func TestLayersFollowChildren(t *testing.T) {
	_, d := fixtures.Example()

	depth := map[nice.NodeID]int{}
	for i, layer := range d.Layers {
		for _, id := range layer {
			depth[id] = i
		}
	}
	for i, layer := range d.Layers {
		for _, id := range layer {
			for _, c := range d.Node(id).Children() {
				require.Equal(t, i+1, depth[c], "child %d of %s", c, d.Node(id))
			}
		}
	}

	join := d.Node(d.Layers[2][0])
	require.Equal(t, nice.KindJoin, join.Kind)
	require.Equal(t, []nice.NodeID{join.Left, join.Right}, d.Layers[3])
}

func TestTrivial(t *testing.T) {
	g := fixtures.MustGraph(fixtures.ExampleGraph)
	d, err := nice.Trivial(g)
	require.NoError(t, err)
	require.Equal(t, g.Vertices()-1, d.Width)
	require.Len(t, d.Layers, 1)
	require.Equal(t, nice.KindLeaf, d.RootNode().Kind)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, d.RootNode().Bag)
}

func TestCapacity(t *testing.T) {
	g, err := graph.New(nice.MaxBagSize)
	require.NoError(t, err)
	d, err := nice.Trivial(g)
	require.NoError(t, err)
	require.Equal(t, nice.MaxBagSize-1, d.Width)

	g, err = graph.New(nice.MaxBagSize + 1)
	require.NoError(t, err)
	_, err = nice.Trivial(g)
	require.Error(t, err)
	require.True(t, twerrors.Is(err, twerrors.ErrCodeCapacityExceeded))
	require.ErrorIs(t, err, nice.ErrTreewidthTooLarge)
	require.Contains(t, err.Error(), "width 31")
}

func TestInvalidNodes(t *testing.T) {
	tr := nice.NewTree()
	leaf := tr.Leaf([]int{1, 2, 3})

	_, err := tr.Introduce(leaf, 1)
	require.ErrorIs(t, err, nice.ErrVertexPresent)
	require.True(t, twerrors.Is(err, twerrors.ErrCodeStructuralViolation))

	_, err = tr.Forget(leaf, 4)
	require.ErrorIs(t, err, nice.ErrVertexAbsent)
	require.True(t, twerrors.Is(err, twerrors.ErrCodeStructuralViolation))

	other := tr.Leaf([]int{3, 4, 5})
	_, err = tr.Join(leaf, other)
	require.ErrorIs(t, err, nice.ErrBagMismatch)
	require.True(t, twerrors.Is(err, twerrors.ErrCodeStructuralViolation))

	_, err = tr.Forget(nice.NodeID(42), 1)
	require.ErrorIs(t, err, nice.ErrUnknownNode)

	require.Equal(t, 2, tr.Len())
}

func TestForgottenCounts(t *testing.T) {
	tr := nice.NewTree()
	leaf := tr.Leaf([]int{0, 1, 2})
	require.Equal(t, 0, tr.Node(leaf).Forgotten)

	f, err := tr.Forget(leaf, 1)
	require.NoError(t, err)
	require.Equal(t, 1, tr.Node(f).Forgotten)

	in, err := tr.Introduce(f, 7)
	require.NoError(t, err)
	require.Equal(t, 1, tr.Node(in).Forgotten)

	other := tr.Leaf([]int{2, 7, 9})
	f2, err := tr.Forget(other, 9)
	require.NoError(t, err)
	f3, err := tr.Introduce(f2, 0)
	require.NoError(t, err)

	j, err := tr.Join(in, f3)
	require.NoError(t, err)
	require.Equal(t, 2, tr.Node(j).Forgotten)
	require.Equal(t, []int{0, 2, 7}, tr.Node(j).Bag)
}

func TestNumSubsets(t *testing.T) {
	tr := nice.NewTree()
	require.Equal(t, 8, tr.Node(tr.Leaf([]int{0, 1, 2})).NumSubsets())
	require.Equal(t, 2, tr.Node(tr.Leaf([]int{0})).NumSubsets())
	require.Equal(t, 1, tr.Node(tr.Leaf(nil)).NumSubsets())
}

func TestSubsetString(t *testing.T) {
	tr := nice.NewTree()
	n := tr.Node(tr.Leaf([]int{0, 1, 2, 4, 5}))
	require.Equal(t, "0,4", n.SubsetString(1+8))
	require.Equal(t, "", n.SubsetString(0))
	require.Equal(t, "Leaf {0,1,2,4,5}", n.String())
}

func TestChildSubset(t *testing.T) {
	tr := nice.NewTree()
	leaf := tr.Leaf([]int{0, 1, 2, 4, 5})
	node := tr.Node(leaf)

	inID, err := tr.Introduce(leaf, 3)
	require.NoError(t, err)
	in := tr.Node(inID)
	require.Equal(t, 3, in.Pos)
	require.Equal(t, "Intro 3 {0,1,2,3,4,5}", in.String())

	s := 1 + 4 + 16 + 32 // 0,2,4,5
	cs := in.ChildSubset(s)
	require.Equal(t, 1+4+8+16, cs)
	require.Equal(t, in.SubsetString(s), node.SubsetString(cs))
	require.False(t, in.HasNewVertex(s))
	require.True(t, in.HasNewVertex(s|8))
	require.Equal(t, cs, in.ChildSubset(s|8))

	fnID, err := tr.Forget(leaf, 2)
	require.NoError(t, err)
	fn := tr.Node(fnID)
	require.Equal(t, 2, fn.Pos)

	s = 1 + 4 + 8 // 0,4,5
	without := fn.ForgetChildSubset(s, false)
	with := fn.ForgetChildSubset(s, true)
	require.Equal(t, fn.SubsetString(s), node.SubsetString(without))
	require.Equal(t, "0,2,4,5", node.SubsetString(with))
	require.Less(t, without, with)
}

func TestComplement(t *testing.T) {
	tr := nice.NewTree()
	n := tr.Node(tr.Leaf([]int{0, 1, 2, 3, 4}))

	s := 2 + 8
	c := n.Complement(s)
	require.Positive(t, c)
	require.Zero(t, c&s)
	require.Equal(t, n.NumSubsets()-1, c|s)
	require.Equal(t, s, n.Complement(c))
}

func TestSuboptimal(t *testing.T) {
	g, err := graph.New(2)
	require.NoError(t, err)

	tr := nice.NewTree()
	cur := tr.Leaf([]int{1})
	for range 5 {
		cur, err = tr.Introduce(cur, 2)
		require.NoError(t, err)
		cur, err = tr.Forget(cur, 2)
		require.NoError(t, err)
	}
	d, err := nice.New(g, tr, cur)
	require.NoError(t, err)
	require.Equal(t, 11, d.NumNodes)
	require.True(t, d.Suboptimal())
}

func TestNormalizeWiki(t *testing.T) {
	g := fixtures.MustGraph(fixtures.WikiGraph)
	tdec, err := td.ParseString(fixtures.WikiDecomposition)
	require.NoError(t, err)

	d, err := nice.Normalize(g, tdec)
	require.NoError(t, err)

	root := d.RootNode()
	require.Equal(t, tdec.Root.Vertices, root.Bag)
	require.Equal(t, nice.KindJoin, root.Kind)
	require.Equal(t, g.Vertices(), root.Forgotten+root.Size())
	require.Equal(t, 2, d.Width)
	require.Equal(t, 17, d.NumNodes)
	require.GreaterOrEqual(t, d.NumNodes, tdec.CountNodes())
	require.Len(t, d.Layers, 7)

	counts := d.KindCounts()
	require.Equal(t, 4, counts[nice.KindLeaf])
	require.Equal(t, 3, counts[nice.KindJoin])
	require.Equal(t, 5, counts[nice.KindForget])
	require.Equal(t, 5, counts[nice.KindIntroduce])
}

func TestNormalizeFanIn(t *testing.T) {
	root := td.NewBag(1, 1)
	for i := 2; i <= 6; i++ {
		root.Children = append(root.Children, td.NewBag(i, 1, i))
	}
	g, err := graph.New(6)
	require.NoError(t, err)

	d, err := nice.Normalize(g, &td.Decomposition{Root: root, NumVertices: 6})
	require.NoError(t, err)
	require.Equal(t, 4, d.KindCounts()[nice.KindJoin])
	require.Len(t, d.Layers, 5)
	require.Equal(t, []int{1}, d.RootNode().Bag)
	require.Equal(t, 5, d.RootNode().Forgotten)
}

func TestNormalizeSingleBag(t *testing.T) {
	g := fixtures.MustGraph(fixtures.ExampleGraph)
	d, err := nice.Normalize(g, &td.Decomposition{Root: td.NewBag(1, 7, 6, 5, 4, 3, 2, 1)})
	require.NoError(t, err)
	require.Equal(t, 1, d.NumNodes)
	require.Equal(t, nice.KindLeaf, d.RootNode().Kind)
	require.Equal(t, 6, d.Width)
}

func TestNormalizeEmptyBags(t *testing.T) {
	tdec, err := td.ParseString(`s td 4 3 5
b 1 1 2 3
b 2 2 3 4
b 3 3 4 5
b 4
1 2
2 3
2 4
`)
	require.NoError(t, err)
	g, err := graph.New(5)
	require.NoError(t, err)

	d, err := nice.Normalize(g, tdec)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, d.RootNode().Bag)
	require.Equal(t, 2, d.Width)
}

func TestNormalizeNoRoot(t *testing.T) {
	g := fixtures.MustGraph(fixtures.ExampleGraph)
	_, err := nice.Normalize(g, &td.Decomposition{})
	require.True(t, twerrors.Is(err, twerrors.ErrCodeInvalidDecomposition))
}

func TestNormalizeVertexOutOfRange(t *testing.T) {
	g, err := graph.New(3)
	require.NoError(t, err)

	tdec, err := td.ParseString("s td 2 3 5\nb 1 1 2 3\nb 2 3 4 5\n1 2\n")
	require.NoError(t, err)
	tdec.NumVertices = 0

	_, err = nice.Normalize(g, tdec)
	require.ErrorIs(t, err, nice.ErrVertexOutOfRange)
	require.True(t, twerrors.Is(err, twerrors.ErrCodeInvalidDecomposition))

	tr := nice.NewTree()
	_, err = nice.New(g, tr, tr.Leaf([]int{0, 1}))
	require.ErrorIs(t, err, nice.ErrVertexOutOfRange)
}

func TestNormalizeVertexCountMismatch(t *testing.T) {
	g, err := graph.New(4)
	require.NoError(t, err)

	tdec, err := td.ParseString("s td 1 2 5\nb 1 1 5\n")
	require.NoError(t, err)

	_, err = nice.Normalize(g, tdec)
	require.True(t, twerrors.Is(err, twerrors.ErrCodeInvalidDecomposition))
	require.Contains(t, err.Error(), "declares 5 vertices, graph has 4")
}
