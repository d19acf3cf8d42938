package nodelink_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/twbisect/internal/fixtures"
	"github.com/matzehuels/twbisect/pkg/render/nodelink"
)

func ExampleTreeDOT() {
	_, d := fixtures.Example()
	dot := nodelink.TreeDOT(d, nodelink.Options{})
	fmt.Println(strings.Count(dot, "->"), "tree edges")
	// Output: 10 tree edges
}

func ExampleRenderSVG() {
	g := fixtures.MustGraph("p tw 2 1\n1 2\n")
	svg, err := nodelink.RenderSVG(context.Background(), nodelink.GraphDOT(g))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(strings.Contains(string(svg), "<svg"))
	// Output: true
}
