package graph

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/twbisect/internal/pace"
	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

// ReadFile reads a PACE ".gr" file.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, twerrors.Wrap(twerrors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// ParseString parses a PACE graph held in memory.
func ParseString(s string) (*Graph, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a PACE graph: a "p tw <n> <m>" header followed by exactly m
// edge lines "<u> <v>". Every edge gets weight 1.0.
func Parse(r io.Reader) (*Graph, error) {
	return ParseLimited(r, 0)
}

// ParseLimited is [Parse] with an upper bound on the header's vertex count,
// checked before the weight storage is allocated. maxVertices <= 0 means no
// bound.
func ParseLimited(r io.Reader, maxVertices int) (*Graph, error) {
	lines := pace.NewLines(r)

	header, ok := lines.Next()
	if !ok {
		if err := lines.Err(); err != nil {
			return nil, fmt.Errorf("read graph: %w", err)
		}
		return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "invalid graph file: missing \"p tw\" header")
	}
	if len(header) != 4 || header[0] != "p" || header[1] != "tw" {
		return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "invalid graph header %q", lines.Text())
	}
	nm, err := pace.Ints(header[2:])
	if err != nil {
		return nil, twerrors.Wrap(twerrors.ErrCodeInvalidFormat, err, "invalid graph header %q", lines.Text())
	}
	n, m := nm[0], nm[1]
	if m < 0 {
		return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "negative edge count %d", m)
	}

	if maxVertices > 0 && n > maxVertices {
		return nil, twerrors.Wrap(twerrors.ErrCodeCapacityExceeded, ErrTooManyVertices,
			"graph has %d vertices, at most %d accepted", n, maxVertices)
	}

	g, err := New(n)
	if err != nil {
		return nil, err
	}

	for i := 0; i < m; i++ {
		fields, ok := lines.Next()
		if !ok {
			if err := lines.Err(); err != nil {
				return nil, fmt.Errorf("read graph: %w", err)
			}
			return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "expected %d edges, found %d", m, i)
		}
		uv, err := pace.Ints(fields)
		if err != nil || len(uv) != 2 {
			return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "invalid edge %q (line %d)", lines.Text(), lines.Line())
		}
		if err := g.AddEdge(uv[0], uv[1]); err != nil {
			return nil, twerrors.Wrap(twerrors.ErrCodeInvalidFormat, err, "invalid edge %q (line %d)", lines.Text(), lines.Line())
		}
	}

	if _, extra := lines.Next(); extra {
		return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "unexpected line %q after %d edges (line %d)", lines.Text(), m, lines.Line())
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	return g, nil
}

// Format writes g in PACE format. Edge weights are not representable in the
// format; every non-zero pair is written as one edge.
func Format(g *Graph) string {
	var buf bytes.Buffer
	edges := g.Edges()
	fmt.Fprintf(&buf, "p tw %d %d\n", g.Vertices(), len(edges))
	for _, e := range edges {
		fmt.Fprintf(&buf, "%d %d\n", e.U, e.V)
	}
	return buf.String()
}
