package td

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/twbisect/internal/pace"
	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

// ReadFile reads a PACE ".td" file.
func ReadFile(path string) (*Decomposition, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, twerrors.Wrap(twerrors.ErrCodeFileNotFound, err, "tree decomposition file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// ParseString parses a PACE tree decomposition held in memory.
func ParseString(s string) (*Decomposition, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a PACE tree decomposition and assembles it into a tree rooted
// at bag 1.
func Parse(r io.Reader) (*Decomposition, error) {
	lines := pace.NewLines(r)

	header, ok := lines.Next()
	if !ok {
		if err := lines.Err(); err != nil {
			return nil, fmt.Errorf("read tree decomposition: %w", err)
		}
		return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "invalid tree decomposition file: missing \"s td\" header")
	}
	if len(header) != 5 || header[0] != "s" || header[1] != "td" {
		return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "invalid tree decomposition header %q", lines.Text())
	}
	nums, err := pace.Ints(header[2:])
	if err != nil {
		return nil, twerrors.Wrap(twerrors.ErrCodeInvalidFormat, err, "invalid tree decomposition header %q", lines.Text())
	}
	numBags, maxBagSize, numVertices := nums[0], nums[1], nums[2]
	if numBags < 1 || maxBagSize < 0 || numVertices < 0 {
		return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "invalid tree decomposition header %q", lines.Text())
	}

	d := &Decomposition{
		Bags:        make([]*Bag, numBags),
		Width:       maxBagSize - 1,
		NumVertices: numVertices,
	}

	for i := 0; i < numBags; i++ {
		fields, ok := lines.Next()
		if !ok {
			if err := lines.Err(); err != nil {
				return nil, fmt.Errorf("read tree decomposition: %w", err)
			}
			return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "expected %d bags, found %d", numBags, i)
		}
		if len(fields) < 2 || fields[0] != "b" || fields[1] != strconv.Itoa(i+1) {
			return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "invalid bag %q (line %d)", lines.Text(), lines.Line())
		}
		vertices, err := pace.Ints(fields[2:])
		if err != nil {
			return nil, twerrors.Wrap(twerrors.ErrCodeInvalidFormat, err, "invalid bag %q (line %d)", lines.Text(), lines.Line())
		}
		slices.Sort(vertices)
		for j, v := range vertices {
			if v < 1 || v > numVertices {
				return nil, twerrors.New(twerrors.ErrCodeInvalidFormat,
					"bag %d holds vertex %d outside [1,%d]", i+1, v, numVertices)
			}
			if j > 0 && vertices[j-1] == v {
				return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "bag %d lists vertex %d twice", i+1, v)
			}
		}
		d.Bags[i] = &Bag{Index: i + 1, Vertices: vertices}
	}

	var edges []Edge
	for {
		fields, ok := lines.Next()
		if !ok {
			break
		}
		ab, err := pace.Ints(fields)
		if err != nil || len(ab) != 2 {
			return nil, twerrors.New(twerrors.ErrCodeInvalidFormat, "invalid tree edge %q (line %d)", lines.Text(), lines.Line())
		}
		edges = append(edges, Edge{From: ab[0], To: ab[1]})
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("read tree decomposition: %w", err)
	}

	root, err := Assemble(d.Bags, edges)
	if err != nil {
		return nil, err
	}
	d.Root = root
	return d, nil
}

// Format writes d in PACE format. Edges are emitted parent-first in
// depth-first order from the root.
func Format(d *Decomposition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "s td %d %d %d\n", len(d.Bags), d.MaxBagSize(), d.NumVertices)
	for _, bag := range d.Bags {
		b.WriteString("b ")
		b.WriteString(strconv.Itoa(bag.Index))
		for _, v := range bag.Vertices {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(v))
		}
		b.WriteByte('\n')
	}
	var walk func(*Bag)
	walk = func(parent *Bag) {
		for _, c := range parent.Children {
			fmt.Fprintf(&b, "%d %d\n", parent.Index, c.Index)
			walk(c)
		}
	}
	if d.Root != nil {
		walk(d.Root)
	}
	return b.String()
}
