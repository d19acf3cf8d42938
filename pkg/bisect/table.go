package bisect

import "math"

var negInf = math.Inf(-1)

// Table is the DP matrix of one node: one row per subset mask of its bag,
// one column per count of forgotten vertices on side A.
type Table struct {
	rows, cols int
	cells      []float64
}

// NewTable allocates a subsets x (forgotten+1) table filled with -Inf.
func NewTable(subsets, forgotten int) *Table {
	t := &Table{
		rows:  subsets,
		cols:  forgotten + 1,
		cells: make([]float64, subsets*(forgotten+1)),
	}
	for i := range t.cells {
		t.cells[i] = negInf
	}
	return t
}

// At returns B[s][l].
func (t *Table) At(s, l int) float64 { return t.cells[s*t.cols+l] }

// Set assigns B[s][l].
func (t *Table) Set(s, l int, v float64) { t.cells[s*t.cols+l] = v }

// Row returns the cells of mask s. The slice aliases the table.
func (t *Table) Row(s int) []float64 { return t.cells[s*t.cols : (s+1)*t.cols] }

// Rows returns the number of subset masks.
func (t *Table) Rows() int { return t.rows }

// Cols returns the number of forgotten-count columns.
func (t *Table) Cols() int { return t.cols }

// Cells returns rows*cols.
func (t *Table) Cells() int { return len(t.cells) }
