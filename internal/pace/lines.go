// Package pace reads the line-oriented PACE challenge formats shared by
// graph (.gr) and tree-decomposition (.td) files.
package pace

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single line; bag lines of wide decompositions can be long.
const maxLineBytes = 16 << 20

// Lines yields the non-comment, non-blank lines of a PACE file as
// whitespace-separated fields. Lines starting with "c" are comments.
type Lines struct {
	sc   *bufio.Scanner
	line int
	text string
}

// NewLines wraps r.
func NewLines(r io.Reader) *Lines {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Lines{sc: sc}
}

// Next advances to the next content line and returns its fields.
// It returns false at EOF or on a read error; check Err afterwards.
func (l *Lines) Next() ([]string, bool) {
	for l.sc.Scan() {
		l.line++
		text := strings.TrimSpace(l.sc.Text())
		if text == "" || strings.HasPrefix(text, "c") {
			continue
		}
		l.text = text
		return strings.Fields(text), true
	}
	return nil, false
}

// Line returns the 1-based number of the line last returned by Next.
func (l *Lines) Line() int { return l.line }

// Text returns the trimmed text of the line last returned by Next.
func (l *Lines) Text() string { return l.text }

// Err returns the first read error, if any.
func (l *Lines) Err() error { return l.sc.Err() }

// Ints parses every field as a base-10 integer.
func Ints(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
