package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/twbisect/pkg/nice"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Interactive layer browser
// =============================================================================

// InspectModel is the bubbletea model for browsing a nice tree decomposition
// layer by layer. Layer 0 holds the root; children sit one layer deeper.
type InspectModel struct {
	D      *nice.Decomposition
	Layer  int // current layer
	Cursor int // index into the current layer
	Offset int // first visible row
	Height int // visible rows

	layerOf  []int
	indexOf  []int
	parentOf []nice.NodeID
}

// NewInspectModel creates a browser positioned on the root.
func NewInspectModel(d *nice.Decomposition) InspectModel {
	n := d.Tree.Len()
	m := InspectModel{
		D:        d,
		Height:   15,
		layerOf:  make([]int, n),
		indexOf:  make([]int, n),
		parentOf: make([]nice.NodeID, n),
	}
	for i := range m.parentOf {
		m.parentOf[i] = nice.NoNode
	}
	for depth, layer := range d.Layers {
		for i, id := range layer {
			m.layerOf[id] = depth
			m.indexOf[id] = i
			for _, c := range d.Node(id).Children() {
				m.parentOf[c] = id
			}
		}
	}
	return m
}

// Selected returns the node under the cursor.
func (m InspectModel) Selected() *nice.Node {
	return m.D.Node(m.D.Layers[m.Layer][m.Cursor])
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.D.Layers[m.Layer])-1 {
				m.Cursor++
			}
		case "left", "h":
			if m.Layer > 0 {
				m.setLayer(m.Layer-1, 0)
			}
		case "right", "l":
			if m.Layer < m.D.Depth()-1 {
				m.setLayer(m.Layer+1, 0)
			}
		case "enter", "c":
			if children := m.Selected().Children(); len(children) > 0 {
				m.jump(children[0])
			}
		case "p", "backspace":
			if p := m.parentOf[m.Selected().ID]; p != nice.NoNode {
				m.jump(p)
			}
		case "r":
			m.jump(m.D.Root)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	m.scroll()
	return m, nil
}

func (m *InspectModel) setLayer(layer, cursor int) {
	m.Layer, m.Cursor, m.Offset = layer, cursor, 0
}

func (m *InspectModel) jump(id nice.NodeID) {
	m.setLayer(m.layerOf[id], m.indexOf[id])
}

// scroll keeps the cursor inside the visible window.
func (m *InspectModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m InspectModel) View() string {
	var b strings.Builder
	layer := m.D.Layers[m.Layer]

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Layer %d/%d", m.Layer, m.D.Depth()-1)))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d nodes · width %d · %d nodes total", len(layer), m.D.Width, m.D.NumNodes)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ node  ←/→ layer  ⏎ child  p parent  r root  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(layer))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		n := m.D.Node(layer[i])
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		vertex := "—"
		if n.Kind == nice.KindIntroduce || n.Kind == nice.KindForget {
			vertex = strconv.Itoa(n.Vertex)
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(int(n.ID)),
			n.Kind.String(),
			vertex,
			n.BagString(),
			strconv.Itoa(n.Forgotten),
			strconv.Itoa(n.NumSubsets()),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Kind", "Vertex", "Bag", "Forgotten", "Subsets").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(layer) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 2 {
				base = kindStyles[m.D.Node(layer[idx]).Kind]
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.detail())
	return b.String()
}

// detail describes the selected node and its neighbours in the tree.
func (m InspectModel) detail() string {
	n := m.Selected()
	var b strings.Builder
	label := n.String()
	if n.ID == m.D.Root {
		label = "Root: " + label
	}
	b.WriteString(listSelectedStyle.Render(label))
	b.WriteString("\n")
	if p := m.parentOf[n.ID]; p != nice.NoNode {
		b.WriteString(listDimStyle.Render("  parent  " + m.D.Node(p).String()))
		b.WriteString("\n")
	}
	for _, c := range n.Children() {
		b.WriteString(listDimStyle.Render("  child   " + m.D.Node(c).String()))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.D.Layers[m.Layer]))))
	return b.String()
}
