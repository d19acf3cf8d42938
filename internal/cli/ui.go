package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/twbisect/pkg/nice"
	"github.com/matzehuels/twbisect/pkg/pipeline"
)

// stdout receives all command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorOrange = lipgloss.Color("215") // Join nodes
	colorBlue   = lipgloss.Color("75")  // Introduce nodes
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// kindStyles colors nice tree nodes like the rendered tree does.
var kindStyles = map[nice.Kind]lipgloss.Style{
	nice.KindLeaf:      lipgloss.NewStyle().Foreground(colorGray),
	nice.KindIntroduce: lipgloss.NewStyle().Foreground(colorBlue),
	nice.KindForget:    lipgloss.NewStyle().Foreground(colorRed),
	nice.KindJoin:      lipgloss.NewStyle().Foreground(colorOrange),
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(20)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Result Display
// =============================================================================

// printStats prints instance and decomposition statistics.
func printStats(s pipeline.Stats, trivial bool) {
	printKeyValue("Vertices", strconv.Itoa(s.Vertices))
	printKeyValue("Edges", strconv.Itoa(s.Edges))
	printKeyValue("Treewidth", strconv.Itoa(s.Width))
	if !trivial {
		printKeyValue("TD bags", strconv.Itoa(s.Bags))
	}
	printKeyValue("NTD nodes", strconv.Itoa(s.NiceNodes))
	printKeyValue("NTD layers", strconv.Itoa(s.Layers))
	if s.Suboptimal {
		printWarning("tree decomposition is suboptimal (%d nodes > 4n = %d)", s.NiceNodes, 4*s.Vertices)
	}
}

// printTimings prints stage durations on a single dimmed line.
func printTimings(s pipeline.Stats, cached bool) {
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	line := fmt.Sprintf("parse %s · normalize %s · evaluate %s · peak %d cells",
		fmtDuration(s.ParseTime), fmtDuration(s.NormalizeTime), fmtDuration(s.EvaluateTime), s.PeakCells)
	fmt.Fprintln(stdout, "  "+StyleDim.Render(line)+StyleDim.Render(" · ")+statusStyle.Render(status))
}

func fmtDuration(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}

// =============================================================================
// Layer Table
// =============================================================================

// layerRows summarizes each layer of d: index, node count, per-kind counts
// and the largest bag.
func layerRows(d *nice.Decomposition) [][]string {
	rows := make([][]string, len(d.Layers))
	for i, layer := range d.Layers {
		counts := map[nice.Kind]int{}
		widest := 0
		for _, id := range layer {
			n := d.Node(id)
			counts[n.Kind]++
			widest = max(widest, n.Size())
		}
		rows[i] = []string{
			strconv.Itoa(i),
			strconv.Itoa(len(layer)),
			strconv.Itoa(counts[nice.KindLeaf]),
			strconv.Itoa(counts[nice.KindIntroduce]),
			strconv.Itoa(counts[nice.KindForget]),
			strconv.Itoa(counts[nice.KindJoin]),
			strconv.Itoa(widest),
		}
	}
	return rows
}

// layerTable renders the per-layer summary. Layer 0 holds the root.
func layerTable(d *nice.Decomposition) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layer", "Nodes", "Leaf", "Intro", "Forget", "Join", "Max bag").
		Rows(layerRows(d)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return styleHeader
			case col == 0:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
