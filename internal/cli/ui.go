package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TadaTeruki/transport-generation-experiment/pkg/growth"
	"github.com/TadaTeruki/transport-generation-experiment/pkg/network"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
)

const (
	iconSuccess = "✓"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+styleValue.Render(value))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printNetworkSummary prints the shape of a grown network and what the
// growth loop did.
func printNetworkSummary(w io.Writer, s network.Stats, g growth.Stats) {
	fmt.Fprintln(w, styleTitle.Render("Network"))
	printKeyValue(w, "nodes", fmt.Sprintf("%d", s.Nodes))
	printKeyValue(w, "edges", fmt.Sprintf("%d (%d highway, %d even)", s.Edges, s.HighwayEdges, s.EvenEdges))
	printKeyValue(w, "length", fmt.Sprintf("%.1f", s.TotalLength))

	parts := []string{
		fmt.Sprintf("%d iterations", g.Iterations),
		fmt.Sprintf("%d committed", g.Committed),
		fmt.Sprintf("%d merged", g.Merged),
		fmt.Sprintf("%d split", g.Split),
		fmt.Sprintf("%d discarded", g.Discarded),
	}
	fmt.Fprintln(w, "  "+styleDim.Render(strings.Join(parts, " · ")))
}
