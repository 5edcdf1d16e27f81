package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/msalah0e/tradegraph/internal/graph"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Entity type colors, closest terminal match to graph.TypeColors.
var typeColors = map[graph.EntityType]*color.Color{
	graph.Country:  color.New(color.FgHiYellow),
	graph.Supplier: color.New(color.FgGreen),
	graph.Product:  color.New(color.FgMagenta),
	graph.Importer: color.New(color.FgBlue),
}

const Globe = "\U0001F310" // 🌐

// Banner prints the tradegraph banner.
func Banner(subtitle string) {
	fmt.Printf("%s %s — %s\n\n", Globe, Brand.Sprint("tradegraph"), subtitle)
}

// Type renders an entity type in its color.
func Type(t graph.EntityType) string {
	if c, ok := typeColors[t]; ok {
		return c.Sprint(string(t))
	}
	return string(t)
}

// Styler adapts the palette for graph.RenderShow.
func Styler() graph.Styler {
	return graph.Styler{
		Brand:  func(s string) string { return Brand.Sprint(s) },
		Subtle: func(s string) string { return Subtle.Sprint(s) },
		Info:   func(s string) string { return Info.Sprint(s) },
	}
}

// Table prints a simple aligned table to stdout.
func Table(headers []string, rows [][]string) {
	TableTo(os.Stdout, headers, rows)
}

// cellWidth is the width of s in terminal cells, ignoring color codes.
func cellWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(width-cellWidth(s), 0))
}

// TableTo prints a simple aligned table to w. Widths are measured in
// terminal cells so wide characters and colored cells line up.
func TableTo(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = cellWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], cellWidth(cell))
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += pad(h, widths[i]) + "  "
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(w, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += pad(cell, widths[i]) + "  "
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// WarnIcon returns a warning icon.
func WarnIcon() string {
	return Warn.Sprint("⚠")
}
