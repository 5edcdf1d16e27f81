package graph

import (
	"fmt"
	"strings"
)

// Styler colours fragments of terminal output.
type Styler struct {
	Brand  func(string) string
	Subtle func(string) string
	Info   func(string) string
}

func plain(s string) string { return s }

func (s Styler) orPlain() Styler {
	if s.Brand == nil {
		s.Brand = plain
	}
	if s.Subtle == nil {
		s.Subtle = plain
	}
	if s.Info == nil {
		s.Info = plain
	}
	return s
}

// RenderShow draws a node with its incoming links above and outgoing links
// below, as a terminal tree.
func RenderShow(g *Graph, id string, st Styler) (string, error) {
	n, err := g.Node(id)
	if err != nil {
		return "", err
	}
	st = st.orPlain()
	outgoing, incoming := g.LinksOf(id)

	var b strings.Builder

	for i, l := range incoming {
		prefix := "  ├── "
		if i == len(incoming)-1 && len(outgoing) == 0 {
			prefix = "  └── "
		}
		src := g.Nodes[l.Source]
		b.WriteString(fmt.Sprintf("%s%s %s %s\n", prefix, st.Subtle(linkLabel(l)), st.Subtle("──"), st.Brand(src.Name)))
		b.WriteString(fmt.Sprintf("  │           %s\n", st.Subtle(string(src.Type))))
		b.WriteString("  │\n")
	}

	s := Summarize(n)
	b.WriteString(fmt.Sprintf("  ● %s\n", st.Brand(n.Name)))
	b.WriteString(fmt.Sprintf("  │  %s  %s\n", st.Subtle(string(n.Type)), st.Subtle(n.ID)))
	b.WriteString(fmt.Sprintf("  │  %s\n", st.Info(printer.Sprintf("%d transactions, %s", n.Transactions, FormatValue(n.Value)))))
	for _, v := range s.Variants {
		b.WriteString(fmt.Sprintf("  │  %s\n", st.Info(fmt.Sprintf("%q", v))))
	}
	if s.MoreVariants > 0 {
		b.WriteString(fmt.Sprintf("  │  %s\n", st.Subtle(fmt.Sprintf("and %d more...", s.MoreVariants))))
	}

	if len(outgoing) > 0 {
		b.WriteString("  │\n")
	}
	for i, l := range outgoing {
		prefix := "  ├── "
		if i == len(outgoing)-1 {
			prefix = "  └── "
		}
		tgt := g.Nodes[l.Target]
		b.WriteString(fmt.Sprintf("%s%s %s %s\n", prefix, st.Subtle(linkLabel(l)), st.Subtle("──"), st.Brand(tgt.Name)))
		b.WriteString(fmt.Sprintf("              %s\n", st.Subtle(string(tgt.Type))))
	}

	return b.String(), nil
}

func linkLabel(l *Link) string {
	return printer.Sprintf("%d tx", l.Transactions)
}
