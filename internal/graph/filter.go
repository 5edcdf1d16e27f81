package graph

import (
	"sort"
	"strings"
)

// View is the visible projection of a full graph under a FilterState.
type View struct {
	Graph *Graph `json:"graph"`
	// Focus is the effective focus after auto-focus on a unique search match.
	Focus string `json:"focus,omitempty"`
	// AutoFocused is set when Focus came from a unique search match.
	AutoFocused bool `json:"autoFocused,omitempty"`
	// Matches are the ids whose names matched the search term, sorted.
	Matches []string `json:"matches,omitempty"`
}

// Empty reports whether nothing is visible.
func (v *View) Empty() bool {
	return v == nil || v.Graph == nil || len(v.Graph.Nodes) == 0
}

// Visible derives the visible subgraph of full. The steps run in a fixed
// order: threshold, search, focus expansion, link re-derivation. The result
// only references nodes present in its own node set.
func Visible(full *Graph, f FilterState) *View {
	threshold := f.MinTransactions
	if threshold < 1 {
		threshold = 1
	}

	links := make(map[string]*Link)
	surviving := make(map[string]*Node)
	for id, l := range full.Links {
		if l.Transactions < threshold {
			continue
		}
		links[id] = l
		surviving[l.Source] = full.Nodes[l.Source]
		surviving[l.Target] = full.Nodes[l.Target]
	}

	view := &View{Focus: f.Focus}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	var matches map[string]*Node
	if term != "" {
		matches = make(map[string]*Node)
		for id, n := range surviving {
			if nodeMatches(n, term) {
				matches[id] = n
				view.Matches = append(view.Matches, id)
			}
		}
		sort.Strings(view.Matches)
		if len(matches) == 1 && view.Focus == "" {
			view.Focus = view.Matches[0]
			view.AutoFocused = true
		}
	}

	var expansion map[string]*Node
	if focus, ok := surviving[view.Focus]; ok {
		expansion = map[string]*Node{focus.ID: focus}
		for _, nb := range focus.NeighborIDs {
			if n, ok := surviving[nb]; ok {
				expansion[nb] = n
			}
		}
	}

	var visible map[string]*Node
	switch {
	case expansion != nil && matches != nil:
		visible = make(map[string]*Node, len(matches)+len(expansion))
		for id, n := range matches {
			visible[id] = n
		}
		for id, n := range expansion {
			visible[id] = n
		}
	case expansion != nil:
		visible = expansion
	case matches != nil:
		visible = matches
	default:
		visible = surviving
	}

	// the view owns copies so callers cannot corrupt a shared full graph
	out := &Graph{
		Nodes: make(map[string]*Node, len(visible)),
		Links: make(map[string]*Link),
	}
	for id, n := range visible {
		out.Nodes[id] = n.clone()
	}
	for id, l := range links {
		_, srcOK := visible[l.Source]
		_, tgtOK := visible[l.Target]
		if srcOK && tgtOK {
			cp := *l
			out.Links[id] = &cp
		}
	}
	view.Graph = out
	return view
}

// Search returns the nodes of g whose display name or any original name
// contains term, case-insensitively, ordered by transactions then id.
func Search(g *Graph, term string) []*Node {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var results []*Node
	for _, n := range g.Nodes {
		if nodeMatches(n, term) {
			results = append(results, n)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Transactions != results[j].Transactions {
			return results[i].Transactions > results[j].Transactions
		}
		return results[i].ID < results[j].ID
	})
	return results
}

func nodeMatches(n *Node, lowerTerm string) bool {
	if strings.Contains(strings.ToLower(n.Name), lowerTerm) {
		return true
	}
	for _, o := range n.OriginalNames {
		if strings.Contains(strings.ToLower(o), lowerTerm) {
			return true
		}
	}
	return false
}

// Highlight is the emphasis a node gets relative to the focus.
type Highlight string

const (
	HighlightNone     Highlight = ""
	HighlightFocused  Highlight = "focused"
	HighlightNeighbor Highlight = "neighbor"
	HighlightDimmed   Highlight = "dimmed"
)

// HighlightOf classifies n against focus. Without a focus nothing is highlighted.
func HighlightOf(n *Node, focus string) Highlight {
	switch {
	case focus == "":
		return HighlightNone
	case n.ID == focus:
		return HighlightFocused
	case n.HasNeighbor(focus):
		return HighlightNeighbor
	default:
		return HighlightDimmed
	}
}
