package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// EntityType is the kind of trade participant a node stands for.
type EntityType string

const (
	Country  EntityType = "country"
	Supplier EntityType = "supplier"
	Product  EntityType = "product"
	Importer EntityType = "importer"
)

// EntityTypes lists the four kinds in chain order.
var EntityTypes = []EntityType{Country, Supplier, Product, Importer}

// ParseEntityType accepts a kind name in any case.
func ParseEntityType(s string) (EntityType, error) {
	for _, t := range EntityTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity type: %q", s)
}

var (
	// ErrNoData means no rows were loaded or none produced a node.
	ErrNoData = errors.New("no trade data loaded")
	// ErrEmptyView means the filter state left nothing visible.
	ErrEmptyView = errors.New("no nodes match the current filter")
	// ErrUnknownNode is returned by lookups for ids absent from a graph.
	ErrUnknownNode = errors.New("node not found")
)

// Node is an aggregated trade entity.
type Node struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Type          EntityType `json:"type" yaml:"type"`
	OriginalNames []string   `json:"originalNames" yaml:"original_names"`
	Transactions  int        `json:"transactions" yaml:"transactions"`
	Value         float64    `json:"value" yaml:"value"`
	NeighborIDs   []string   `json:"neighbors" yaml:"neighbors"`
}

func (n *Node) clone() *Node {
	cp := *n
	cp.OriginalNames = append([]string(nil), n.OriginalNames...)
	cp.NeighborIDs = append([]string(nil), n.NeighborIDs...)
	return &cp
}

// HasNeighbor reports whether id shares a link with n in either direction.
func (n *Node) HasNeighbor(id string) bool {
	i := sort.SearchStrings(n.NeighborIDs, id)
	return i < len(n.NeighborIDs) && n.NeighborIDs[i] == id
}

// Link is an aggregated directed edge between two nodes.
type Link struct {
	ID           string  `json:"id" yaml:"id"`
	Source       string  `json:"source" yaml:"source"`
	Target       string  `json:"target" yaml:"target"`
	Transactions int     `json:"transactions" yaml:"transactions"`
	Value        float64 `json:"value" yaml:"value"`
}

// LinkID is the deterministic key of the directed edge source->target.
func LinkID(source, target string) string {
	return source + "->" + target
}

// Graph is an immutable snapshot handed out by a Builder or the filter.
// Every link's endpoints are present in Nodes.
type Graph struct {
	Nodes map[string]*Node `json:"nodes" yaml:"nodes"`
	Links map[string]*Link `json:"links" yaml:"links"`
}

// Empty returns a graph with no nodes and no links.
func Empty() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		Links: make(map[string]*Link),
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, error) {
	n, ok := g.Nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n, nil
}

// SortedNodes returns nodes ordered by type (chain order), then id.
func (g *Graph) SortedNodes() []*Node {
	nodes := make([]*Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		ri, rj := typeRank(nodes[i].Type), typeRank(nodes[j].Type)
		if ri != rj {
			return ri < rj
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// SortedLinks returns links ordered by id.
func (g *Graph) SortedLinks() []*Link {
	links := make([]*Link, 0, len(g.Links))
	for _, l := range g.Links {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links
}

// LinksOf returns the outgoing and incoming links of id, each sorted by id.
func (g *Graph) LinksOf(id string) (outgoing, incoming []*Link) {
	for _, l := range g.SortedLinks() {
		if l.Source == id {
			outgoing = append(outgoing, l)
		}
		if l.Target == id {
			incoming = append(incoming, l)
		}
	}
	return outgoing, incoming
}

// Stats holds summary counts.
type Stats struct {
	Nodes      int                `json:"nodes" yaml:"nodes"`
	Links      int                `json:"links" yaml:"links"`
	ByType     map[EntityType]int `json:"byType" yaml:"by_type"`
	TotalValue float64            `json:"totalValue" yaml:"total_value"`
}

// GetStats counts nodes per type. Every built row touches exactly one
// country node, so TotalValue sums country values.
func (g *Graph) GetStats() Stats {
	s := Stats{
		Nodes:  len(g.Nodes),
		Links:  len(g.Links),
		ByType: make(map[EntityType]int, len(EntityTypes)),
	}
	for _, n := range g.Nodes {
		s.ByType[n.Type]++
		if n.Type == Country {
			s.TotalValue += n.Value
		}
	}
	return s
}

func typeRank(t EntityType) int {
	for i, et := range EntityTypes {
		if et == t {
			return i
		}
	}
	return len(EntityTypes)
}
