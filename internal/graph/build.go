package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Row is one parsed source record keyed by its header names.
type Row map[string]string

// Source column names. HSCodeColumn carries a trailing space in the
// upstream export and must be matched verbatim.
const (
	CountryColumn  = "Foreign Country"
	SupplierColumn = "Supplier Name"
	ImporterColumn = "Importer Name"
	HSCodeColumn   = "HS Code "
	ProductColumn  = "Product Name"
	ValueColumn    = "CIF Value (USD)"
)

const (
	maxProductLabel = 30
	productIDHexLen = 16
)

// BuildStats are aggregate diagnostics for one build.
type BuildStats struct {
	Rows        int `json:"rows"`
	Skipped     int `json:"skipped"`
	Unparseable int `json:"unparseableValues"`
}

// Used is the number of rows that contributed to the graph.
func (s BuildStats) Used() int {
	return s.Rows - s.Skipped
}

type nodeState struct {
	id           string
	name         string
	typ          EntityType
	origNames    []string
	origSeen     map[string]struct{}
	transactions int
	value        float64
	neighbors    map[string]struct{}
}

// Builder accumulates rows into nodes and links. It owns all mutable state;
// Graph hands out an independent snapshot.
type Builder struct {
	cfg   DisplayConfig
	norm  *Normalizer
	nodes map[string]*nodeState
	links map[string]*Link
	stats BuildStats
}

// NewBuilder starts an empty build for cfg.
func NewBuilder(cfg DisplayConfig, norm *Normalizer) *Builder {
	if norm == nil {
		norm = NewNormalizer(DefaultVocabulary())
	}
	return &Builder{
		cfg:   cfg,
		norm:  norm,
		nodes: make(map[string]*nodeState),
		links: make(map[string]*Link),
	}
}

// Build is the one-shot form of NewBuilder + Add + Graph.
func Build(rows []Row, cfg DisplayConfig, norm *Normalizer) (*Graph, BuildStats) {
	b := NewBuilder(cfg, norm)
	for _, r := range rows {
		b.Add(r)
	}
	return b.Graph(), b.Stats()
}

type touch struct {
	id   string
	name string
	typ  EntityType
	orig string
}

// Add folds one row into the graph. Rows missing a required field are
// counted as skipped; an unparseable value counts as zero.
func (b *Builder) Add(r Row) {
	b.stats.Rows++

	countryRaw, supplierRaw, importerRaw := r[CountryColumn], r[SupplierColumn], r[ImporterColumn]
	country := b.norm.Normalize(countryRaw, Country)
	supplier := b.norm.Normalize(supplierRaw, Supplier)
	importer := b.norm.Normalize(importerRaw, Importer)
	product, productID, productRaw := b.product(r)
	if country == "" || supplier == "" || importer == "" || product == "" {
		b.stats.Skipped++
		return
	}

	value, ok := parseValue(r[ValueColumn])
	if !ok {
		b.stats.Unparseable++
	}

	ids := make(map[EntityType]string, len(EntityTypes))
	for _, t := range []touch{
		{nodeID(Country, country), country, Country, countryRaw},
		{nodeID(Supplier, supplier), supplier, Supplier, supplierRaw},
		{productID, product, Product, productRaw},
		{nodeID(Importer, importer), importer, Importer, importerRaw},
	} {
		n := b.node(t)
		n.transactions++
		n.value += value
		ids[t.typ] = t.id
	}

	for _, e := range b.cfg.Mode.Edges() {
		b.link(ids[e[0]], ids[e[1]], value)
	}
}

// product derives the product label, node id and provenance string.
func (b *Builder) product(r Row) (label, id, raw string) {
	if b.cfg.Product == ProductByName {
		raw = r[ProductColumn]
		name := b.norm.Normalize(raw, Product)
		if name == "" {
			return "", "", raw
		}
		sum := sha256.Sum256([]byte(name))
		return truncateLabel(name, maxProductLabel), "product-name-" + hex.EncodeToString(sum[:])[:productIDHexLen], raw
	}

	raw = strings.TrimSpace(r[HSCodeColumn])
	if raw == "" {
		return "", "", raw
	}
	label = HSLabel(raw, b.cfg.HSLevel)
	return label, nodeID(Product, label), raw
}

// HSLabel groups an HS code at the given level. Codes shorter than the
// level's prefix, counted in characters, are used verbatim.
func HSLabel(code string, level HSLevel) string {
	prefix := 0
	switch level {
	case HSCategory:
		prefix = 2
	case HSSubcategory:
		prefix = 4
	}
	if prefix == 0 || utf8.RuneCountInString(code) < prefix {
		return "HS " + code
	}
	return "HS " + string([]rune(code)[:prefix]) + "xx"
}

func nodeID(t EntityType, name string) string {
	return string(t) + "-" + name
}

func (b *Builder) node(t touch) *nodeState {
	n, ok := b.nodes[t.id]
	if !ok {
		n = &nodeState{
			id:        t.id,
			name:      t.name,
			typ:       t.typ,
			origSeen:  make(map[string]struct{}),
			neighbors: make(map[string]struct{}),
		}
		b.nodes[t.id] = n
	}
	if _, seen := n.origSeen[t.orig]; !seen {
		n.origSeen[t.orig] = struct{}{}
		n.origNames = append(n.origNames, t.orig)
	}
	return n
}

func (b *Builder) link(source, target string, value float64) {
	id := LinkID(source, target)
	l, ok := b.links[id]
	if !ok {
		l = &Link{ID: id, Source: source, Target: target}
		b.links[id] = l
	}
	l.Transactions++
	l.Value += value

	b.nodes[source].neighbors[target] = struct{}{}
	b.nodes[target].neighbors[source] = struct{}{}
}

// Stats returns the diagnostics accumulated so far.
func (b *Builder) Stats() BuildStats {
	return b.stats
}

// Graph returns a snapshot that shares no memory with the builder.
func (b *Builder) Graph() *Graph {
	g := &Graph{
		Nodes: make(map[string]*Node, len(b.nodes)),
		Links: make(map[string]*Link, len(b.links)),
	}
	for id, n := range b.nodes {
		neighbors := make([]string, 0, len(n.neighbors))
		for nb := range n.neighbors {
			neighbors = append(neighbors, nb)
		}
		sort.Strings(neighbors)
		g.Nodes[id] = &Node{
			ID:            n.id,
			Name:          n.name,
			Type:          n.typ,
			OriginalNames: append([]string(nil), n.origNames...),
			Transactions:  n.transactions,
			Value:         n.value,
			NeighborIDs:   neighbors,
		}
	}
	for id, l := range b.links {
		cp := *l
		g.Links[id] = &cp
	}
	return g
}

func parseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// truncateLabel shortens s to max runes, ending in "...".
func truncateLabel(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
