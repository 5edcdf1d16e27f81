package graph

import (
	"math"
	"math/rand/v2"
)

// Simulation-wide force constants consumed by the layout engine.
const (
	ChargeStrength     = -400.0
	LinkDistance       = 100.0
	CollisionPadding   = 10.0
	BandStrengthFull   = 0.3
	BandStrengthSingle = 0.1
	CenterStrengthY    = 0.1
	MinNodeRadius      = 6.0
	NodeRadiusScale    = 0.6
)

// bandX is the horizontal zone of each type in full-chain mode, as a
// fraction of the canvas width.
var bandX = map[EntityType]float64{
	Country:  0.2,
	Supplier: 0.4,
	Product:  0.6,
	Importer: 0.8,
}

// TypeColors are the fill colours per entity type.
var TypeColors = map[EntityType]string{
	Country:  "#F97316",
	Supplier: "#22C55E",
	Product:  "#A855F7",
	Importer: "#6366F1",
}

// LayoutOptions sizes the canvas the hints are computed for. Seed makes the
// vertical jitter reproducible.
type LayoutOptions struct {
	Width  float64
	Height float64
	Seed   uint64
}

// DefaultLayoutOptions is a 1200x800 canvas with seed 1.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{Width: 1200, Height: 800, Seed: 1}
}

// NodeHint holds the per-node parameters for a force layout.
type NodeHint struct {
	InitialX        float64   `json:"x" yaml:"x"`
	InitialY        float64   `json:"y" yaml:"y"`
	TargetX         float64   `json:"targetX" yaml:"target_x"`
	TargetY         float64   `json:"targetY" yaml:"target_y"`
	StrengthX       float64   `json:"strengthX" yaml:"strength_x"`
	StrengthY       float64   `json:"strengthY" yaml:"strength_y"`
	CollisionRadius float64   `json:"collisionRadius" yaml:"collision_radius"`
	Radius          float64   `json:"radius" yaml:"radius"`
	Color           string    `json:"color" yaml:"color"`
	Highlight       Highlight `json:"highlight,omitempty" yaml:"highlight,omitempty"`
}

// LinkHint holds the per-link drawing parameters.
type LinkHint struct {
	Width     float64 `json:"width" yaml:"width"`
	Highlight bool    `json:"highlight,omitempty" yaml:"highlight,omitempty"`
}

// Layout is the full parameter set for one visible graph.
type Layout struct {
	Width        float64             `json:"width" yaml:"width"`
	Height       float64             `json:"height" yaml:"height"`
	Charge       float64             `json:"charge" yaml:"charge"`
	LinkDistance float64             `json:"linkDistance" yaml:"link_distance"`
	Nodes        map[string]NodeHint `json:"nodes" yaml:"nodes"`
	Links        map[string]LinkHint `json:"links" yaml:"links"`
}

// LayoutHints computes initial positions and force strengths for every node
// of visible. It performs no integration. Nodes are visited in sorted order so
// the jitter is stable for a given seed.
func LayoutHints(visible *Graph, mode DisplayMode, focus string, opts LayoutOptions) *Layout {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultLayoutOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	l := &Layout{
		Width:        opts.Width,
		Height:       opts.Height,
		Charge:       ChargeStrength,
		LinkDistance: LinkDistance,
		Nodes:        make(map[string]NodeHint, len(visible.Nodes)),
		Links:        make(map[string]LinkHint, len(visible.Links)),
	}

	strengthX := BandStrengthSingle
	if mode == ModeFull {
		strengthX = BandStrengthFull
	}

	for _, n := range visible.SortedNodes() {
		x := TargetX(n.Type, mode, opts.Width)
		l.Nodes[n.ID] = NodeHint{
			InitialX:        x,
			InitialY:        opts.Height/2 + (rng.Float64()-0.5)*opts.Height*0.5,
			TargetX:         x,
			TargetY:         opts.Height / 2,
			StrengthX:       strengthX,
			StrengthY:       CenterStrengthY,
			CollisionRadius: CollisionRadius(n.Transactions),
			Radius:          NodeRadius(n.Transactions),
			Color:           TypeColors[n.Type],
			Highlight:       HighlightOf(n, focus),
		}
	}

	for id, lk := range visible.Links {
		l.Links[id] = LinkHint{
			Width:     LinkWidth(lk.Transactions),
			Highlight: focus != "" && (lk.Source == focus || lk.Target == focus),
		}
	}
	return l
}

// TargetX is the horizontal band a node is pulled toward: one zone per type
// in full mode, the centre otherwise.
func TargetX(t EntityType, mode DisplayMode, width float64) float64 {
	if mode == ModeFull {
		if f, ok := bandX[t]; ok {
			return width * f
		}
	}
	return width / 2
}

// CollisionRadius grows with the square root of the transaction count.
func CollisionRadius(transactions int) float64 {
	return math.Sqrt(float64(transactions)) + CollisionPadding
}

// NodeRadius is the drawn circle radius.
func NodeRadius(transactions int) float64 {
	return math.Max(MinNodeRadius, math.Sqrt(float64(transactions))*NodeRadiusScale)
}

// LinkWidth is the stroke width of a link.
func LinkWidth(transactions int) float64 {
	if transactions < 1 {
		return 1
	}
	return math.Max(1, math.Log(float64(transactions))*0.5)
}
