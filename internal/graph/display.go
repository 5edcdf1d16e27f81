package graph

import "fmt"

// DisplayMode selects which part of the country→supplier→product→importer
// chain is materialized as links.
type DisplayMode string

const (
	ModeFull             DisplayMode = "full"
	ModeCountrySupplier  DisplayMode = "country-supplier"
	ModeSupplierProduct  DisplayMode = "supplier-product"
	ModeProductImporter  DisplayMode = "product-importer"
	ModeCountryProduct   DisplayMode = "country-product"
	ModeSupplierImporter DisplayMode = "supplier-importer"
)

// DisplayModes lists every supported mode, full chain first.
var DisplayModes = []DisplayMode{
	ModeFull,
	ModeCountrySupplier,
	ModeSupplierProduct,
	ModeProductImporter,
	ModeCountryProduct,
	ModeSupplierImporter,
}

// edgePattern is the fixed (source type, target type) list emitted per row.
var edgePattern = map[DisplayMode][][2]EntityType{
	ModeFull:             {{Country, Supplier}, {Supplier, Product}, {Product, Importer}},
	ModeCountrySupplier:  {{Country, Supplier}},
	ModeSupplierProduct:  {{Supplier, Product}},
	ModeProductImporter:  {{Product, Importer}},
	ModeCountryProduct:   {{Country, Product}},
	ModeSupplierImporter: {{Supplier, Importer}},
}

// Edges returns the typed edges a single row produces under m.
func (m DisplayMode) Edges() [][2]EntityType {
	return edgePattern[m]
}

// ProductMode decides what a product node represents.
type ProductMode string

const (
	ProductByHSCode ProductMode = "hsCode"
	ProductByName   ProductMode = "productName"
)

// HSLevel is the HS code granularity used when products are HS codes.
type HSLevel string

const (
	HSCategory    HSLevel = "category"    // 2-digit chapter
	HSSubcategory HSLevel = "subcategory" // 4-digit heading
	HSExact       HSLevel = "exact"
)

// DisplayConfig drives both node identity and topology. Changing any field
// requires a full rebuild.
type DisplayConfig struct {
	Mode    DisplayMode `json:"mode" yaml:"mode"`
	Product ProductMode `json:"product" yaml:"product"`
	HSLevel HSLevel     `json:"hsLevel" yaml:"hs_level"`
}

// DefaultDisplay is the full chain grouped by 2-digit HS chapter.
func DefaultDisplay() DisplayConfig {
	return DisplayConfig{Mode: ModeFull, Product: ProductByHSCode, HSLevel: HSCategory}
}

// Validate rejects unknown enum values.
func (c DisplayConfig) Validate() error {
	if _, ok := edgePattern[c.Mode]; !ok {
		return fmt.Errorf("unknown display mode: %q", c.Mode)
	}
	switch c.Product {
	case ProductByHSCode, ProductByName:
	default:
		return fmt.Errorf("unknown product mode: %q", c.Product)
	}
	switch c.HSLevel {
	case HSCategory, HSSubcategory, HSExact:
	default:
		return fmt.Errorf("unknown hs level: %q", c.HSLevel)
	}
	return nil
}

func (c DisplayConfig) String() string {
	if c.Product == ProductByName {
		return fmt.Sprintf("%s/%s", c.Mode, c.Product)
	}
	return fmt.Sprintf("%s/%s/%s", c.Mode, c.Product, c.HSLevel)
}

// FilterState is the user-driven selection applied on top of a full graph.
type FilterState struct {
	MinTransactions int    `json:"minTransactions" yaml:"min_transactions"`
	Search          string `json:"search,omitempty" yaml:"search,omitempty"`
	Focus           string `json:"focus,omitempty" yaml:"focus,omitempty"`
}
