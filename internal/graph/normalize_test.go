package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCompanies(t *testing.T) {
	n := NewNormalizer(DefaultVocabulary())

	tests := []struct {
		raw  string
		typ  EntityType
		want string
	}{
		{"Suzlon Energy Ltd.", Supplier, "SUZLON"},
		{"SUZLON ENERGY LTD", Supplier, "SUZLON"},
		{"ACME INC", Importer, "ACME"},
		{"Acme, Inc.", Importer, "ACME"},
		{"ACME", Importer, "ACME"},
		{"Foo Co Ltd", Supplier, "FOO"},
		{"Bar GmbH & Co", Supplier, "BAR CO"},
		{"Nordex (Pvt) Limited", Supplier, "NORDEX"},
		{"Inox Wind Infrastructure Services", Supplier, "INOX WIND"},
		{"envision energy co., ltd", Supplier, "ENVISION"},
		{"LTDA Brasil", Importer, "LTDA BRASIL"},
		{"  Tata\n  Power \r\n Corp ", Importer, "TATA POWER"},
		{"A/B\\C-D", Supplier, "A B C D"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Normalize(tt.raw, tt.typ), "Normalize(%q, %s)", tt.raw, tt.typ)
	}
}

func TestNormalizeGenericTypes(t *testing.T) {
	n := NewNormalizer(DefaultVocabulary())

	assert.Equal(t, "united states", n.Normalize("  united\nstates ", Country))
	assert.Equal(t, "China", n.Normalize("China", Country), "country keeps its case")
	assert.Equal(t, "Wind turbine blade, 45m", n.Normalize("Wind  turbine\nblade, 45m", Product))
	assert.Equal(t, "Suzlon Ltd", n.Normalize("Suzlon Ltd", Country), "no suffix stripping outside companies")
}

func TestNormalizeEmpty(t *testing.T) {
	n := NewNormalizer(DefaultVocabulary())

	for _, raw := range []string{"", "   ", "\n\t"} {
		for _, typ := range EntityTypes {
			assert.Empty(t, n.Normalize(raw, typ))
		}
	}
	assert.Empty(t, n.Normalize("LTD.", Supplier), "suffix-only name normalizes to empty")
}

func TestNormalizeCustomVocabulary(t *testing.T) {
	n := NewNormalizer(Vocabulary{
		Suffixes: []string{"a/s", " "},
		Aliases: []Alias{
			{Contains: "vestas", Canonical: "VESTAS"},
			{Contains: "siemens gamesa"},
			{Contains: ""},
		},
	})

	assert.Equal(t, "VESTAS", n.Normalize("Vestas Wind Systems A/S", Supplier))
	assert.Equal(t, "SIEMENS GAMESA", n.Normalize("Siemens Gamesa Renewable Energy", Supplier))
	assert.Equal(t, "NORDEX SE", n.Normalize("Nordex SE", Supplier))
	assert.Equal(t, "ACME LTD", n.Normalize("Acme Ltd", Supplier), "default suffixes replaced")
}

func TestNormalizeFirstAliasWins(t *testing.T) {
	n := NewNormalizer(DefaultVocabulary())
	assert.Equal(t, "SUZLON", n.Normalize("Suzlon Envision JV", Supplier))
}
