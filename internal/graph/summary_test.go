package graph

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeVariants(t *testing.T) {
	n := &Node{ID: "supplier-SUZLON", Name: "SUZLON", Type: Supplier, Transactions: 8, Value: 1500}
	for i := range 8 {
		n.OriginalNames = append(n.OriginalNames, fmt.Sprintf("Suzlon %d", i))
	}

	s := Summarize(n)

	assert.Equal(t, []string{"Suzlon 0", "Suzlon 1", "Suzlon 2", "Suzlon 3", "Suzlon 4"}, s.Variants)
	assert.Equal(t, 3, s.MoreVariants)

	text := s.String()
	assert.True(t, strings.HasPrefix(text, "SUZLON\nType: supplier\nTransactions: 8\nValue: $1,500"), text)
	assert.Contains(t, text, "Variations (8):")
	assert.Contains(t, text, "- Suzlon 4")
	assert.NotContains(t, text, "Suzlon 5")
	assert.True(t, strings.HasSuffix(text, "- and 3 more..."), text)
}

func TestSummarizeSingleName(t *testing.T) {
	n := &Node{ID: "country-China", Name: "China", Type: Country, OriginalNames: []string{"China"}}

	s := Summarize(n)

	assert.Empty(t, s.Variants)
	assert.Zero(t, s.MoreVariants)
	assert.NotContains(t, s.String(), "Variations")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "$0", FormatValue(0))
	assert.Equal(t, "$1,500", FormatValue(1500))
	assert.Equal(t, "$1,234.50", FormatValue(1234.5))
	assert.Equal(t, "$2,000,000", FormatValue(2e6))
}
