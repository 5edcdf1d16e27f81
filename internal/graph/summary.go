package graph

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const maxVariants = 5

var printer = message.NewPrinter(language.English)

// Summary is what the selection panel shows for one node.
type Summary struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         EntityType `json:"type"`
	Transactions int        `json:"transactions"`
	Value        float64    `json:"value"`
	Variants     []string   `json:"variants,omitempty"`
	MoreVariants int        `json:"moreVariants,omitempty"`
}

// Summarize lists at most five original-name variants, plus an overflow count.
// A node with a single spelling has no variants.
func Summarize(n *Node) Summary {
	s := Summary{
		ID:           n.ID,
		Name:         n.Name,
		Type:         n.Type,
		Transactions: n.Transactions,
		Value:        n.Value,
	}
	if len(n.OriginalNames) > 1 {
		shown := min(len(n.OriginalNames), maxVariants)
		s.Variants = append([]string(nil), n.OriginalNames[:shown]...)
		s.MoreVariants = len(n.OriginalNames) - shown
	}
	return s
}

// FormatValue renders a USD amount with thousands separators.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return printer.Sprintf("$%d", int64(v))
	}
	return printer.Sprintf("$%.2f", v)
}

// String is the multi-line tooltip text.
func (s Summary) String() string {
	var b strings.Builder
	b.WriteString(s.Name + "\n")
	b.WriteString("Type: " + string(s.Type) + "\n")
	b.WriteString(printer.Sprintf("Transactions: %d\n", s.Transactions))
	b.WriteString("Value: " + FormatValue(s.Value))
	if len(s.Variants) > 0 {
		b.WriteString(printer.Sprintf("\n\nVariations (%d):", len(s.Variants)+s.MoreVariants))
		for _, v := range s.Variants {
			b.WriteString("\n- " + v)
		}
		if s.MoreVariants > 0 {
			b.WriteString(printer.Sprintf("\n- and %d more...", s.MoreVariants))
		}
	}
	return b.String()
}
