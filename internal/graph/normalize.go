package graph

import (
	"regexp"
	"strings"
)

// Alias collapses any company name containing Contains into Canonical.
type Alias struct {
	Contains  string `toml:"contains" json:"contains" yaml:"contains"`
	Canonical string `toml:"canonical" json:"canonical" yaml:"canonical"`
}

// Vocabulary is the domain data behind company-name normalization.
type Vocabulary struct {
	Suffixes []string `toml:"suffixes" json:"suffixes" yaml:"suffixes"`
	Aliases  []Alias  `toml:"aliases" json:"aliases" yaml:"aliases"`
}

// DefaultVocabulary returns the built-in legal suffixes and brand aliases.
// Multi-word suffixes come first so they win over their last word.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Suffixes: []string{"CO LTD", "LTD", "LLC", "INC", "GMBH", "CORPORATION", "CORP", "PVT", "PRIVATE", "LIMITED"},
		Aliases: []Alias{
			{Contains: "SUZLON", Canonical: "SUZLON"},
			{Contains: "INOX WIND", Canonical: "INOX WIND"},
			{Contains: "ENVISION", Canonical: "ENVISION"},
		},
	}
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	punctuationRe = regexp.MustCompile(`[.,&\-/\\()]`)
)

// Normalizer turns raw entity text into stable display names and identity keys.
type Normalizer struct {
	suffixRe *regexp.Regexp
	aliases  []Alias
}

// NewNormalizer compiles v. Blank suffixes and aliases are ignored.
func NewNormalizer(v Vocabulary) *Normalizer {
	n := &Normalizer{}

	quoted := make([]string, 0, len(v.Suffixes))
	for _, s := range v.Suffixes {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(s))
	}
	if len(quoted) > 0 {
		n.suffixRe = regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
	}

	for _, a := range v.Aliases {
		contains := strings.ToUpper(strings.TrimSpace(a.Contains))
		if contains == "" {
			continue
		}
		canonical := strings.TrimSpace(a.Canonical)
		if canonical == "" {
			canonical = contains
		}
		n.aliases = append(n.aliases, Alias{Contains: contains, Canonical: canonical})
	}
	return n
}

// Normalize returns the identity name of raw for entity type t.
// Empty means the value is unusable and the row must be skipped.
func (n *Normalizer) Normalize(raw string, t EntityType) string {
	s := cleanText(raw)
	if s == "" {
		return ""
	}
	if t != Supplier && t != Importer {
		return s
	}

	s = strings.ToUpper(s)
	if n.suffixRe != nil {
		s = n.suffixRe.ReplaceAllString(s, "")
	}
	s = punctuationRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))

	for _, a := range n.aliases {
		if strings.Contains(s, a.Contains) {
			return a.Canonical
		}
	}
	return s
}

// cleanText trims, turns newlines into spaces and collapses whitespace runs.
func cleanText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
