// Package biomarker provides canonical naming, alias resolution and value
// parsing for the clinical measurements consumed by the PhenoAge toolkit.
// Input sources (lab exports, CSV headers, interactive prompts) rarely agree
// on spelling, so everything funnels through this package before reaching the
// scorer.
package biomarker

import (
	"strings"

	"github.com/phenoage-mcp-server/internal/domain"
)

// aliasTable maps each canonical biomarker to its accepted alternative
// spellings. Lookup is case-insensitive and whitespace-trimmed; the canonical
// key itself always resolves.
var aliasTable = map[domain.Biomarker][]string{
	domain.ALBUMIN:              {"alb"},
	domain.CREATININE:           {"creat"},
	domain.GLUCOSE:              {"glu"},
	domain.CRP:                  {"c-reactive protein", "c reactive protein"},
	domain.LYMPHOCYTE:           {"lymph", "lymphocyte percentage", "lymphs", "lymphocytes"},
	domain.MCV:                  {"mean cell volume", "mean corpuscular volume"},
	domain.RDW:                  {"red cell distribution width", "rcdw"},
	domain.ALKALINE_PHOSPHATASE: {"alkaline phosphatase", "alp", "alk phos"},
	domain.WBC:                  {"white blood cells", "white blood cell count"},
	domain.CHRONOLOGICAL_AGE:    {"chronological age", "age", "chron age"},
}

// lookup is the flattened alias index built once at package init.
var lookup = buildLookup()

func buildLookup() map[string]domain.Biomarker {
	idx := make(map[string]domain.Biomarker)
	for _, b := range domain.BiomarkerOrder {
		idx[string(b)] = b
		for _, alias := range aliasTable[b] {
			idx[strings.ToLower(alias)] = b
		}
	}
	return idx
}

// Resolve maps a raw column or field name to its canonical biomarker.
// It reports false when the name matches neither a canonical key nor an
// alias; callers pass such columns through untouched.
func Resolve(name string) (domain.Biomarker, bool) {
	b, ok := lookup[strings.ToLower(strings.TrimSpace(name))]
	return b, ok
}

// Normalize returns the canonical key for name, or the lowercased trimmed
// input unchanged when no alias matches.
func Normalize(name string) string {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	if b, ok := lookup[cleaned]; ok {
		return string(b)
	}
	return cleaned
}

// Aliases returns the accepted alternative spellings for a biomarker, not
// including the canonical key itself. Used by prompts and documentation.
func Aliases(b domain.Biomarker) []string {
	out := make([]string, len(aliasTable[b]))
	copy(out, aliasTable[b])
	return out
}
