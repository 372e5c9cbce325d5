package domain

// AgeScorer computes the phenotypic age bundle for a complete biomarker set.
// Implementations must be pure: identical input sets yield identical metrics
// with no observable side effects.
type AgeScorer interface {
	ComputeAge(set BiomarkerSet) (*AgeMetrics, error)
}

// PercentileScorer ranks a phenotypic age against chronological-age peers
// and renders the qualitative interpretation of the rank.
type PercentileScorer interface {
	Percentile(chronologicalAge, phenoAge float64) float64
	References(chronologicalAge float64) ReferenceValues
	Interpret(percentile float64) string
}

// Catalog exposes the named intervention rules. Enumeration order is the
// registration order and never changes at runtime.
type Catalog interface {
	List() []*InterventionRule
	Get(name string) (*InterventionRule, error)
	Names() []string
	Size() int
}

// Ranker evaluates every catalog intervention independently against one
// baseline set and returns the entries sorted by impact.
type Ranker interface {
	Rank(set BiomarkerSet) ([]RankingEntry, error)
}

// Simulator applies an ordered sequence of interventions to one evolving
// biomarker set and reports the combined effect.
type Simulator interface {
	Simulate(set BiomarkerSet, names []string) (*SimulationResult, error)
}
