package service

import (
	"github.com/sirupsen/logrus"

	"github.com/phenoage-mcp-server/internal/domain"
)

// Toolkit is the single entry point for phenotypic age work: scoring,
// percentile context, intervention ranking and simulation. The MCP tools and
// the CLI both sit on top of it.
type Toolkit struct {
	scorer     domain.AgeScorer
	percentile domain.PercentileScorer
	catalog    domain.Catalog
	ranker     domain.Ranker
	simulator  domain.Simulator
	reporter   *ChangeReporter
	logger     *logrus.Logger
}

// NewToolkit wires a toolkit from explicit components.
func NewToolkit(scorer domain.AgeScorer, percentile domain.PercentileScorer, catalog domain.Catalog, ranker domain.Ranker, simulator domain.Simulator, reporter *ChangeReporter, logger *logrus.Logger) *Toolkit {
	return &Toolkit{
		scorer:     scorer,
		percentile: percentile,
		catalog:    catalog,
		ranker:     ranker,
		simulator:  simulator,
		reporter:   reporter,
		logger:     logger,
	}
}

// NewDefaultToolkit builds the standard uncached stack.
func NewDefaultToolkit(logger *logrus.Logger) *Toolkit {
	scorer := NewPhenoAgeScorer(logger)
	catalog := NewInterventionCatalog(logger)
	return NewToolkit(
		scorer,
		NewPhenoAgePercentile(),
		catalog,
		NewInterventionRanker(scorer, catalog, logger),
		NewCombinedSimulator(scorer, catalog, logger),
		NewChangeReporter(),
		logger,
	)
}

// Catalog exposes the intervention catalog behind the toolkit.
func (t *Toolkit) Catalog() domain.Catalog {
	return t.catalog
}

// ComputeAge scores a complete biomarker set.
func (t *Toolkit) ComputeAge(set domain.BiomarkerSet) (*domain.AgeMetrics, error) {
	return t.scorer.ComputeAge(set)
}

// Percentile ranks a phenotypic age against chronological-age peers.
func (t *Toolkit) Percentile(chronologicalAge, phenoAge float64) float64 {
	return t.percentile.Percentile(chronologicalAge, phenoAge)
}

// ReferenceValues returns the phenotypic age landmarks for a chronological
// age.
func (t *Toolkit) ReferenceValues(chronologicalAge float64) domain.ReferenceValues {
	return t.percentile.References(chronologicalAge)
}

// Interpret renders the qualitative interpretation of a percentile.
func (t *Toolkit) Interpret(percentile float64) string {
	return t.percentile.Interpret(percentile)
}

// Assessment scores the set and wraps the result with percentile context and
// the age-difference summary.
func (t *Toolkit) Assessment(set domain.BiomarkerSet) (*domain.Assessment, error) {
	metrics, err := t.scorer.ComputeAge(set)
	if err != nil {
		return nil, err
	}

	chron := set[domain.CHRONOLOGICAL_AGE]
	percentile := t.percentile.Percentile(chron, metrics.PhenoAge)
	diff := chron - metrics.PhenoAge

	t.logger.WithFields(logrus.Fields{
		"chronological_age": chron,
		"pheno_age":         metrics.PhenoAge,
		"percentile":        percentile,
	}).Debug("Computed assessment")

	return &domain.Assessment{
		ChronologicalAge:  chron,
		PhenoAge:          metrics.PhenoAge,
		Percentile:        percentile,
		AgeDifference:     diff,
		AgeDifferenceText: domain.FormatAgeDifference(diff),
		Interpretation:    t.percentile.Interpret(percentile),
		ReferenceValues:   t.percentile.References(chron),
	}, nil
}

// RankInterventions evaluates every catalog intervention against the set.
func (t *Toolkit) RankInterventions(set domain.BiomarkerSet) ([]domain.RankingEntry, error) {
	return t.ranker.Rank(set)
}

// SimulateInterventions runs the combined simulation and decorates the result
// with percentile context for both endpoints and the per-biomarker changes.
func (t *Toolkit) SimulateInterventions(set domain.BiomarkerSet, names []string) (*domain.SimulationReport, error) {
	result, err := t.simulator.Simulate(set, names)
	if err != nil {
		return nil, err
	}

	result.Changes = t.reporter.Diff(result)

	chron := set[domain.CHRONOLOGICAL_AGE]
	originalPercentile := t.percentile.Percentile(chron, result.OriginalPhenoAge)
	newPercentile := t.percentile.Percentile(chron, result.NewPhenoAge)

	t.logger.WithFields(logrus.Fields{
		"interventions":     len(result.AppliedInterventions),
		"delta":             result.Delta,
		"percentile_change": newPercentile - originalPercentile,
	}).Debug("Computed simulation report")

	return &domain.SimulationReport{
		SimulationResult:       *result,
		OriginalPercentile:     originalPercentile,
		NewPercentile:          newPercentile,
		PercentileChange:       newPercentile - originalPercentile,
		OriginalInterpretation: t.percentile.Interpret(originalPercentile),
		NewInterpretation:      t.percentile.Interpret(newPercentile),
	}, nil
}

// CompleteAssessment bundles the headline assessment with the full
// intervention ranking.
func (t *Toolkit) CompleteAssessment(set domain.BiomarkerSet) (*domain.CompleteAssessment, error) {
	assessment, err := t.Assessment(set)
	if err != nil {
		return nil, err
	}

	rankings, err := t.ranker.Rank(set)
	if err != nil {
		return nil, err
	}

	return &domain.CompleteAssessment{
		Assessment:           *assessment,
		InterventionRankings: rankings,
	}, nil
}
