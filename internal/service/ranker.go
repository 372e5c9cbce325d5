package service

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/phenoage-mcp-server/internal/domain"
)

// InterventionRanker measures every catalog intervention in isolation against
// one baseline and orders them by impact.
type InterventionRanker struct {
	scorer  domain.AgeScorer
	catalog domain.Catalog
	logger  *logrus.Logger
}

// NewInterventionRanker creates a ranker on top of the given scorer and
// catalog.
func NewInterventionRanker(scorer domain.AgeScorer, catalog domain.Catalog, logger *logrus.Logger) *InterventionRanker {
	return &InterventionRanker{scorer: scorer, catalog: catalog, logger: logger}
}

// Rank applies each intervention to its own copy of the baseline set, scores
// the result and returns all entries sorted by delta ascending. The baseline
// metric is computed once, so every delta compares against the same number.
// Ties keep catalog registration order.
func (r *InterventionRanker) Rank(set domain.BiomarkerSet) ([]domain.RankingEntry, error) {
	baseline, err := r.scorer.ComputeAge(set)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.RankingEntry, 0, r.catalog.Size())
	for _, rule := range r.catalog.List() {
		metrics, err := r.scorer.ComputeAge(rule.Apply(set))
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.RankingEntry{
			Intervention:     rule.Name,
			BaselinePhenoAge: baseline.PhenoAge,
			NewPhenoAge:      metrics.PhenoAge,
			Delta:            metrics.PhenoAge - baseline.PhenoAge,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Delta < entries[j].Delta
	})

	r.logger.WithFields(logrus.Fields{
		"baseline_pheno_age": baseline.PhenoAge,
		"interventions":      len(entries),
		"best":               entries[0].Intervention,
		"best_delta":         entries[0].Delta,
	}).Debug("Ranked interventions")

	return entries, nil
}
