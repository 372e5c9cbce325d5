package service

import (
	"github.com/sirupsen/logrus"

	"github.com/phenoage-mcp-server/internal/domain"
)

// combinedMagnificationFactor amplifies the strongest standalone effect when
// sequential composition reports less benefit than the best single
// intervention alone. Policy value, not derived from the mortality model;
// revisit if the composition model changes.
const combinedMagnificationFactor = 0.15

// CombinedSimulator applies an ordered sequence of interventions to one
// evolving biomarker set, each rule seeing the previous rule's output.
type CombinedSimulator struct {
	scorer  domain.AgeScorer
	catalog domain.Catalog
	logger  *logrus.Logger
}

// NewCombinedSimulator creates a simulator on top of the given scorer and
// catalog.
func NewCombinedSimulator(scorer domain.AgeScorer, catalog domain.Catalog, logger *logrus.Logger) *CombinedSimulator {
	return &CombinedSimulator{scorer: scorer, catalog: catalog, logger: logger}
}

// Simulate resolves every name against the catalog, applies the rules in the
// caller-supplied order and reports the combined effect. All names are
// resolved before anything is applied, so an unknown name fails the whole
// call without partial application.
//
// When more than one intervention is applied and the sequential result is
// weaker than the strongest standalone effect, the reported delta is floored
// at the strongest standalone effect amplified by combinedMagnificationFactor.
// The biomarker values themselves are never touched by that correction; only
// the delta and new-age summary are.
func (s *CombinedSimulator) Simulate(set domain.BiomarkerSet, names []string) (*domain.SimulationResult, error) {
	rules := make([]*domain.InterventionRule, 0, len(names))
	for _, name := range names {
		rule, err := s.catalog.Get(name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	baseline, err := s.scorer.ComputeAge(set)
	if err != nil {
		return nil, err
	}

	current := set.Copy()
	for _, rule := range rules {
		current = rule.Apply(current)
	}

	final, err := s.scorer.ComputeAge(current)
	if err != nil {
		return nil, err
	}

	delta := final.PhenoAge - baseline.PhenoAge
	newPhenoAge := final.PhenoAge
	magnified := false

	if len(rules) > 1 {
		strongest, err := s.strongestStandalone(set, baseline.PhenoAge, rules)
		if err != nil {
			return nil, err
		}
		if delta > strongest {
			delta = strongest + strongest*combinedMagnificationFactor
			newPhenoAge = baseline.PhenoAge + delta
			magnified = true
		}
	}

	applied := make([]string, len(names))
	copy(applied, names)

	s.logger.WithFields(logrus.Fields{
		"interventions": len(applied),
		"delta":         delta,
		"magnified":     magnified,
	}).Debug("Simulated combined interventions")

	return &domain.SimulationResult{
		OriginalBiomarkers:   set.Copy(),
		UpdatedBiomarkers:    current,
		OriginalPhenoAge:     baseline.PhenoAge,
		NewPhenoAge:          newPhenoAge,
		Delta:                delta,
		AppliedInterventions: applied,
		Magnified:            magnified,
	}, nil
}

// strongestStandalone returns the most negative delta any of the rules
// achieves on its own from the unmodified baseline.
func (s *CombinedSimulator) strongestStandalone(set domain.BiomarkerSet, baselinePhenoAge float64, rules []*domain.InterventionRule) (float64, error) {
	strongest := 0.0
	for i, rule := range rules {
		metrics, err := s.scorer.ComputeAge(rule.Apply(set))
		if err != nil {
			return 0, err
		}
		delta := metrics.PhenoAge - baselinePhenoAge
		if i == 0 || delta < strongest {
			strongest = delta
		}
	}
	return strongest, nil
}
