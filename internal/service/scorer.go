package service

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/phenoage-mcp-server/internal/domain"
)

// Regression weights of the PhenoAge model (Levine et al. 2018). The weights
// apply to unit-converted values, not the native clinical units.
var regressionWeights = map[domain.Biomarker]float64{
	domain.ALBUMIN:              -0.0336,
	domain.CREATININE:           0.0095,
	domain.GLUCOSE:              0.1953,
	domain.CRP:                  0.0954,
	domain.LYMPHOCYTE:           -0.0120,
	domain.MCV:                  0.0268,
	domain.RDW:                  0.3306,
	domain.ALKALINE_PHOSPHATASE: 0.0019,
	domain.WBC:                  0.0554,
	domain.CHRONOLOGICAL_AGE:    0.0804,
}

// Fixed constants of the published model.
const (
	linearIntercept = -19.9067

	// Gompertz mortality parameters over a 10-year (120 month) horizon.
	mortalityHorizonMonths = 120.0
	gompertzGamma          = 0.0076927

	phenoAgeOffset  = 141.50225
	phenoAgeLogCoef = -0.00553
	phenoAgeScale   = 0.090165

	dnamAgeCoef   = 1.28047
	dnamAgeRate   = 0.0344329
	dnamAgeOffset = -182.344

	dScoreCoef = 0.000520363523

	// Floor applied to non-positive CRP before the log transform.
	crpFloor = 0.000001
)

// convertUnit maps a native-unit biomarker value to the unit the regression
// expects. CRP additionally goes through a guarded natural log.
func convertUnit(b domain.Biomarker, v float64) float64 {
	switch b {
	case domain.ALBUMIN:
		return v * 10 // g/dL -> g/L
	case domain.CREATININE:
		return v * 88.4 // mg/dL -> umol/L
	case domain.GLUCOSE:
		return v * 0.0555 // mg/dL -> mmol/L
	case domain.CRP:
		crp := v * 0.1 // mg/L -> mg/dL
		if crp <= 0 {
			crp = crpFloor
		}
		return math.Log(crp)
	default:
		return v
	}
}

// PhenoAgeScorer computes the Levine phenotypic age bundle from a complete
// biomarker set. The scorer is stateless and safe for concurrent use.
type PhenoAgeScorer struct {
	logger *logrus.Logger
}

// NewPhenoAgeScorer creates a new scorer.
func NewPhenoAgeScorer(logger *logrus.Logger) *PhenoAgeScorer {
	return &PhenoAgeScorer{logger: logger}
}

// ComputeAge validates the set and evaluates the full PhenoAge pipeline:
// unit conversion, linear combination, Gompertz mortality score, phenotypic
// age, estimated DNAm age and estimated D-score.
func (s *PhenoAgeScorer) ComputeAge(set domain.BiomarkerSet) (*domain.AgeMetrics, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	converted := make(domain.BiomarkerSet, len(domain.BiomarkerOrder))
	terms := make(map[domain.Biomarker]float64, len(domain.BiomarkerOrder))

	lin := linearIntercept
	for _, b := range domain.BiomarkerOrder {
		cv := convertUnit(b, set[b])
		converted[b] = cv
		term := cv * regressionWeights[b]
		terms[b] = term
		lin += term
	}

	mort := 1 - math.Exp(-math.Exp(lin)*(math.Exp(gompertzGamma*mortalityHorizonMonths)-1)/gompertzGamma)
	phenoAge := phenoAgeOffset + math.Log(phenoAgeLogCoef*math.Log(1-mort))/phenoAgeScale
	dnamAge := phenoAge / (1 + dnamAgeCoef*math.Exp(dnamAgeRate*(dnamAgeOffset+phenoAge)))
	dScore := 1 - math.Exp(-dScoreCoef*math.Exp(phenoAgeScale*dnamAge))

	s.logger.WithFields(logrus.Fields{
		"chronological_age": set[domain.CHRONOLOGICAL_AGE],
		"pheno_age":         phenoAge,
		"mortality_score":   mort,
	}).Debug("Computed phenotypic age")

	return &domain.AgeMetrics{
		LinearCombination: lin,
		MortalityScore:    mort,
		PhenoAge:          phenoAge,
		DNAmAge:           dnamAge,
		DScore:            dScore,
		Inputs:            set.Copy(),
		ConvertedInputs:   converted,
		Terms:             terms,
	}, nil
}
