package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// AgeMetrics is the full output bundle of one PhenoAge computation.
// ConvertedInputs and Terms carry the intermediate values of the regression
// (unit-converted biomarkers and their weighted contributions) for verbose
// reporting; they are not needed to interpret the headline ages.
type AgeMetrics struct {
	LinearCombination float64 `json:"linear_combination"`
	MortalityScore    float64 `json:"mortality_score"`
	PhenoAge          float64 `json:"pheno_age"`
	DNAmAge           float64 `json:"est_dnam_age"`
	DScore            float64 `json:"est_d_score"`

	Inputs          BiomarkerSet          `json:"inputs,omitempty"`
	ConvertedInputs BiomarkerSet          `json:"converted_inputs,omitempty"`
	Terms           map[Biomarker]float64 `json:"terms,omitempty"`
}

// Clone returns a deep copy of the metric bundle, including the input and
// term maps.
func (m *AgeMetrics) Clone() *AgeMetrics {
	out := *m
	out.Inputs = m.Inputs.Copy()
	out.ConvertedInputs = m.ConvertedInputs.Copy()
	if m.Terms != nil {
		out.Terms = make(map[Biomarker]float64, len(m.Terms))
		for b, t := range m.Terms {
			out.Terms[b] = t
		}
	}
	return &out
}

// LogFields returns structured logging fields for the metric bundle.
func (m *AgeMetrics) LogFields() map[string]any {
	return map[string]any{
		"pheno_age":       m.PhenoAge,
		"est_dnam_age":    m.DNAmAge,
		"mortality_score": m.MortalityScore,
	}
}

// RankingEntry records the standalone effect of a single intervention applied
// to the baseline biomarker set. Delta is NewPhenoAge minus BaselinePhenoAge;
// negative means younger.
type RankingEntry struct {
	Intervention     string  `json:"intervention"`
	BaselinePhenoAge float64 `json:"baseline_pheno_age"`
	NewPhenoAge      float64 `json:"new_pheno_age"`
	Delta            float64 `json:"delta"`
}

// SimulationResult is the outcome of applying an ordered sequence of
// interventions to one biomarker set.
//
// Delta reflects the reported combined effect. When the magnification
// heuristic fires (see the simulator), Delta and NewPhenoAge are the
// corrected summary values while UpdatedBiomarkers still holds the raw
// sequential application result; Magnified records that the correction
// was applied.
type SimulationResult struct {
	OriginalBiomarkers   BiomarkerSet   `json:"original_biomarkers"`
	UpdatedBiomarkers    BiomarkerSet   `json:"updated_biomarkers"`
	OriginalPhenoAge     float64        `json:"original_pheno_age"`
	NewPhenoAge          float64        `json:"new_pheno_age"`
	Delta                float64        `json:"delta"`
	AppliedInterventions []string       `json:"applied_interventions"`
	Changes              []ChangeRecord `json:"biomarker_changes"`
	Magnified            bool           `json:"magnified,omitempty"`
}

// ChangeRecord describes how a single biomarker moved during a simulation.
// PercentDefined is false when the original value was zero; PercentChange is
// +Inf in that case and is serialized as null.
type ChangeRecord struct {
	Biomarker      Biomarker `json:"biomarker"`
	OriginalValue  float64   `json:"original_value"`
	NewValue       float64   `json:"new_value"`
	Change         float64   `json:"change"`
	PercentChange  float64   `json:"percent_change"`
	PercentDefined bool      `json:"-"`
}

// MarshalJSON renders an undefined percent change as null, since JSON has no
// representation for +Inf.
func (c ChangeRecord) MarshalJSON() ([]byte, error) {
	out := struct {
		Biomarker     Biomarker `json:"biomarker"`
		OriginalValue float64   `json:"original_value"`
		NewValue      float64   `json:"new_value"`
		Change        float64   `json:"change"`
		PercentChange *float64  `json:"percent_change"`
	}{
		Biomarker:     c.Biomarker,
		OriginalValue: c.OriginalValue,
		NewValue:      c.NewValue,
		Change:        c.Change,
	}
	if c.PercentDefined && !math.IsInf(c.PercentChange, 0) {
		out.PercentChange = &c.PercentChange
	}
	return json.Marshal(out)
}

// ReferenceValues holds the PhenoAge landmarks for a chronological age: the
// value a subject would have at each population percentile. Field names keep
// the conventional percentile labels used in reports.
type ReferenceValues struct {
	P10 float64 `json:"10th"`
	P25 float64 `json:"25th"`
	P50 float64 `json:"50th"`
	P75 float64 `json:"75th"`
	P90 float64 `json:"90th"`
}

// InterpretationBand buckets a percentile into one of six qualitative levels.
type InterpretationBand string

const (
	EXCELLENT     InterpretationBand = "EXCELLENT"
	VERY_GOOD     InterpretationBand = "VERY_GOOD"
	GOOD          InterpretationBand = "GOOD"
	BELOW_AVERAGE InterpretationBand = "BELOW_AVERAGE"
	POOR          InterpretationBand = "POOR"
	CONCERNING    InterpretationBand = "CONCERNING"
)

// IsValid reports whether the band is one of the six defined levels.
func (b InterpretationBand) IsValid() bool {
	switch b {
	case EXCELLENT, VERY_GOOD, GOOD, BELOW_AVERAGE, POOR, CONCERNING:
		return true
	default:
		return false
	}
}

// String returns the band identifier.
func (b InterpretationBand) String() string {
	return string(b)
}

// Description returns the user-facing interpretation text for the band.
func (b InterpretationBand) Description() string {
	switch b {
	case EXCELLENT:
		return "Excellent - younger biological age than 90% of people your age"
	case VERY_GOOD:
		return "Very good - younger biological age than 75% of people your age"
	case GOOD:
		return "Good - younger biological age than average"
	case BELOW_AVERAGE:
		return "Below average - older biological age than average"
	case POOR:
		return "Poor - older biological age than 75% of people your age"
	case CONCERNING:
		return "Concerning - older biological age than 90% of people your age"
	default:
		return "Unknown percentile band"
	}
}

// Assessment is the headline biological age summary for one subject.
// AgeDifference is chronological minus phenotypic age, so positive means
// biologically younger.
type Assessment struct {
	ChronologicalAge  float64         `json:"chronological_age"`
	PhenoAge          float64         `json:"phenotypic_age"`
	Percentile        float64         `json:"percentile"`
	AgeDifference     float64         `json:"age_difference"`
	AgeDifferenceText string          `json:"age_difference_text"`
	Interpretation    string          `json:"interpretation"`
	ReferenceValues   ReferenceValues `json:"reference_values"`
}

// FormatAgeDifference renders the difference text used in assessments, e.g.
// "13.8 years YOUNGER than chronological age".
func FormatAgeDifference(diff float64) string {
	switch {
	case diff > 0:
		return fmt.Sprintf("%.1f years YOUNGER than chronological age", diff)
	case diff < 0:
		return fmt.Sprintf("%.1f years OLDER than chronological age", -diff)
	default:
		return "exactly matching chronological age"
	}
}

// SimulationReport extends a SimulationResult with percentile context for
// both endpoints of the simulation.
type SimulationReport struct {
	SimulationResult

	OriginalPercentile     float64 `json:"original_percentile"`
	NewPercentile          float64 `json:"new_percentile"`
	PercentileChange       float64 `json:"percentile_change"`
	OriginalInterpretation string  `json:"original_interpretation"`
	NewInterpretation      string  `json:"new_interpretation"`
}

// CompleteAssessment bundles the headline assessment with the full
// intervention ranking.
type CompleteAssessment struct {
	Assessment

	InterventionRankings []RankingEntry `json:"intervention_rankings"`
}
