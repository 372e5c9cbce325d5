package service

import (
	"math"

	"github.com/phenoage-mcp-server/internal/domain"
)

// Population model for percentile ranking: phenotypic age among peers of the
// same chronological age is treated as normally distributed around that age.
const (
	phenoAgeStdDev = 5.5

	// Standard normal quantiles for the 90th and 75th percentiles.
	zQuantile90 = 1.2815515655446004
	zQuantile75 = 0.6744897501960817
)

// PhenoAgePercentile ranks phenotypic ages against chronological-age peers
// under the normal population model.
type PhenoAgePercentile struct{}

// NewPhenoAgePercentile creates a percentile scorer.
func NewPhenoAgePercentile() *PhenoAgePercentile {
	return &PhenoAgePercentile{}
}

// Percentile returns the share of peers with an older phenotypic age, on a
// 0-100 scale. Higher means biologically younger than more peers; equal ages
// land exactly on 50.
func (p *PhenoAgePercentile) Percentile(chronologicalAge, phenoAge float64) float64 {
	z := (phenoAge - chronologicalAge) / phenoAgeStdDev
	return (1 - stdNormCDF(z)) * 100
}

// References returns the phenotypic age landmarks at the conventional report
// percentiles for the given chronological age. The 50th landmark is the
// chronological age itself; the others sit symmetric around it.
func (p *PhenoAgePercentile) References(chronologicalAge float64) domain.ReferenceValues {
	return domain.ReferenceValues{
		P10: chronologicalAge + phenoAgeStdDev*zQuantile90,
		P25: chronologicalAge + phenoAgeStdDev*zQuantile75,
		P50: chronologicalAge,
		P75: chronologicalAge - phenoAgeStdDev*zQuantile75,
		P90: chronologicalAge - phenoAgeStdDev*zQuantile90,
	}
}

// Band buckets a percentile into its qualitative level.
func (p *PhenoAgePercentile) Band(percentile float64) domain.InterpretationBand {
	switch {
	case percentile >= 90:
		return domain.EXCELLENT
	case percentile >= 75:
		return domain.VERY_GOOD
	case percentile >= 50:
		return domain.GOOD
	case percentile >= 25:
		return domain.BELOW_AVERAGE
	case percentile >= 10:
		return domain.POOR
	default:
		return domain.CONCERNING
	}
}

// Interpret returns the user-facing interpretation text for a percentile.
func (p *PhenoAgePercentile) Interpret(percentile float64) string {
	return p.Band(percentile).Description()
}

// stdNormCDF is the standard normal cumulative distribution function.
func stdNormCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}
