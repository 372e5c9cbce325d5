package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phenoage-mcp-server/internal/domain"
)

func TestPhenoAgePercentile_Percentile(t *testing.T) {
	p := NewPhenoAgePercentile()

	tests := []struct {
		name             string
		chronologicalAge float64
		phenoAge         float64
		want             float64
	}{
		{"Equal ages land on the median", 40, 40, 50.0},
		{"Ten years younger", 40, 30, 96.548182600},
		{"Ten years older", 40, 50, 3.451817400},
		{"Young healthy subject", 30, 14.184358602, 99.798351388},
		{"Middle-aged subject", 46, 37.043364595, 94.828833817},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Percentile(tt.chronologicalAge, tt.phenoAge)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestPhenoAgePercentile_MonotoneInPhenoAge(t *testing.T) {
	p := NewPhenoAgePercentile()

	prev := p.Percentile(50, 30)
	for pheno := 32.0; pheno <= 70; pheno += 2 {
		got := p.Percentile(50, pheno)
		assert.Less(t, got, prev, "older phenotypic age must rank lower")
		prev = got
	}
}

func TestPhenoAgePercentile_References(t *testing.T) {
	p := NewPhenoAgePercentile()

	refs := p.References(30)
	assert.InDelta(t, 37.048533610, refs.P10, 1e-9)
	assert.InDelta(t, 33.709693626, refs.P25, 1e-9)
	assert.InDelta(t, 30.0, refs.P50, 1e-9)
	assert.InDelta(t, 26.290306374, refs.P75, 1e-9)
	assert.InDelta(t, 22.951466390, refs.P90, 1e-9)

	// Landmarks sit symmetric around the chronological age.
	assert.InDelta(t, refs.P10-refs.P50, refs.P50-refs.P90, 1e-9)
	assert.InDelta(t, refs.P25-refs.P50, refs.P50-refs.P75, 1e-9)
}

func TestPhenoAgePercentile_Bands(t *testing.T) {
	p := NewPhenoAgePercentile()

	tests := []struct {
		percentile float64
		want       domain.InterpretationBand
	}{
		{99.9, domain.EXCELLENT},
		{90.0, domain.EXCELLENT},
		{89.999, domain.VERY_GOOD},
		{75.0, domain.VERY_GOOD},
		{74.999, domain.GOOD},
		{50.0, domain.GOOD},
		{49.999, domain.BELOW_AVERAGE},
		{25.0, domain.BELOW_AVERAGE},
		{24.999, domain.POOR},
		{10.0, domain.POOR},
		{9.999, domain.CONCERNING},
		{0.0, domain.CONCERNING},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Band(tt.percentile), "percentile %v", tt.percentile)
	}
}

func TestPhenoAgePercentile_Interpret(t *testing.T) {
	p := NewPhenoAgePercentile()

	assert.Equal(t, "Excellent - younger biological age than 90% of people your age", p.Interpret(95))
	assert.Equal(t, "Good - younger biological age than average", p.Interpret(60))
	assert.Equal(t, "Concerning - older biological age than 90% of people your age", p.Interpret(2))
}
