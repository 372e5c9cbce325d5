package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenoage-mcp-server/internal/domain"
)

func newTestSimulator() *CombinedSimulator {
	logger := testLogger()
	scorer := NewPhenoAgeScorer(logger)
	return NewCombinedSimulator(scorer, NewInterventionCatalog(logger), logger)
}

func TestCombinedSimulator_EmptyList(t *testing.T) {
	sim := newTestSimulator()

	set := middleAgedSubject()
	result, err := sim.Simulate(set, nil)
	require.NoError(t, err)

	assert.Zero(t, result.Delta)
	assert.Equal(t, result.OriginalPhenoAge, result.NewPhenoAge)
	assert.True(t, result.UpdatedBiomarkers.Equal(set))
	assert.Empty(t, result.AppliedInterventions)
	assert.False(t, result.Magnified)
}

func TestCombinedSimulator_SingleInterventionMatchesRanking(t *testing.T) {
	logger := testLogger()
	scorer := NewPhenoAgeScorer(logger)
	catalog := NewInterventionCatalog(logger)
	sim := NewCombinedSimulator(scorer, catalog, logger)
	ranker := NewInterventionRanker(scorer, catalog, logger)

	result, err := sim.Simulate(middleAgedSubject(), []string{"Stop Creatine Supplementation"})
	require.NoError(t, err)

	entries, err := ranker.Rank(middleAgedSubject())
	require.NoError(t, err)

	var fromRanking *domain.RankingEntry
	for i := range entries {
		if entries[i].Intervention == "Stop Creatine Supplementation" {
			fromRanking = &entries[i]
			break
		}
	}
	require.NotNil(t, fromRanking)

	assert.InDelta(t, fromRanking.Delta, result.Delta, 1e-12)
	assert.InDelta(t, fromRanking.NewPhenoAge, result.NewPhenoAge, 1e-12)
	assert.False(t, result.Magnified)
}

func TestCombinedSimulator_SequentialComposition(t *testing.T) {
	sim := newTestSimulator()

	set := middleAgedSubject()
	result, err := sim.Simulate(set, []string{
		"Regular Exercise",
		"Curcumin (500 mg/day)",
		"Omega-3 (1.5–3 g/day)",
	})
	require.NoError(t, err)

	assert.InDelta(t, 37.043364595, result.OriginalPhenoAge, 1e-6)
	assert.InDelta(t, 34.623830649, result.NewPhenoAge, 1e-6)
	assert.InDelta(t, -2.419533946, result.Delta, 1e-6)

	// Exercise already pushed CRP to the floor and glucose down, so the
	// later CRP rules find nothing left to improve.
	assert.InDelta(t, 74, result.UpdatedBiomarkers[domain.GLUCOSE], 1e-9)
	assert.InDelta(t, 0.01, result.UpdatedBiomarkers[domain.CRP], 1e-9)

	// The combined effect equals the strongest standalone effect, which is
	// not weaker than it, so no magnification applies.
	assert.False(t, result.Magnified)

	assert.Equal(t, []string{
		"Regular Exercise",
		"Curcumin (500 mg/day)",
		"Omega-3 (1.5–3 g/day)",
	}, result.AppliedInterventions)

	assert.True(t, result.OriginalBiomarkers.Equal(set))
	assert.True(t, set.Equal(middleAgedSubject()), "caller's set must not be mutated")
}

func TestCombinedSimulator_MagnificationFloorsWeakComposition(t *testing.T) {
	sim := newTestSimulator()

	// High Protein first lifts albumin to 4.0, which disables the stronger
	// albumin branch of the balanced diet. The raw composition is then
	// weaker than the balanced diet alone, so the reported delta is floored
	// at the strongest standalone effect plus 15 percent.
	result, err := sim.Simulate(lowAlbuminSubject(), []string{
		"High Protein Intake",
		"Well-Balanced Diet",
	})
	require.NoError(t, err)

	assert.True(t, result.Magnified)
	assert.InDelta(t, 37.757548220, result.OriginalPhenoAge, 1e-6)
	assert.InDelta(t, -1.890381591, result.Delta, 1e-6)
	assert.InDelta(t, 35.867166628, result.NewPhenoAge, 1e-6)

	// The correction adjusts only the summary; the biomarkers keep the raw
	// sequential result.
	assert.InDelta(t, 4.0, result.UpdatedBiomarkers[domain.ALBUMIN], 1e-9)
	assert.InDelta(t, 80, result.UpdatedBiomarkers[domain.MCV], 1e-9)
	assert.InDelta(t, 0.2, result.UpdatedBiomarkers[domain.CRP], 1e-9)
}

func TestCombinedSimulator_OrderMatters(t *testing.T) {
	sim := newTestSimulator()

	// Reversed order: the balanced diet runs first at full strength, the
	// protein rule then finds albumin already at 4.2 and does nothing. The
	// composition equals the strongest standalone effect, which is not
	// weaker than it, so no correction fires.
	result, err := sim.Simulate(lowAlbuminSubject(), []string{
		"Well-Balanced Diet",
		"High Protein Intake",
	})
	require.NoError(t, err)

	assert.False(t, result.Magnified)
	assert.InDelta(t, -1.643810080, result.Delta, 1e-6)
	assert.InDelta(t, 4.2, result.UpdatedBiomarkers[domain.ALBUMIN], 1e-9)
}

func TestCombinedSimulator_UnknownNameFailsBeforeApplying(t *testing.T) {
	sim := newTestSimulator()

	set := middleAgedSubject()
	snapshot := set.Copy()

	result, err := sim.Simulate(set, []string{"Regular Exercise", "Cryotherapy", "Sauna"})
	require.Error(t, err)
	assert.Nil(t, result)

	var unknown *domain.UnknownInterventionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Cryotherapy", unknown.Name)
	assert.True(t, set.Equal(snapshot))
}

func TestCombinedSimulator_IncompleteSetFails(t *testing.T) {
	sim := newTestSimulator()

	set := middleAgedSubject()
	delete(set, domain.ALBUMIN)

	result, err := sim.Simulate(set, []string{"Regular Exercise"})
	require.Error(t, err)
	assert.Nil(t, result)

	var missing *domain.MissingBiomarkerError
	require.True(t, errors.As(err, &missing))
}
