package service

import (
	"math"

	"github.com/phenoage-mcp-server/internal/domain"
)

// ChangeReporter turns a simulation's before/after biomarker sets into
// per-biomarker change records.
type ChangeReporter struct{}

// NewChangeReporter creates a reporter.
func NewChangeReporter() *ChangeReporter {
	return &ChangeReporter{}
}

// Diff emits one record per biomarker whose value moved during the
// simulation, in canonical biomarker order. Comparison is exact; a biomarker
// only counts as changed when the stored float differs. A zero original value
// leaves the percent change undefined.
func (r *ChangeReporter) Diff(result *domain.SimulationResult) []domain.ChangeRecord {
	changes := make([]domain.ChangeRecord, 0)
	for _, b := range domain.BiomarkerOrder {
		orig := result.OriginalBiomarkers[b]
		updated := result.UpdatedBiomarkers[b]
		if orig == updated {
			continue
		}

		rec := domain.ChangeRecord{
			Biomarker:     b,
			OriginalValue: orig,
			NewValue:      updated,
			Change:        updated - orig,
		}
		if orig != 0 {
			rec.PercentChange = (updated - orig) / orig * 100
			rec.PercentDefined = true
		} else {
			rec.PercentChange = math.Inf(1)
		}
		changes = append(changes, rec)
	}
	return changes
}
