package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestInterpretationBandDescriptions(t *testing.T) {
	tests := []struct {
		band     InterpretationBand
		contains string
	}{
		{EXCELLENT, "younger biological age than 90%"},
		{VERY_GOOD, "younger biological age than 75%"},
		{GOOD, "younger biological age than average"},
		{BELOW_AVERAGE, "older biological age than average"},
		{POOR, "older biological age than 75%"},
		{CONCERNING, "older biological age than 90%"},
	}

	for _, tt := range tests {
		t.Run(tt.band.String(), func(t *testing.T) {
			if !tt.band.IsValid() {
				t.Errorf("Expected %s to be valid", tt.band)
			}
			if !strings.Contains(tt.band.Description(), tt.contains) {
				t.Errorf("Description for %s should contain %q, got %q",
					tt.band, tt.contains, tt.band.Description())
			}
		})
	}

	if InterpretationBand("AMAZING").IsValid() {
		t.Error("Unknown band should be invalid")
	}
}

func TestFormatAgeDifference(t *testing.T) {
	tests := []struct {
		name     string
		diff     float64
		expected string
	}{
		{"Younger", 13.75, "13.8 years YOUNGER than chronological age"},
		{"Older", -7.26, "7.3 years OLDER than chronological age"},
		{"Exact match", 0, "exactly matching chronological age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAgeDifference(tt.diff); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestChangeRecordMarshalJSON(t *testing.T) {
	t.Run("Defined percent change", func(t *testing.T) {
		rec := ChangeRecord{
			Biomarker:      CRP,
			OriginalValue:  2.0,
			NewValue:       1.0,
			Change:         -1.0,
			PercentChange:  -50.0,
			PercentDefined: true,
		}

		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}

		var decoded map[string]interface{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if decoded["percent_change"] != -50.0 {
			t.Errorf("Expected percent_change -50, got %v", decoded["percent_change"])
		}
		if decoded["biomarker"] != "crp" {
			t.Errorf("Expected biomarker crp, got %v", decoded["biomarker"])
		}
	})

	t.Run("Undefined percent change marshals as null", func(t *testing.T) {
		rec := ChangeRecord{
			Biomarker:      CRP,
			OriginalValue:  0,
			NewValue:       0.5,
			Change:         0.5,
			PercentChange:  math.Inf(1),
			PercentDefined: false,
		}

		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if !strings.Contains(string(data), `"percent_change":null`) {
			t.Errorf("Expected null percent_change, got %s", data)
		}
	})
}

func TestSimulationResultJSONShape(t *testing.T) {
	result := SimulationResult{
		OriginalBiomarkers:   completeSet(),
		UpdatedBiomarkers:    completeSet(),
		OriginalPhenoAge:     40.0,
		NewPhenoAge:          37.5,
		Delta:                -2.5,
		AppliedInterventions: []string{"Sauna", "Zinc Supplementation"},
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	for _, key := range []string{
		"original_biomarkers", "updated_biomarkers", "original_pheno_age",
		"new_pheno_age", "delta", "applied_interventions",
	} {
		if !strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("Expected key %q in JSON output", key)
		}
	}

	// Magnified is omitted unless the correction fired.
	if strings.Contains(string(data), "magnified") {
		t.Error("magnified should be omitted when false")
	}
}

func TestReferenceValuesJSONKeys(t *testing.T) {
	refs := ReferenceValues{P10: 53, P25: 49.7, P50: 46, P75: 42.3, P90: 39}

	data, err := json.Marshal(refs)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	for _, key := range []string{"10th", "25th", "50th", "75th", "90th"} {
		if !strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("Expected percentile key %q in JSON output", key)
		}
	}
}
