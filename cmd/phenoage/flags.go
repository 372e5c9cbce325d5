package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phenoage-mcp-server/internal/domain"
)

// biomarkerFlags binds the ten flag names to their biomarkers. The flag names
// mirror the common lab report abbreviations rather than the canonical keys.
var biomarkerFlags = []struct {
	name      string
	biomarker domain.Biomarker
	usage     string
}{
	{"albumin", domain.ALBUMIN, "Albumin (g/dL)"},
	{"creatinine", domain.CREATININE, "Creatinine (mg/dL)"},
	{"glucose", domain.GLUCOSE, "Glucose (mg/dL)"},
	{"crp", domain.CRP, "CRP (mg/L)"},
	{"lymphocyte", domain.LYMPHOCYTE, "Lymphocyte (%)"},
	{"mcv", domain.MCV, "MCV (fL)"},
	{"rdw", domain.RDW, "RDW (%)"},
	{"alp", domain.ALKALINE_PHOSPHATASE, "Alkaline Phosphatase (U/L)"},
	{"wbc", domain.WBC, "WBC (10^3 cells/µL)"},
	{"age", domain.CHRONOLOGICAL_AGE, "Chronological Age (years)"},
}

// addBiomarkerFlags registers the ten biomarker flags on cmd.
func addBiomarkerFlags(cmd *cobra.Command) {
	for _, f := range biomarkerFlags {
		cmd.Flags().Float64(f.name, 0, f.usage)
	}
}

// biomarkersFromFlags collects the provided biomarker flags into a set.
// Omitted flags stay absent so validation can list exactly what is missing.
func biomarkersFromFlags(cmd *cobra.Command) (domain.BiomarkerSet, error) {
	set := domain.BiomarkerSet{}
	for _, f := range biomarkerFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		value, err := cmd.Flags().GetFloat64(f.name)
		if err != nil {
			return nil, err
		}
		set[f.biomarker] = value
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// biomarkersFromFile loads a biomarker set from a JSON object. Keys may use
// any recognized alias; values may be numbers or numeric strings.
func biomarkersFromFile(path string) (domain.BiomarkerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse input file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case float64:
			values[key] = strconv.FormatFloat(v, 'g', -1, 64)
		case string:
			values[key] = v
		case nil:
			// Treated as absent, same as a blank cell.
		default:
			return nil, fmt.Errorf("unsupported value for %s in %s", key, path)
		}
	}

	return parser.ParseRaw(values)
}

// splitList splits a comma-separated flag value into trimmed non-empty names.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printReferenceValues prints the percentile landmark block shared by the
// percentile and interactive commands.
func printReferenceValues(refs domain.ReferenceValues) {
	fmt.Println("\n--- Reference Values for Your Age ---")
	fmt.Printf("10th percentile (less healthy than 90%% of people): %.1f years\n", refs.P10)
	fmt.Printf("25th percentile (less healthy than 75%% of people): %.1f years\n", refs.P25)
	fmt.Printf("50th percentile (median): %.1f years\n", refs.P50)
	fmt.Printf("75th percentile (healthier than 75%% of people): %.1f years\n", refs.P75)
	fmt.Printf("90th percentile (healthier than 90%% of people): %.1f years\n", refs.P90)
}

// printSimulationReport prints the full simulation block shared by the
// simulate and interactive commands.
func printSimulationReport(title string, report *domain.SimulationReport) {
	fmt.Printf("\n%s\n", title)
	fmt.Printf("Original PhenoAge: %.2f years\n", report.OriginalPhenoAge)
	fmt.Printf("New PhenoAge: %.2f years\n", report.NewPhenoAge)
	fmt.Printf("Improvement: %.2f years\n", -report.Delta)

	fmt.Println("\nPercentile Assessment:")
	fmt.Printf("Original Percentile: %.2f\n", report.OriginalPercentile)
	fmt.Printf("New Percentile: %.2f\n", report.NewPercentile)
	fmt.Printf("Percentile Improvement: %.2f\n", report.PercentileChange)
	fmt.Printf("Original Interpretation: %s\n", report.OriginalInterpretation)
	fmt.Printf("New Interpretation: %s\n", report.NewInterpretation)

	fmt.Println("\nInterventions applied:")
	for i, name := range report.AppliedInterventions {
		fmt.Printf("  %d. %s\n", i+1, name)
	}

	if len(report.Changes) > 0 {
		fmt.Println("\nBiomarker Changes:")
		for _, change := range report.Changes {
			fmt.Printf("  %s: %.2f → %.2f (change: %+.2f)\n",
				change.Biomarker, change.OriginalValue, change.NewValue, change.Change)
		}
	}
}
