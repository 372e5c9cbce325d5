package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	assessOutput string
	assessSave   string
)

// assessCmd runs the complete assessment for one subject
var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Complete assessment: phenotypic age, percentile and interventions",
	RunE:  runAssess,
}

func init() {
	addBiomarkerFlags(assessCmd)
	assessCmd.Flags().StringVar(&assessOutput, "output", "text", "Output format (text|json)")
	assessCmd.Flags().StringVar(&assessSave, "save", "", "Also save the assessment as JSON to this file")
}

func runAssess(cmd *cobra.Command, args []string) error {
	set, err := biomarkersFromFlags(cmd)
	if err != nil {
		return err
	}

	assessment, err := toolkit.CompleteAssessment(set)
	if err != nil {
		return err
	}

	if assessOutput == "json" {
		if err := printJSON(assessment); err != nil {
			return err
		}
	} else {
		fmt.Println("\n===== PHENOTYPIC AGE ASSESSMENT =====")
		fmt.Printf("Chronological Age: %.1f years\n", assessment.ChronologicalAge)
		fmt.Printf("Phenotypic Age: %.1f years\n", assessment.PhenoAge)
		fmt.Printf("Percentile: %.1f\n", assessment.Percentile)
		fmt.Printf("Interpretation: %s\n", assessment.Interpretation)
		fmt.Printf("Age Difference: %s\n", assessment.AgeDifferenceText)

		fmt.Println("\n===== INTERVENTION RECOMMENDATIONS =====")
		fmt.Println("Top 5 interventions ranked by potential impact:")
		top := assessment.InterventionRankings
		if len(top) > 5 {
			top = top[:5]
		}
		for i, entry := range top {
			fmt.Printf("%d. %s: %.2f years younger\n", i+1, entry.Intervention, -entry.Delta)
		}
	}

	if assessSave != "" {
		if err := saveAssessment(assessSave, assessment); err != nil {
			return err
		}
		fmt.Printf("\nComplete assessment saved to %s\n", assessSave)
	}
	return nil
}

func saveAssessment(path string, assessment any) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode assessment: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write assessment: %w", err)
	}
	return nil
}
