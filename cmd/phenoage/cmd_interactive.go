package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phenoage-mcp-server/internal/domain"
	"github.com/phenoage-mcp-server/pkg/biomarker"
)

// interactivePrompts lists the questions in entry order with the labels the
// lab report usually carries.
var interactivePrompts = []struct {
	label     string
	biomarker domain.Biomarker
}{
	{"Albumin (g/dL)", domain.ALBUMIN},
	{"Creatinine (mg/dL)", domain.CREATININE},
	{"Glucose (mg/dL)", domain.GLUCOSE},
	{"CRP (mg/L)", domain.CRP},
	{"Lymphocyte percentage (%)", domain.LYMPHOCYTE},
	{"Mean Cell Volume (fL)", domain.MCV},
	{"Red Cell Distribution Width (%)", domain.RDW},
	{"Alkaline Phosphatase (U/L)", domain.ALKALINE_PHOSPHATASE},
	{"White Blood Cell count (10^3 cells/µL)", domain.WBC},
	{"Chronological Age (years)", domain.CHRONOLOGICAL_AGE},
}

// interactiveCmd walks through a full assessment at the terminal
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Run a guided assessment at the terminal",
	RunE:  runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("\n===== PHENOTYPIC AGE CALCULATOR =====")
	fmt.Println("This tool calculates your biological age and provides personalized recommendations")
	fmt.Println("\nPlease enter your biomarker values:")

	set := domain.BiomarkerSet{}
	for _, prompt := range interactivePrompts {
		value, err := promptValue(reader, prompt.label, prompt.biomarker)
		if err != nil {
			return err
		}
		set[prompt.biomarker] = value
	}

	assessment, err := toolkit.Assessment(set)
	if err != nil {
		return err
	}

	fmt.Println("\n===== PHENOTYPIC AGE ASSESSMENT =====")
	fmt.Printf("Chronological Age: %.1f years\n", assessment.ChronologicalAge)
	fmt.Printf("Phenotypic Age: %.1f years\n", assessment.PhenoAge)
	fmt.Printf("\nYour biological age is %s\n", assessment.AgeDifferenceText)
	fmt.Printf("\nYou are in the %.1fth percentile\n", assessment.Percentile)
	fmt.Printf("This means: %s\n", assessment.Interpretation)
	printReferenceValues(assessment.ReferenceValues)

	rankings, err := toolkit.RankInterventions(set)
	if err != nil {
		return err
	}

	fmt.Println("\n===== RECOMMENDED INTERVENTIONS =====")
	fmt.Println("Interventions ranked by potential impact on biological age:")
	fmt.Println()
	shown := rankings
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, entry := range shown {
		fmt.Printf("%d. %s: %.2f years improvement\n", i+1, entry.Intervention, -entry.Delta)
	}

	fmt.Println("\nWould you like to simulate the effects of selected interventions? (y/n)")
	choice, err := reader.ReadString('\n')
	if err != nil {
		return nil
	}
	choice = strings.TrimSpace(strings.ToLower(choice))
	if choice != "y" && choice != "yes" {
		return nil
	}

	fmt.Println("\nEnter the intervention numbers you wish to simulate (comma-separated, e.g., 1,3,5):")
	selection, err := reader.ReadString('\n')
	if err != nil {
		return nil
	}

	names := selectInterventions(rankings, selection)
	if len(names) == 0 {
		fmt.Println("No valid interventions selected.")
		return nil
	}

	fmt.Printf("\nSimulating effects of %d interventions...\n", len(names))
	report, err := toolkit.SimulateInterventions(set, names)
	if err != nil {
		return err
	}

	printSimulationReport("===== INTERVENTION SIMULATION RESULTS =====", report)
	return nil
}

// promptValue asks for one biomarker until it parses as a finite number.
func promptValue(reader *bufio.Reader, label string, b domain.Biomarker) (float64, error) {
	for {
		fmt.Printf("%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, fmt.Errorf("input aborted: %w", err)
		}
		value, perr := biomarker.ParseValue(b, strings.TrimSpace(line))
		if perr != nil {
			fmt.Println("Please enter a valid number.")
			continue
		}
		return value, nil
	}
}

// selectInterventions maps a 1-based number selection onto ranking entries,
// silently skipping anything out of range.
func selectInterventions(rankings []domain.RankingEntry, selection string) []string {
	names := make([]string, 0)
	for _, part := range strings.Split(selection, ",") {
		index, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if index < 1 || index > len(rankings) {
			continue
		}
		names = append(names, rankings[index-1].Intervention)
	}
	return names
}
