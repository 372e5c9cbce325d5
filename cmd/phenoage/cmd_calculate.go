package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phenoage-mcp-server/internal/domain"
)

var (
	calcInput   string
	calcOutput  string
	calcVerbose bool
)

// calculateCmd scores a single set of biomarkers
var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate phenotypic age for a single set of biomarkers",
	Long: `Calculate the phenotypic age clock for one subject.

Biomarkers come either from the ten value flags or from a JSON file given
with --input. File keys may use common aliases (alb, glu, alk phos, ...).`,
	RunE: runCalculate,
}

func init() {
	addBiomarkerFlags(calculateCmd)
	calculateCmd.Flags().StringVar(&calcInput, "input", "", "JSON file with biomarker values instead of flags")
	calculateCmd.Flags().StringVar(&calcOutput, "output", "text", "Output format (text|json)")
	calculateCmd.Flags().BoolVar(&calcVerbose, "verbose", false, "Include converted inputs and weighted terms")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	set, err := resolveCalculateInput(cmd)
	if err != nil {
		return err
	}

	metrics, err := toolkit.ComputeAge(set)
	if err != nil {
		return err
	}

	if calcOutput == "json" {
		return printJSON(metrics)
	}

	fmt.Println("\nPhenoAge Calculation Results:")
	fmt.Printf("  Linear Combination: %.4f\n", metrics.LinearCombination)
	fmt.Printf("  Mortality Score: %.4f\n", metrics.MortalityScore)
	fmt.Printf("  PhenoAge: %.4f years\n", metrics.PhenoAge)
	fmt.Printf("  Estimated DNAm Age: %.4f years\n", metrics.DNAmAge)
	fmt.Printf("  Estimated D-Score: %.4f\n", metrics.DScore)

	if calcVerbose {
		fmt.Println("\nConverted Inputs:")
		for _, b := range domain.BiomarkerOrder {
			fmt.Printf("  %s: %.6f\n", b, metrics.ConvertedInputs[b])
		}
		fmt.Println("\nWeighted Terms:")
		for _, b := range domain.BiomarkerOrder {
			fmt.Printf("  %s: %+.6f\n", b, metrics.Terms[b])
		}
	}
	return nil
}

func resolveCalculateInput(cmd *cobra.Command) (domain.BiomarkerSet, error) {
	if calcInput != "" {
		return biomarkersFromFile(calcInput)
	}
	return biomarkersFromFlags(cmd)
}
