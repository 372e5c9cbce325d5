package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phenoage-mcp-server/internal/domain"
)

var (
	percentileAge      float64
	percentilePhenoAge float64
)

// percentileCmd places a phenotypic age among chronological-age peers
var percentileCmd = &cobra.Command{
	Use:   "percentile",
	Short: "Calculate the population percentile for a phenotypic age",
	Long: `Rank an already calculated phenotypic age against chronological-age peers
and print the qualitative interpretation plus the reference landmarks.`,
	RunE: runPercentile,
}

func init() {
	percentileCmd.Flags().Float64Var(&percentileAge, "age", 0, "Chronological age in years")
	percentileCmd.Flags().Float64Var(&percentilePhenoAge, "phenoage", 0, "Phenotypic age in years")
	percentileCmd.MarkFlagRequired("age")
	percentileCmd.MarkFlagRequired("phenoage")
}

func runPercentile(cmd *cobra.Command, args []string) error {
	percentile := toolkit.Percentile(percentileAge, percentilePhenoAge)
	interpretation := toolkit.Interpret(percentile)
	refs := toolkit.ReferenceValues(percentileAge)

	fmt.Println("\n===== PHENOTYPIC AGE ASSESSMENT =====")
	fmt.Printf("Chronological Age: %.1f years\n", percentileAge)
	fmt.Printf("Phenotypic Age: %.1f years\n", percentilePhenoAge)
	fmt.Printf("\nYour biological age is %s\n", domain.FormatAgeDifference(percentileAge-percentilePhenoAge))
	fmt.Printf("\nYou are in the %.1fth percentile\n", percentile)
	fmt.Printf("This means: %s\n", interpretation)

	printReferenceValues(refs)
	return nil
}
