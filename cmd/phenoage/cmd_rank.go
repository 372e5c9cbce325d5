package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phenoage-mcp-server/internal/domain"
)

var rankTop int

// rankCmd ranks every catalog intervention for one subject
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank interventions by their impact on phenotypic age",
	Long: `Evaluate every known intervention independently against the subject's
biomarkers and list them best first. --top limits the output; 0 shows the
full catalog.`,
	RunE: runRank,
}

func init() {
	addBiomarkerFlags(rankCmd)
	rankCmd.Flags().IntVar(&rankTop, "top", 5, "Number of interventions to show (0 = all)")
}

func runRank(cmd *cobra.Command, args []string) error {
	set, err := biomarkersFromFlags(cmd)
	if err != nil {
		return err
	}

	entries, err := toolkit.RankInterventions(set)
	if err != nil {
		return err
	}

	top := rankTop
	if !cmd.Flags().Changed("top") {
		top = configMgr.GetRankingConfig().TopK
	}
	shown := entries
	if top > 0 && top < len(shown) {
		shown = shown[:top]
	}

	age := set[domain.CHRONOLOGICAL_AGE]
	baseline := entries[0].BaselinePhenoAge
	fmt.Printf("\nBaseline PhenoAge: %.2f years (Percentile: %.2f)\n", baseline, toolkit.Percentile(age, baseline))
	fmt.Println("Interventions ranked by improvement (best first):")
	fmt.Println()
	for _, entry := range shown {
		fmt.Printf("- %s: new PhenoAge = %.2f years (delta=%.2f years, new percentile: %.2f)\n",
			entry.Intervention, entry.NewPhenoAge, entry.Delta, toolkit.Percentile(age, entry.NewPhenoAge))
	}
	return nil
}
