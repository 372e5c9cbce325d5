package main

import (
	"github.com/spf13/cobra"
)

var simulateApply string

// simulateCmd applies a sequence of interventions to one subject
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate the combined effect of multiple interventions",
	Long: `Apply the named interventions in order to the subject's biomarkers and
report the combined phenotypic age change, percentile movement and every
biomarker that moved.`,
	RunE: runSimulate,
}

func init() {
	addBiomarkerFlags(simulateCmd)
	simulateCmd.Flags().StringVar(&simulateApply, "apply", "", "Comma-separated intervention names, applied in order")
	simulateCmd.MarkFlagRequired("apply")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	set, err := biomarkersFromFlags(cmd)
	if err != nil {
		return err
	}

	report, err := toolkit.SimulateInterventions(set, splitList(simulateApply))
	if err != nil {
		return err
	}

	printSimulationReport("Combined Intervention Simulation:", report)
	return nil
}
