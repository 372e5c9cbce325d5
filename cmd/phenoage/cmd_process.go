package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phenoage-mcp-server/internal/batch"
	"github.com/phenoage-mcp-server/internal/domain"
)

var (
	processInput  string
	processOutput string
	processRank   int
	processApply  string

	exampleOutput string
)

// processCmd scores a whole subject file
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a biomarker file (TSV/CSV/Excel/JSON)",
	Long: `Score every subject in a tabular biomarker file. The output format follows
the output file extension (.tsv, .csv, .xlsx or .json); without --output the
result table is printed as TSV.

--rank N appends the top N intervention columns per subject; --apply runs a
combined simulation per subject and appends its result columns.`,
	RunE: runProcess,
}

// createExampleCmd writes a starter input file
var createExampleCmd = &cobra.Command{
	Use:   "create-example",
	Short: "Create an example biomarker input file",
	RunE:  runCreateExample,
}

func init() {
	processCmd.Flags().StringVar(&processInput, "input", "", "Input file with one subject per row")
	processCmd.Flags().StringVar(&processOutput, "output", "", "Output file; format inferred from the extension")
	processCmd.Flags().IntVar(&processRank, "rank", 0, "Append the top N intervention rankings per subject")
	processCmd.Flags().StringVar(&processApply, "apply", "", "Comma-separated interventions to simulate per subject")
	processCmd.MarkFlagRequired("input")

	createExampleCmd.Flags().StringVar(&exampleOutput, "output", "example_biomarkers.tsv", "Path of the example file")
}

func runProcess(cmd *cobra.Command, args []string) error {
	proc := batch.NewProcessor(toolkit, configMgr.GetBatchConfig().Workers, logger)

	opts := batch.Options{RankTop: processRank}
	if processApply != "" {
		opts.Apply = splitList(processApply)
	}

	result, err := proc.Process(cmd.Context(), processInput, processOutput, opts)
	if err != nil {
		return err
	}

	if processOutput == "" {
		printTable(result.Table)
	} else {
		fmt.Printf("Results saved to %s\n", processOutput)
	}
	fmt.Printf("Processed %d rows (%d failed)\n", result.Rows, result.Failed)
	return nil
}

func runCreateExample(cmd *cobra.Command, args []string) error {
	if err := batch.WriteExample(exampleOutput); err != nil {
		return err
	}

	fmt.Printf("Created %s with sample data\n", exampleOutput)
	fmt.Println("\nFile Format Description:")
	fmt.Println("- Each row represents a different subject")
	fmt.Println("- Columns contain biomarker values and metadata")
	fmt.Println("- Required biomarkers for PhenoAge calculation:")
	for _, b := range domain.BiomarkerOrder {
		fmt.Printf("  * %s\n", b.WithUnit())
	}
	fmt.Println("- Additional metadata columns are optional")
	return nil
}

// printTable renders a result table as TSV on stdout.
func printTable(table *batch.Table) {
	w := csv.NewWriter(os.Stdout)
	w.Comma = '\t'
	_ = w.Write(table.Columns)
	for _, rec := range table.Records {
		row := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			if value, ok := rec[col]; ok {
				row[i] = cellString(value)
			}
		}
		_ = w.Write(row)
	}
	w.Flush()
}

func cellString(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
