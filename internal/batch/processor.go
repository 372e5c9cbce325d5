package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/phenoage-mcp-server/internal/domain"
	"github.com/phenoage-mcp-server/internal/service"
	"github.com/phenoage-mcp-server/pkg/biomarker"
)

// Output column names appended by the processor. Error columns mirror the
// three failure stages: scoring, ranking, simulation.
const (
	colPhenoAge          = "pheno_age"
	colDNAmAge           = "est_dnam_age"
	colDScore            = "est_d_score"
	colError             = "error"
	colRankingError      = "ranking_error"
	colCombinedPhenoAge  = "combined_pheno_age"
	colYearsYounger      = "years_younger"
	colOriginalPct       = "original_percentile"
	colNewPct            = "new_percentile"
	colPctChange         = "percentile_change"
	colInterventionError = "intervention_error"
)

// Options control the optional per-row augmentations.
type Options struct {
	// RankTop appends rank{i}_intervention / rank{i}_impact columns for the
	// top N interventions when positive.
	RankTop int

	// Apply simulates the named interventions per row and appends the
	// combined-result columns.
	Apply []string
}

// Result is one completed batch run.
type Result struct {
	RunID  string
	Table  *Table
	Rows   int
	Failed int
}

// Processor runs subject files through the toolkit row by row. Rows are
// independent, so they run concurrently under a bounded worker pool and keep
// their input order in the output.
type Processor struct {
	toolkit *service.Toolkit
	workers int
	logger  *logrus.Logger
}

// NewProcessor creates a processor with the given worker pool size.
func NewProcessor(toolkit *service.Toolkit, workers int, logger *logrus.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{toolkit: toolkit, workers: workers, logger: logger}
}

// Process reads the input file, scores every row, applies the requested
// augmentations and, when outputPath is non-empty, writes the result in the
// format that path's extension names.
func (p *Processor) Process(ctx context.Context, inputPath, outputPath string, opts Options) (*Result, error) {
	table, err := ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := p.logger.WithFields(logrus.Fields{
		"run_id":  runID,
		"input":   inputPath,
		"rows":    len(table.Records),
		"workers": p.workers,
	})
	log.Info("Starting batch processing run")

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	for i := range table.Records {
		wg.Add(1)
		go func(rec Record) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				rec[colError] = ctx.Err().Error()
				return
			}

			p.processRecord(rec, opts)
		}(table.Records[i])
	}
	wg.Wait()

	p.extendColumns(table, opts)

	failed := 0
	for _, rec := range table.Records {
		if _, ok := rec[colError]; ok {
			failed++
		}
	}

	if outputPath != "" {
		if err := WriteFile(outputPath, table); err != nil {
			return nil, fmt.Errorf("writing batch output: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		"successful": len(table.Records) - failed,
		"failed":     failed,
		"output":     outputPath,
	}).Info("Completed batch processing run")

	return &Result{
		RunID:  runID,
		Table:  table,
		Rows:   len(table.Records),
		Failed: failed,
	}, nil
}

// processRecord scores one row in place. A scoring failure writes the error
// column and skips the augmentations, matching how later stages depend on a
// valid baseline.
func (p *Processor) processRecord(rec Record, opts Options) {
	set, err := recordBiomarkers(rec)
	if err != nil {
		rec[colError] = err.Error()
		return
	}

	metrics, err := p.toolkit.ComputeAge(set)
	if err != nil {
		rec[colError] = err.Error()
		return
	}
	rec[colPhenoAge] = metrics.PhenoAge
	rec[colDNAmAge] = metrics.DNAmAge
	rec[colDScore] = metrics.DScore

	if opts.RankTop > 0 {
		p.appendRankings(rec, set, opts.RankTop)
	}
	if len(opts.Apply) > 0 {
		p.appendSimulation(rec, set, opts.Apply)
	}
}

func (p *Processor) appendRankings(rec Record, set domain.BiomarkerSet, top int) {
	entries, err := p.toolkit.RankInterventions(set)
	if err != nil {
		rec[colRankingError] = err.Error()
		return
	}
	if top > len(entries) {
		top = len(entries)
	}
	for i := 0; i < top; i++ {
		rec[fmt.Sprintf("rank%d_intervention", i+1)] = entries[i].Intervention
		// Impact is reported as positive years gained.
		rec[fmt.Sprintf("rank%d_impact", i+1)] = -entries[i].Delta
	}
}

func (p *Processor) appendSimulation(rec Record, set domain.BiomarkerSet, names []string) {
	report, err := p.toolkit.SimulateInterventions(set, names)
	if err != nil {
		rec[colInterventionError] = err.Error()
		return
	}

	rec[colCombinedPhenoAge] = report.NewPhenoAge
	rec[colYearsYounger] = -report.Delta
	rec[colOriginalPct] = report.OriginalPercentile
	rec[colNewPct] = report.NewPercentile
	rec[colPctChange] = report.PercentileChange

	for _, change := range report.Changes {
		key := string(change.Biomarker)
		rec[key+"_new"] = change.NewValue
		rec[key+"_change"] = change.Change
	}
}

// extendColumns appends the output columns that at least one record carries,
// in a fixed layout: metrics, ranking block, simulation block.
func (p *Processor) extendColumns(table *Table, opts Options) {
	candidates := []string{colPhenoAge, colDNAmAge, colDScore, colError}

	if opts.RankTop > 0 {
		for i := 1; i <= opts.RankTop; i++ {
			candidates = append(candidates,
				fmt.Sprintf("rank%d_intervention", i),
				fmt.Sprintf("rank%d_impact", i))
		}
		candidates = append(candidates, colRankingError)
	}

	if len(opts.Apply) > 0 {
		candidates = append(candidates,
			colCombinedPhenoAge, colYearsYounger, colOriginalPct, colNewPct, colPctChange)
		for _, b := range domain.BiomarkerOrder {
			candidates = append(candidates, string(b)+"_new", string(b)+"_change")
		}
		candidates = append(candidates, colInterventionError)
	}

	for _, name := range candidates {
		for _, rec := range table.Records {
			if _, ok := rec[name]; ok {
				table.EnsureColumn(name)
				break
			}
		}
	}
}

// recordBiomarkers extracts the biomarker subset of a record, resolving
// aliased column names and parsing textual cells. Columns that match no
// biomarker stay untouched in the record.
func recordBiomarkers(rec Record) (domain.BiomarkerSet, error) {
	set := make(domain.BiomarkerSet, len(domain.BiomarkerOrder))
	for key, value := range rec {
		b, ok := biomarker.Resolve(key)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case float64:
			set[b] = v
		case string:
			parsed, err := biomarker.ParseValue(b, v)
			if err != nil {
				return nil, err
			}
			set[b] = parsed
		}
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}
