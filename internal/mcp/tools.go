package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/phenoage-mcp-server/internal/domain"
)

// Tool names exposed over MCP.
const (
	toolCalculatePhenoAge     = "calculate_phenoage"
	toolGetAssessment         = "get_assessment"
	toolRankInterventions     = "rank_interventions"
	toolSimulateInterventions = "simulate_interventions"
	toolListInterventions     = "list_interventions"
	toolGetReferenceValues    = "get_reference_values"
)

// BiomarkerParams carries the ten measurements shared by every scoring tool.
// Values are expressed in native clinical units; the scorer handles unit
// conversion internally.
type BiomarkerParams struct {
	Albumin             float64 `json:"albumin"`
	Creatinine          float64 `json:"creatinine"`
	Glucose             float64 `json:"glucose"`
	CRP                 float64 `json:"crp"`
	Lymphocyte          float64 `json:"lymphocyte"`
	MCV                 float64 `json:"mcv"`
	RDW                 float64 `json:"rdw"`
	AlkalinePhosphatase float64 `json:"alkaline_phosphatase"`
	WBC                 float64 `json:"wbc"`
	ChronologicalAge    float64 `json:"chronological_age"`
}

// Set converts the parameters into a domain biomarker set.
func (p BiomarkerParams) Set() domain.BiomarkerSet {
	return domain.BiomarkerSet{
		domain.ALBUMIN:              p.Albumin,
		domain.CREATININE:           p.Creatinine,
		domain.GLUCOSE:              p.Glucose,
		domain.CRP:                  p.CRP,
		domain.LYMPHOCYTE:           p.Lymphocyte,
		domain.MCV:                  p.MCV,
		domain.RDW:                  p.RDW,
		domain.ALKALINE_PHOSPHATASE: p.AlkalinePhosphatase,
		domain.WBC:                  p.WBC,
		domain.CHRONOLOGICAL_AGE:    p.ChronologicalAge,
	}
}

// RankInterventionsParams defines parameters for the rank_interventions tool.
// TopK limits the returned entries: 0 falls back to the configured default,
// negative values return the full ranking.
type RankInterventionsParams struct {
	BiomarkerParams
	TopK int `json:"top_k,omitempty"`
}

// RankInterventionsResult defines the result structure for rank_interventions.
type RankInterventionsResult struct {
	BaselinePhenoAge float64               `json:"baseline_pheno_age"`
	Evaluated        int                   `json:"evaluated"`
	Rankings         []domain.RankingEntry `json:"rankings"`
}

// SimulateInterventionsParams defines parameters for simulate_interventions.
// Interventions are catalog names, applied in the given order.
type SimulateInterventionsParams struct {
	BiomarkerParams
	Interventions []string `json:"interventions"`
}

// ListInterventionsParams defines parameters for list_interventions.
type ListInterventionsParams struct{}

// ListInterventionsResult defines the result structure for list_interventions.
type ListInterventionsResult struct {
	Count         int                       `json:"count"`
	Interventions []domain.InterventionInfo `json:"interventions"`
}

// GetReferenceValuesParams defines parameters for get_reference_values.
type GetReferenceValuesParams struct {
	ChronologicalAge float64 `json:"chronological_age"`
}

// GetReferenceValuesResult defines the result structure for
// get_reference_values.
type GetReferenceValuesResult struct {
	ChronologicalAge float64                `json:"chronological_age"`
	ReferenceValues  domain.ReferenceValues `json:"reference_values"`
}

// registerTools attaches every toolkit operation as a typed MCP tool. Input
// schemas are inferred from the parameter struct tags.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: toolCalculatePhenoAge,
		Description: "Calculate phenotypic (biological) age from ten standard blood biomarkers: " +
			"albumin (g/dL), creatinine (mg/dL), glucose (mg/dL), CRP (mg/L), lymphocyte (%), " +
			"MCV (fL), RDW (%), alkaline phosphatase (U/L), WBC (10^3 cells/uL) and chronological age (years).",
	}, s.handleCalculatePhenoAge)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: toolGetAssessment,
		Description: "Assess biological age from the ten biomarkers: phenotypic age, percentile rank " +
			"among chronological-age peers, qualitative interpretation and reference landmarks.",
	}, s.handleGetAssessment)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: toolRankInterventions,
		Description: "Rank lifestyle, diet and supplement interventions by how many years each would " +
			"lower this subject's phenotypic age. Optional top_k limits the list (0 uses the server " +
			"default, -1 returns everything).",
	}, s.handleRankInterventions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: toolSimulateInterventions,
		Description: "Simulate applying a sequence of interventions by name and report the combined " +
			"phenotypic age change with per-biomarker detail and percentile context.",
	}, s.handleSimulateInterventions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        toolListInterventions,
		Description: "List the available interventions with category, description and targeted biomarkers.",
	}, s.handleListInterventions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: toolGetReferenceValues,
		Description: "Return the phenotypic age landmarks (10th/25th/50th/75th/90th percentile) for a " +
			"chronological age.",
	}, s.handleGetReferenceValues)

	s.logger.WithField("count", 6).Info("Registered MCP tools")
}

// handleCalculatePhenoAge handles the calculate_phenoage tool invocation.
func (s *Server) handleCalculatePhenoAge(ctx context.Context, req *mcp.CallToolRequest, params BiomarkerParams) (*mcp.CallToolResult, any, error) {
	log := s.requestLogger(toolCalculatePhenoAge)
	log.Info("Tool invoked")

	key := s.cache.Key(toolCalculatePhenoAge, params)
	if cached, ok := s.cache.Lookup(key); ok {
		log.Debug("Result served from cache")
		return textResult(cached.Text), cached.Payload, nil
	}

	metrics, err := s.toolkit.ComputeAge(params.Set())
	if err != nil {
		log.WithError(err).Warn("Phenotypic age calculation failed")
		return s.errorResult("Phenotypic age calculation failed", err), nil, nil
	}

	text := fmt.Sprintf("Phenotypic age %.2f years (DNAm age estimate %.2f, mortality score %.4f)",
		metrics.PhenoAge, metrics.DNAmAge, metrics.MortalityScore)
	s.cache.Store(key, text, metrics)

	log.WithFields(logrus.Fields(metrics.LogFields())).Info("Tool completed")
	return textResult(text), metrics, nil
}

// handleGetAssessment handles the get_assessment tool invocation.
func (s *Server) handleGetAssessment(ctx context.Context, req *mcp.CallToolRequest, params BiomarkerParams) (*mcp.CallToolResult, any, error) {
	log := s.requestLogger(toolGetAssessment)
	log.Info("Tool invoked")

	key := s.cache.Key(toolGetAssessment, params)
	if cached, ok := s.cache.Lookup(key); ok {
		log.Debug("Result served from cache")
		return textResult(cached.Text), cached.Payload, nil
	}

	assessment, err := s.toolkit.Assessment(params.Set())
	if err != nil {
		log.WithError(err).Warn("Assessment failed")
		return s.errorResult("Assessment failed", err), nil, nil
	}

	text := fmt.Sprintf("Phenotypic age %.2f at chronological age %.1f: %s (percentile %.1f)",
		assessment.PhenoAge, assessment.ChronologicalAge, assessment.AgeDifferenceText, assessment.Percentile)
	s.cache.Store(key, text, assessment)

	log.WithFields(logrus.Fields{
		"pheno_age":  assessment.PhenoAge,
		"percentile": assessment.Percentile,
	}).Info("Tool completed")
	return textResult(text), assessment, nil
}

// handleRankInterventions handles the rank_interventions tool invocation.
func (s *Server) handleRankInterventions(ctx context.Context, req *mcp.CallToolRequest, params RankInterventionsParams) (*mcp.CallToolResult, any, error) {
	log := s.requestLogger(toolRankInterventions)
	log.Info("Tool invoked")

	key := s.cache.Key(toolRankInterventions, params)
	if cached, ok := s.cache.Lookup(key); ok {
		log.Debug("Result served from cache")
		return textResult(cached.Text), cached.Payload, nil
	}

	entries, err := s.toolkit.RankInterventions(params.Set())
	if err != nil {
		log.WithError(err).Warn("Intervention ranking failed")
		return s.errorResult("Intervention ranking failed", err), nil, nil
	}

	result := RankInterventionsResult{Evaluated: len(entries)}
	if len(entries) > 0 {
		result.BaselinePhenoAge = entries[0].BaselinePhenoAge
	}

	top := params.TopK
	if top == 0 {
		top = s.config.TopK
	}
	if top > 0 && top < len(entries) {
		entries = entries[:top]
	}
	result.Rankings = entries

	text := "No interventions available to rank"
	if len(entries) > 0 {
		text = fmt.Sprintf("Top intervention: %s (%.2f years younger); %d of %d entries returned",
			entries[0].Intervention, -entries[0].Delta, len(entries), result.Evaluated)
	}
	s.cache.Store(key, text, result)

	log.WithFields(logrus.Fields{
		"evaluated": result.Evaluated,
		"returned":  len(entries),
	}).Info("Tool completed")
	return textResult(text), result, nil
}

// handleSimulateInterventions handles the simulate_interventions tool
// invocation.
func (s *Server) handleSimulateInterventions(ctx context.Context, req *mcp.CallToolRequest, params SimulateInterventionsParams) (*mcp.CallToolResult, any, error) {
	log := s.requestLogger(toolSimulateInterventions)
	log.Info("Tool invoked")

	key := s.cache.Key(toolSimulateInterventions, params)
	if cached, ok := s.cache.Lookup(key); ok {
		log.Debug("Result served from cache")
		return textResult(cached.Text), cached.Payload, nil
	}

	report, err := s.toolkit.SimulateInterventions(params.Set(), params.Interventions)
	if err != nil {
		log.WithError(err).Warn("Intervention simulation failed")
		return s.errorResult("Intervention simulation failed", err), nil, nil
	}

	text := fmt.Sprintf("Combined phenotypic age %.2f after %d interventions (%+.2f years)",
		report.NewPhenoAge, len(report.AppliedInterventions), report.Delta)
	s.cache.Store(key, text, report)

	log.WithFields(logrus.Fields{
		"interventions": len(report.AppliedInterventions),
		"delta":         report.Delta,
	}).Info("Tool completed")
	return textResult(text), report, nil
}

// handleListInterventions handles the list_interventions tool invocation.
func (s *Server) handleListInterventions(ctx context.Context, req *mcp.CallToolRequest, params ListInterventionsParams) (*mcp.CallToolResult, any, error) {
	log := s.requestLogger(toolListInterventions)
	log.Info("Tool invoked")

	key := s.cache.Key(toolListInterventions, params)
	if cached, ok := s.cache.Lookup(key); ok {
		log.Debug("Result served from cache")
		return textResult(cached.Text), cached.Payload, nil
	}

	rules := s.toolkit.Catalog().List()
	infos := make([]domain.InterventionInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, rule.Info())
	}
	result := ListInterventionsResult{Count: len(infos), Interventions: infos}

	text := fmt.Sprintf("%d interventions available", result.Count)
	s.cache.Store(key, text, result)

	log.WithField("count", result.Count).Info("Tool completed")
	return textResult(text), result, nil
}

// handleGetReferenceValues handles the get_reference_values tool invocation.
func (s *Server) handleGetReferenceValues(ctx context.Context, req *mcp.CallToolRequest, params GetReferenceValuesParams) (*mcp.CallToolResult, any, error) {
	log := s.requestLogger(toolGetReferenceValues)
	log.Info("Tool invoked")

	key := s.cache.Key(toolGetReferenceValues, params)
	if cached, ok := s.cache.Lookup(key); ok {
		log.Debug("Result served from cache")
		return textResult(cached.Text), cached.Payload, nil
	}

	refs := s.toolkit.ReferenceValues(params.ChronologicalAge)
	result := GetReferenceValuesResult{
		ChronologicalAge: params.ChronologicalAge,
		ReferenceValues:  refs,
	}

	text := fmt.Sprintf("Median phenotypic age at %.1f is %.2f (10th percentile %.2f, 90th percentile %.2f)",
		params.ChronologicalAge, refs.P50, refs.P10, refs.P90)
	s.cache.Store(key, text, result)

	log.WithField("chronological_age", params.ChronologicalAge).Info("Tool completed")
	return textResult(text), result, nil
}
