package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenoage-mcp-server/internal/service"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress logs during testing
	return logger
}

func newTestProcessor() *Processor {
	logger := testLogger()
	return NewProcessor(service.NewDefaultToolkit(logger), 4, logger)
}

func writeInputFile(t *testing.T, dir string) string {
	t.Helper()
	content := "ID\talbumin\tcreatinine\tglucose\tcrp\tlymphocyte\tmcv\trdw\talkaline_phosphatase\twbc\tchronological_age\n" +
		"SUBJ001\t4.47\t1.17\t77\t0.07\t36\t90\t13.7\t54\t4.5\t46\n" +
		"SUBJ002\t4.5\t0.9\t\t0.2\t35\t89\t13.1\t60\t5.1\t41\n" +
		"SUBJ003\t4.7\t0.8\t75.9\t0.1\t57.5\t92.9\t13.3\t15\t4.1\t30\n"
	path := filepath.Join(dir, "subjects.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcessor_Process(t *testing.T) {
	processor := newTestProcessor()
	dir := t.TempDir()
	input := writeInputFile(t, dir)
	output := filepath.Join(dir, "results.csv")

	result, err := processor.Process(context.Background(), input, output, Options{
		RankTop: 2,
		Apply:   []string{"Regular Exercise"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 1, result.Failed)

	table := result.Table
	require.Len(t, table.Records, 3)

	first := table.Records[0]
	assert.Equal(t, "SUBJ001", first["ID"])
	assert.InDelta(t, 37.043364595, first[colPhenoAge].(float64), 1e-6)
	assert.InDelta(t, 36.727477327, first[colDNAmAge].(float64), 1e-6)
	assert.Equal(t, "Regular Exercise", first["rank1_intervention"])
	assert.InDelta(t, 2.419533946, first["rank1_impact"].(float64), 1e-6)
	assert.Equal(t, "Weight Loss", first["rank2_intervention"])
	assert.InDelta(t, 34.623830649, first[colCombinedPhenoAge].(float64), 1e-6)
	assert.InDelta(t, 2.419533946, first[colYearsYounger].(float64), 1e-6)
	assert.InDelta(t, 74.0, first["glucose_new"].(float64), 1e-9)
	assert.InDelta(t, -0.06, first["crp_change"].(float64), 1e-9)

	// The broken row keeps its input cells, gets the error column and skips
	// all augmentations.
	broken := table.Records[1]
	assert.Contains(t, broken[colError].(string), "glucose")
	_, scored := broken[colPhenoAge]
	assert.False(t, scored)
	_, ranked := broken["rank1_intervention"]
	assert.False(t, ranked)

	third := table.Records[2]
	assert.InDelta(t, 14.184358602, third[colPhenoAge].(float64), 1e-6)
	assert.Equal(t, "Regular Exercise", third["rank1_intervention"])
	assert.InDelta(t, 2.796917516, third["rank1_impact"].(float64), 1e-6)
	assert.InDelta(t, 11.387441086, third[colCombinedPhenoAge].(float64), 1e-6)
	assert.InDelta(t, 72.9, third["glucose_new"].(float64), 1e-9)
	assert.InDelta(t, 0.01, third["crp_new"].(float64), 1e-9)
}

func TestProcessor_OutputFileAndColumnLayout(t *testing.T) {
	processor := newTestProcessor()
	dir := t.TempDir()
	input := writeInputFile(t, dir)
	output := filepath.Join(dir, "out", "results.csv")

	result, err := processor.Process(context.Background(), input, output, Options{RankTop: 2})
	require.NoError(t, err)

	written, err := ReadFile(output)
	require.NoError(t, err)

	// Input columns first and in order, computed columns appended after.
	assert.Equal(t, "ID", written.Columns[0])
	idx := func(name string) int {
		for i, c := range written.Columns {
			if c == name {
				return i
			}
		}
		return -1
	}
	assert.Greater(t, idx(colPhenoAge), idx("chronological_age"))
	assert.Greater(t, idx(colError), idx(colDScore))
	assert.Greater(t, idx("rank1_intervention"), idx(colError))
	assert.Equal(t, -1, idx("ranking_error"), "no ranking failed, column must be absent")
	assert.Equal(t, -1, idx(colCombinedPhenoAge), "no interventions applied, column must be absent")

	require.Len(t, written.Records, result.Rows)
	assert.InDelta(t, 37.043364595, written.Records[0][colPhenoAge].(float64), 1e-6)
}

func TestProcessor_RowOrderPreserved(t *testing.T) {
	processor := newTestProcessor()
	dir := t.TempDir()
	input := writeInputFile(t, dir)

	result, err := processor.Process(context.Background(), input, "", Options{})
	require.NoError(t, err)

	ids := make([]string, 0, len(result.Table.Records))
	for _, rec := range result.Table.Records {
		ids = append(ids, rec["ID"].(string))
	}
	assert.Equal(t, []string{"SUBJ001", "SUBJ002", "SUBJ003"}, ids)
}

func TestProcessor_UnknownInterventionPerRow(t *testing.T) {
	processor := newTestProcessor()
	dir := t.TempDir()
	input := writeInputFile(t, dir)

	result, err := processor.Process(context.Background(), input, "", Options{
		Apply: []string{"Regular Exercise", "Moon Dust"},
	})
	require.NoError(t, err, "per-row simulation failures must not fail the run")

	first := result.Table.Records[0]
	assert.Contains(t, first[colInterventionError].(string), "Moon Dust")
	_, combined := first[colCombinedPhenoAge]
	assert.False(t, combined)

	// Scoring still succeeded for the same row.
	assert.InDelta(t, 37.043364595, first[colPhenoAge].(float64), 1e-6)
}

func TestProcessor_MissingInputFile(t *testing.T) {
	processor := newTestProcessor()

	_, err := processor.Process(context.Background(), filepath.Join(t.TempDir(), "absent.tsv"), "", Options{})
	require.Error(t, err)
}
