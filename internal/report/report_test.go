package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eugenenazirov/binpack-search/internal/engine"
	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/search"
)

func sampleRecord(method search.Method, cost float64) engine.Record {
	final := &packing.State{Capacity: 10, Containers: []*packing.Container{
		{Capacity: 10, Items: []packing.Item{{ID: "a", Size: 7}, {ID: "b", Size: 6}}},
		{Capacity: 10, Items: []packing.Item{{ID: "c", Size: 2}}},
	}}
	w := packing.DefaultWeights()
	h := search.NewHistory(3)
	h.Record(30, 40, 50, 30)
	h.Record(20, 35, 45, 20)
	h.Record(cost, 30, 40, cost)

	return engine.Record{
		Method:     method,
		Seed:       3,
		Problem:    engine.ProblemSummary{Capacity: 10, Items: 3, TotalSize: 15, LowerBound: 2},
		FinalCost:  cost,
		Breakdown:  w.Breakdown(final),
		Containers: packing.Report(final),
		History:    h,
		Iterations: 3,
		Duration:   2 * time.Millisecond,
		Final:      final,
	}
}

func sampleExperiments() []engine.Experiment {
	return []engine.Experiment{
		{
			Method:     search.HillClimbSteepest,
			Runs:       []engine.Record{sampleRecord(search.HillClimbSteepest, 12), sampleRecord(search.HillClimbSteepest, 10)},
			BestIndex:  1,
			Cost:       engine.CalcStats([]float64{12, 10}),
			DurationMs: engine.CalcStats([]float64{2, 2}),
		},
		{
			Method:     search.GeneticAlgorithm,
			Runs:       []engine.Record{sampleRecord(search.GeneticAlgorithm, 11)},
			Cost:       engine.CalcStats([]float64{11}),
			DurationMs: engine.CalcStats([]float64{2}),
		},
	}
}

func TestTextMarksOverflowingContainers(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Text(&buf, sampleRecord(search.SimulatedAnnealing, 10)))

	out := buf.String()
	assert.Contains(t, out, "Method:      simulated-annealing")
	assert.Contains(t, out, "Container 1: 13/10  OVER CAPACITY by 3")
	assert.Contains(t, out, "Container 2: 2/10\n")
	assert.Contains(t, out, "  - a (7)")
}

func TestSummaryHasOneLinePerExperiment(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Summary(&buf, sampleExperiments()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "METHOD"))
	assert.True(t, strings.HasPrefix(lines[1], "hc-steepest"))
	assert.Contains(t, lines[1], "10.00")
}

func TestHistoryCSV(t *testing.T) {
	var buf bytes.Buffer
	h := sampleRecord(search.GeneticAlgorithm, 10).History

	require.NoError(t, HistoryCSV(&buf, h))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"iteration", "best", "mean", "max", "running_best"}, rows[0])
	assert.Equal(t, []string{"2", "10", "30", "40", "10"}, rows[3])
}

func TestWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, Workbook(path, sampleExperiments()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, "hc-steepest", "genetic"}, f.GetSheetList())
	method, err := f.GetCellValue(summarySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "hc-steepest", method)

	rows, err := f.GetRows("hc-steepest")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestPDFAndPlotWriteFiles(t *testing.T) {
	dir := t.TempDir()
	exps := sampleExperiments()

	pdfPath := filepath.Join(dir, "report.pdf")
	require.NoError(t, PDF(pdfPath, exps))
	assertNonEmptyFile(t, pdfPath)

	pngPath := filepath.Join(dir, "plot.png")
	require.NoError(t, Plot(pngPath, "convergence", exps[0].Best().History))
	assertNonEmptyFile(t, pngPath)

	assert.Error(t, Plot(filepath.Join(dir, "empty.png"), "empty", search.History{}))
	assert.Error(t, PDF(filepath.Join(dir, "none.pdf"), nil))
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := WriteAll(dir, sampleExperiments())

	require.NoError(t, err)
	for _, name := range []string{
		"hc-steepest.txt", "hc-steepest_history.csv", "hc-steepest.png",
		"genetic.txt", "genetic_history.csv", "genetic.png",
		"summary.txt", "report.xlsx", "report.pdf",
	} {
		assert.Contains(t, paths, filepath.Join(dir, name))
		assertNonEmptyFile(t, filepath.Join(dir, name))
	}
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
