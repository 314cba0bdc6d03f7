package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/eugenenazirov/binpack-search/internal/engine"
)

const summarySheet = "Summary"

// Workbook writes an XLSX file with a summary sheet and, per experiment,
// one sheet holding the history and final containers of its best run.
func Workbook(path string, exps []engine.Experiment) error {
	if len(exps) == 0 {
		return fmt.Errorf("no experiments to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	header := []any{"Method", "Runs", "Best cost", "Mean cost", "Std cost", "Containers", "Overflow", "Mean ms"}
	if err := setRow(f, summarySheet, 1, header); err != nil {
		return err
	}
	for i, e := range exps {
		best := e.Best()
		row := []any{
			string(e.Method), e.Cost.N, e.Cost.Best, e.Cost.Mean, e.Cost.Std,
			best.Breakdown.Containers, best.Breakdown.TotalOverflow, e.DurationMs.Mean,
		}
		if err := setRow(f, summarySheet, i+2, row); err != nil {
			return err
		}
	}

	for _, e := range exps {
		if err := methodSheet(f, e); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func methodSheet(f *excelize.File, e engine.Experiment) error {
	name := sheetName(string(e.Method))
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	best := e.Best()

	if err := setRow(f, name, 1, []any{"Iteration", "Best", "Mean", "Max", "Running best"}); err != nil {
		return err
	}
	h := best.History
	for i := 0; i < h.Len(); i++ {
		if err := setRow(f, name, i+2, []any{i, h.Best[i], h.Mean[i], h.Max[i], h.RunningBest[i]}); err != nil {
			return err
		}
	}

	// containers to the right of the history
	const col = 7
	if err := setRowAt(f, name, col, 1, []any{"Container", "Load", "Capacity", "Overflow", "Items"}); err != nil {
		return err
	}
	for i, c := range best.Containers {
		ids := make([]string, len(c.Items))
		for j, it := range c.Items {
			ids[j] = it.ID
		}
		row := []any{c.Index, c.Load, c.Capacity, c.Overflow, fmt.Sprint(ids)}
		if err := setRowAt(f, name, col, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	return setRowAt(f, sheet, 1, row, values)
}

func setRowAt(f *excelize.File, sheet string, col, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// sheetName trims a name to the 31 characters a sheet title may hold.
func sheetName(s string) string {
	if len(s) > 31 {
		return s[:31]
	}
	return s
}
