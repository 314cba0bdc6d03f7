package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/eugenenazirov/binpack-search/internal/engine"
)

// Page layout constants (A4 portrait in mm).
const (
	pdfMarginLeft = 15.0
	pdfMarginTop  = 15.0
	pdfLineHeight = 6.0
	pdfBodyWidth  = 180.0
)

// PDF writes a summary page followed by one page per experiment listing the
// containers of its best run, with overflowing containers in red.
func PDF(path string, exps []engine.Experiment) error {
	if len(exps) == 0 {
		return fmt.Errorf("no experiments to export")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginLeft)
	pdf.SetAutoPageBreak(true, pdfMarginTop)

	pdf.AddPage()
	renderSummaryPage(pdf, exps)

	for _, e := range exps {
		pdf.AddPage()
		renderRunPage(pdf, e.Best())
	}

	return pdf.OutputFileAndClose(path)
}

func renderSummaryPage(pdf *fpdf.Fpdf, exps []engine.Experiment) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(pdfBodyWidth, 10, "Bin packing local search", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	cols := []struct {
		title string
		width float64
	}{
		{"Method", 50}, {"Runs", 15}, {"Best", 30}, {"Mean", 30}, {"Containers", 25}, {"Mean ms", 30},
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	for _, c := range cols {
		pdf.CellFormat(c.width, pdfLineHeight+1, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, e := range exps {
		best := e.Best()
		values := []string{
			string(e.Method),
			fmt.Sprintf("%d", e.Cost.N),
			fmt.Sprintf("%.2f", e.Cost.Best),
			fmt.Sprintf("%.2f", e.Cost.Mean),
			fmt.Sprintf("%d", best.Breakdown.Containers),
			fmt.Sprintf("%.2f", e.DurationMs.Mean),
		}
		for i, v := range values {
			pdf.CellFormat(cols[i].width, pdfLineHeight, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func renderRunPage(pdf *fpdf.Fpdf, rec engine.Record) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(pdfBodyWidth, 10, fmt.Sprintf("%s (seed %d)", rec.Method, rec.Seed), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	stats := fmt.Sprintf("Cost %.2f | Containers %d | Overflow %d | Utilization %.1f%% | Iterations %d",
		rec.FinalCost, rec.Breakdown.Containers, rec.Breakdown.TotalOverflow,
		rec.Breakdown.MeanUtilization*100, rec.Iterations)
	pdf.CellFormat(pdfBodyWidth, pdfLineHeight, stats, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, c := range rec.Containers {
		line := fmt.Sprintf("Container %d: %d/%d", c.Index, c.Load, c.Capacity)
		if c.Overflow > 0 {
			line += fmt.Sprintf("  OVER CAPACITY by %d", c.Overflow)
			pdf.SetTextColor(200, 30, 30)
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(pdfBodyWidth, pdfLineHeight, line, "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Helvetica", "", 9)
		items := ""
		for i, it := range c.Items {
			if i > 0 {
				items += ", "
			}
			items += fmt.Sprintf("%s (%d)", it.ID, it.Size)
		}
		pdf.MultiCell(pdfBodyWidth, pdfLineHeight-1, items, "", "L", false)
	}
}
