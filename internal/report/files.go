package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eugenenazirov/binpack-search/internal/engine"
)

// WriteAll renders every report for exps into dir and returns the paths
// written. Per method: <method>.txt, <method>_history.csv and
// <method>.png for the best run. Overall: summary.txt, report.xlsx and
// report.pdf.
func WriteAll(dir string, exps []engine.Experiment) ([]string, error) {
	if len(exps) == 0 {
		return nil, fmt.Errorf("no experiments to export")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	write := func(name string, render func(*bytes.Buffer) error) error {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	for _, e := range exps {
		best := e.Best()
		base := string(e.Method)
		if err := write(base+".txt", func(b *bytes.Buffer) error { return Text(b, best) }); err != nil {
			return written, err
		}
		if err := write(base+"_history.csv", func(b *bytes.Buffer) error { return HistoryCSV(b, best.History) }); err != nil {
			return written, err
		}
		png := filepath.Join(dir, base+".png")
		if err := Plot(png, fmt.Sprintf("%s (seed %d)", e.Method, best.Seed), best.History); err != nil {
			return written, fmt.Errorf("plot %s: %w", e.Method, err)
		}
		written = append(written, png)
	}

	if err := write("summary.txt", func(b *bytes.Buffer) error { return Summary(b, exps) }); err != nil {
		return written, err
	}

	xlsx := filepath.Join(dir, "report.xlsx")
	if err := Workbook(xlsx, exps); err != nil {
		return written, fmt.Errorf("workbook: %w", err)
	}
	written = append(written, xlsx)

	pdf := filepath.Join(dir, "report.pdf")
	if err := PDF(pdf, exps); err != nil {
		return written, fmt.Errorf("pdf: %w", err)
	}
	written = append(written, pdf)

	return written, nil
}
