package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/eugenenazirov/binpack-search/internal/search"
)

// Plot saves the convergence curves of h (best, mean, max, running best)
// to path. The image format follows the file extension.
func Plot(path, title string, h search.History) error {
	if h.Len() == 0 {
		return fmt.Errorf("empty history")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Cost"

	series := []struct {
		name   string
		values []float64
	}{
		{"best", h.Best},
		{"mean", h.Mean},
		{"max", h.Max},
		{"running best", h.RunningBest},
	}
	for i, s := range series {
		pts := make(plotter.XYs, len(s.values))
		for j, v := range s.values {
			pts[j].X = float64(j)
			pts[j].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotColors[i%len(plotColors)]
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
