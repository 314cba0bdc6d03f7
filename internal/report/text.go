// Package report renders run records and experiments as text, CSV, XLSX,
// PDF and PNG convergence plots.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/eugenenazirov/binpack-search/internal/engine"
	"github.com/eugenenazirov/binpack-search/internal/packing"
)

// Text writes a human readable report of one run: the summary, the cost
// breakdown and every container of the final packing.
func Text(w io.Writer, rec engine.Record) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Method:      %s\n", rec.Method)
	fmt.Fprintf(&b, "Seed:        %d\n", rec.Seed)
	fmt.Fprintf(&b, "Problem:     %d items, capacity %d, total size %d, lower bound %d containers\n",
		rec.Problem.Items, rec.Problem.Capacity, rec.Problem.TotalSize, rec.Problem.LowerBound)
	fmt.Fprintf(&b, "Initial cost: %.2f (%d containers)\n", rec.InitialCost, len(rec.InitialContainers))
	fmt.Fprintf(&b, "Final cost:   %.2f\n", rec.FinalCost)
	fmt.Fprintf(&b, "  overflow penalty:  %.2f (overflow %d)\n", rec.Breakdown.OverflowPenalty, rec.Breakdown.TotalOverflow)
	fmt.Fprintf(&b, "  container penalty: %.2f (%d containers)\n", rec.Breakdown.CountPenalty, rec.Breakdown.Containers)
	fmt.Fprintf(&b, "  density penalty:   %.2f (mean utilization %.1f%%)\n", rec.Breakdown.DensityPenalty, rec.Breakdown.MeanUtilization*100)
	fmt.Fprintf(&b, "Iterations:  %d\n", rec.Iterations)
	fmt.Fprintf(&b, "Duration:    %s\n\n", rec.Duration)

	writeContainers(&b, rec.Containers)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeContainers(b *strings.Builder, containers []packing.ContainerReport) {
	for _, c := range containers {
		fmt.Fprintf(b, "Container %d: %d/%d", c.Index, c.Load, c.Capacity)
		if c.Overflow > 0 {
			fmt.Fprintf(b, "  OVER CAPACITY by %d", c.Overflow)
		}
		b.WriteString("\n")
		for _, it := range c.Items {
			fmt.Fprintf(b, "  - %s (%d)\n", it.ID, it.Size)
		}
	}
}

// Summary writes one aligned line per experiment.
func Summary(w io.Writer, exps []engine.Experiment) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tRUNS\tBEST\tMEAN\tSTD\tCONTAINERS\tFEASIBLE\tMEAN MS")
	for _, e := range exps {
		best := e.Best()
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%d\t%t\t%.2f\n",
			e.Method, e.Cost.N, e.Cost.Best, e.Cost.Mean, e.Cost.Std,
			best.Breakdown.Containers, best.Feasible(), e.DurationMs.Mean)
	}
	return tw.Flush()
}
