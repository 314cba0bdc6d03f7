package engine

import (
	"time"

	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/search"
)

// ProblemSummary describes the instance a run was made on.
type ProblemSummary struct {
	Capacity   int `json:"capacity"`
	Items      int `json:"items"`
	TotalSize  int `json:"totalSize"`
	LowerBound int `json:"lowerBound"`
}

// Record is the outcome of one run, shaped for storage, reports and the API.
type Record struct {
	ID        string         `json:"id"`
	Method    search.Method  `json:"method"`
	Seed      int64          `json:"seed"`
	Problem   ProblemSummary `json:"problem"`
	CreatedAt time.Time      `json:"createdAt"`

	InitialCost       float64                   `json:"initialCost"`
	InitialContainers []packing.ContainerReport `json:"initialContainers"`
	FinalCost         float64                   `json:"finalCost"`
	Breakdown         packing.Breakdown         `json:"breakdown"`
	Containers        []packing.ContainerReport `json:"containers"`

	History    search.History `json:"history"`
	Iterations int            `json:"iterations"`
	Duration   time.Duration  `json:"durationNs"`

	Diagnostics map[string]any `json:"diagnostics,omitempty"`

	Initial *packing.State `json:"-"`
	Final   *packing.State `json:"-"`
}

// Feasible reports whether the final packing respects every capacity.
func (r Record) Feasible() bool {
	return r.Breakdown.TotalOverflow == 0
}

func newRecord(res search.Result, p *packing.Problem, seed int64, w packing.Weights) Record {
	return Record{
		Method: res.Method,
		Seed:   seed,
		Problem: ProblemSummary{
			Capacity:   p.Capacity,
			Items:      len(p.Items),
			TotalSize:  p.TotalSize(),
			LowerBound: p.LowerBound(),
		},
		CreatedAt:         time.Now().UTC(),
		InitialCost:       res.InitialCost,
		InitialContainers: packing.Report(res.Initial),
		FinalCost:         res.FinalCost,
		Breakdown:         w.Breakdown(res.Final),
		Containers:        packing.Report(res.Final),
		History:           res.History,
		Iterations:        res.Iterations,
		Duration:          res.Duration,
		Diagnostics:       res.Meta,
		Initial:           res.Initial,
		Final:             res.Final,
	}
}
