package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/eugenenazirov/binpack-search/internal/search"
)

// HistoryCSV writes one row per iteration: index, best, mean, max and
// running best.
func HistoryCSV(w io.Writer, h search.History) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"iteration", "best", "mean", "max", "running_best"}); err != nil {
		return err
	}
	for i := 0; i < h.Len(); i++ {
		row := []string{
			strconv.Itoa(i),
			formatFloat(h.Best[i]),
			formatFloat(h.Mean[i]),
			formatFloat(h.Max[i]),
			formatFloat(h.RunningBest[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
