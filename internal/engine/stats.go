package engine

import "math"

// Stats summarizes repeated measurements; Std is the sample deviation.
type Stats struct {
	N    int     `json:"n"`
	Best float64 `json:"best"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// CalcStats returns the minimum, mean and sample standard deviation.
func CalcStats(values []float64) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}

	best := values[0]
	sum := 0.0
	for _, v := range values {
		if v < best {
			best = v
		}
		sum += v
	}
	mean := sum / float64(s.N)

	variance := 0.0
	if s.N >= 2 {
		for _, v := range values {
			d := v - mean
			variance += d * d
		}
		variance /= float64(s.N - 1)
	}

	s.Best = best
	s.Mean = mean
	s.Std = math.Sqrt(variance)
	return s
}
