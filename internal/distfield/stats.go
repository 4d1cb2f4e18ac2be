package distfield

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises a field. Min, Max, Mean and StdDev cover only measured
// cells; cells at or beyond Unreachable are counted separately.
type Stats struct {
	Cells       int     `json:"cells"`
	Measured    int     `json:"measured"`
	Unreachable int     `json:"unreachable"`
	Negative    int     `json:"negative"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
}

// Summarize computes Stats for f. opts supplies the unreachable threshold and
// should be the options f was computed with.
func Summarize(f Field, opts Options) Stats {
	limit := opts.Unreachable()
	var s Stats
	w, h := f.Dims()
	values := make([]float64, 0, w*h)
	for _, row := range f {
		for _, v := range row {
			s.Cells++
			if math.Abs(v) >= limit {
				s.Unreachable++
				continue
			}
			if v < 0 {
				s.Negative++
			}
			values = append(values, v)
		}
	}

	s.Measured = len(values)
	if s.Measured == 0 {
		return s
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	if s.Measured == 1 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}
