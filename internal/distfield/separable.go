package distfield

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// SquaredTransform returns the 2D squared distance transform of seed:
//
//	out[y][x] = min over (px,py) of seed[py][px] + (x-px)² + (y-py)²
//
// seed must be a non-empty rectangle of finite, non-negative values. It runs
// TransformLine over every row, transposes, runs it over every former column,
// and transposes back. seed is not modified.
func SquaredTransform(seed Field, opts Options) (Field, error) {
	if err := validateSeed(seed); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return squaredTransform(seed, opts.withDefaults().Workers), nil
}

// squaredTransform assumes seed has been validated; it cannot fail.
func squaredTransform(seed Field, workers int) Field {
	rows := transformRows(seed, workers)
	return transformRows(rows.Transpose(), workers).Transpose()
}

// transformRows applies TransformLine to every row of in. With more than one
// worker the rows are split into contiguous chunks, one goroutine and one
// scratch envelope per chunk. Returning is the barrier between passes.
func transformRows(in Field, workers int) Field {
	out := make(Field, len(in))
	width, height := in.Dims()

	if workers <= 1 || height < 2 {
		env := newEnvelope(width)
		for y, row := range in {
			out[y] = make([]float64, len(row))
			env.transform(out[y], row)
		}
		return out
	}

	if workers > height {
		workers = height
	}
	chunk := (height + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < height; start += chunk {
		end := min(start+chunk, height)
		g.Go(func() error {
			env := newEnvelope(width)
			for y := start; y < end; y++ {
				out[y] = make([]float64, len(in[y]))
				env.transform(out[y], in[y])
			}
			return nil
		})
	}
	// Chunks write disjoint rows and never return an error.
	_ = g.Wait()
	return out
}

func validateSeed(seed Field) error {
	if len(seed) == 0 {
		return malformed(-1, -1, "field has no rows")
	}
	width := len(seed[0])
	if width == 0 {
		return malformed(0, -1, "row is empty")
	}
	for y, row := range seed {
		if len(row) != width {
			return malformed(y, -1, "row has %d values, want %d", len(row), width)
		}
		for x, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return malformed(y, x, "seed %g is not a finite non-negative value", v)
			}
		}
	}
	return nil
}
