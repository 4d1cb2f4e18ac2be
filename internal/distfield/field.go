package distfield

import "math"

// ComputeUnsigned returns the unsigned distance field of grid: the Euclidean
// distance from every cell to the nearest Obstacle cell. Obstacle cells are 0.
//
// A grid with no Obstacle cell yields a field filled with opts.Unreachable().
//
// The grid is validated before any work; a *MalformedGridError or
// *OptionsError is returned without partial results.
func ComputeUnsigned(grid OccupancyGrid, opts Options) (Field, error) {
	opts, err := prepare(grid, opts)
	if err != nil {
		return nil, err
	}
	return unsigned(grid, opts), nil
}

// ComputeSigned returns the signed distance field of grid:
//
//	ComputeUnsigned(grid) - ComputeUnsigned(grid.Complement())
//
// Free cells are >= 0 and Obstacle cells are <= 0. If grid has no Free cell
// the complement term is degenerate and every cell is -opts.Unreachable();
// with no Obstacle cell every cell is +opts.Unreachable().
func ComputeSigned(grid OccupancyGrid, opts Options) (Field, error) {
	opts, err := prepare(grid, opts)
	if err != nil {
		return nil, err
	}
	outside := unsigned(grid, opts)
	inside := unsigned(grid.Complement(), opts)
	for y, row := range outside {
		for x := range row {
			row[x] -= inside[y][x]
		}
	}
	return outside, nil
}

func prepare(grid OccupancyGrid, opts Options) (Options, error) {
	if err := Validate(grid); err != nil {
		return opts, err
	}
	w, h := grid.Dims()
	return opts.resolve(w, h)
}

// unsigned assumes grid and opts have been validated.
func unsigned(grid OccupancyGrid, opts Options) Field {
	w, h := grid.Dims()
	seed, obstacles := seedField(grid, opts.Sentinel)
	if obstacles == 0 {
		return NewField(w, h, opts.Unreachable())
	}

	sq := squaredTransform(seed, opts.Workers)
	for _, row := range sq {
		for x, v := range row {
			row[x] = math.Sqrt(v)
		}
	}
	return sq
}

// seedField maps Obstacle to 0 and Free to sentinel, and counts obstacles.
func seedField(grid OccupancyGrid, sentinel float64) (Field, int) {
	w, h := grid.Dims()
	seed := NewField(w, h, sentinel)
	obstacles := 0
	for y, row := range grid {
		for x, c := range row {
			if c == Obstacle {
				seed[y][x] = 0
				obstacles++
			}
		}
	}
	return seed, obstacles
}
