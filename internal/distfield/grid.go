package distfield

// Cell is the state of one occupancy grid cell.
type Cell uint8

const (
	// Free marks traversable space.
	Free Cell = 0

	// Obstacle marks an occupied cell.
	Obstacle Cell = 1
)

// OccupancyGrid is a rectangular binary map indexed grid[y][x].
//
// The grid is owned by the caller. Nothing in this package mutates it.
type OccupancyGrid [][]Cell

// NewGrid returns a width×height grid with every cell Free.
func NewGrid(width, height int) OccupancyGrid {
	g := make(OccupancyGrid, height)
	for y := range g {
		g[y] = make([]Cell, width)
	}
	return g
}

// GridFromInts converts a [][]int (0 = free, 1 = obstacle) into a grid.
//
// It is the adapter for wire formats such as JSON. The result is validated,
// so any other cell value, a ragged row, or an empty grid is rejected with a
// *MalformedGridError.
func GridFromInts(rows [][]int) (OccupancyGrid, error) {
	if len(rows) == 0 {
		return nil, malformed(-1, -1, "grid has no rows")
	}
	g := make(OccupancyGrid, len(rows))
	for y, row := range rows {
		g[y] = make([]Cell, len(row))
		for x, v := range row {
			if v != int(Free) && v != int(Obstacle) {
				return nil, malformed(y, x, "cell value %d is neither 0 (free) nor 1 (obstacle)", v)
			}
			g[y][x] = Cell(v)
		}
	}
	if err := Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks that g is a non-empty rectangle of at most MaxDimension
// cells per axis whose cells are all Free or Obstacle.
func Validate(g OccupancyGrid) error {
	if len(g) == 0 {
		return malformed(-1, -1, "grid has no rows")
	}
	if len(g) > MaxDimension {
		return malformed(-1, -1, "height %d exceeds the maximum of %d", len(g), MaxDimension)
	}
	width := len(g[0])
	if width == 0 {
		return malformed(0, -1, "row is empty")
	}
	if width > MaxDimension {
		return malformed(-1, -1, "width %d exceeds the maximum of %d", width, MaxDimension)
	}
	for y, row := range g {
		if len(row) != width {
			return malformed(y, -1, "row has %d cells, want %d", len(row), width)
		}
		for x, c := range row {
			if c != Free && c != Obstacle {
				return malformed(y, x, "cell value %d is neither Free nor Obstacle", c)
			}
		}
	}
	return nil
}

// Dims returns the width and height of g. It assumes g is rectangular.
func (g OccupancyGrid) Dims() (width, height int) {
	if len(g) == 0 {
		return 0, 0
	}
	return len(g[0]), len(g)
}

// Count returns the number of cells equal to c.
func (g OccupancyGrid) Count(c Cell) int {
	n := 0
	for _, row := range g {
		for _, v := range row {
			if v == c {
				n++
			}
		}
	}
	return n
}

// Complement returns a new grid with every Free cell set to Obstacle and
// every Obstacle cell set to Free.
func (g OccupancyGrid) Complement() OccupancyGrid {
	out := make(OccupancyGrid, len(g))
	for y, row := range g {
		out[y] = make([]Cell, len(row))
		for x, v := range row {
			if v == Obstacle {
				out[y][x] = Free
			} else {
				out[y][x] = Obstacle
			}
		}
	}
	return out
}

// Transpose returns a new grid t with t[x][y] == g[y][x].
func (g OccupancyGrid) Transpose() OccupancyGrid {
	w, h := g.Dims()
	out := NewGrid(h, w)
	for y, row := range g {
		for x, v := range row {
			out[x][y] = v
		}
	}
	return out
}

// Field is a rectangular grid of real values indexed f[y][x].
type Field [][]float64

// NewField returns a width×height field filled with v.
func NewField(width, height int, v float64) Field {
	f := make(Field, height)
	for y := range f {
		f[y] = make([]float64, width)
		if v != 0 {
			for x := range f[y] {
				f[y][x] = v
			}
		}
	}
	return f
}

// Dims returns the width and height of f. It assumes f is rectangular.
func (f Field) Dims() (width, height int) {
	if len(f) == 0 {
		return 0, 0
	}
	return len(f[0]), len(f)
}

// Transpose returns a new field t with t[x][y] == f[y][x].
func (f Field) Transpose() Field {
	w, h := f.Dims()
	out := NewField(h, w, 0)
	for y, row := range f {
		for x, v := range row {
			out[x][y] = v
		}
	}
	return out
}
