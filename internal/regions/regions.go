package regions

import (
	"fmt"
	"sort"

	"github.com/ironsheep/distance-field-mcp/internal/distfield"
)

// Point is a cell coordinate.
type Point struct {
	X int `json:"x"` // Column (0 = leftmost)
	Y int `json:"y"` // Row (0 = topmost)
}

// Bounds is the inclusive bounding box of a region in cell coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Leftmost column
	Y1 int `json:"y1"` // Topmost row
	X2 int `json:"x2"` // Rightmost column
	Y2 int `json:"y2"` // Bottom row
}

// Centroid is the mean cell position of a region.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Region is one 8-connected group of obstacle cells.
type Region struct {
	// ID is the 1-based label in row-major discovery order.
	ID int `json:"id"`

	// Bounds encloses every cell of the region.
	Bounds Bounds `json:"bounds"`

	// Centroid is the mean of the region's cell coordinates.
	Centroid Centroid `json:"centroid"`

	// Cells is the number of obstacle cells in the region.
	Cells int `json:"cells"`

	// Depth is the largest distance from a region cell to free space, the
	// maximum of -SDF over the region. A one-cell-thick wall has depth 1.
	// It equals the field's unreachable value when the grid has no free
	// cell at all.
	Depth float64 `json:"depth"`

	// Deepest is the first cell, in row-major order, at which Depth is
	// reached.
	Deepest Point `json:"deepest"`
}

// Result lists the regions found in a grid.
type Result struct {
	// Regions is sorted by cell count, largest first. Equal sizes keep
	// discovery order.
	Regions []Region `json:"regions"`

	// Count is len(Regions).
	Count int `json:"count"`

	// Discarded is the number of regions dropped for being below the
	// minimum size.
	Discarded int `json:"discarded"`
}

// Find labels the obstacle regions of grid and measures each one against
// sdf, the signed distance field of the same grid.
//
// Regions with fewer than minCells cells are dropped and counted in
// Result.Discarded. minCells below 1 keeps every region.
//
// # Algorithm
//
//  1. Labelling: row-major scan; every unlabelled obstacle cell seeds an
//     iterative 8-connected flood fill.
//  2. Measurement: bounds, centroid and cell count per label; depth is the
//     largest -sdf value inside the label.
//  3. Filtering and sorting by size.
func Find(grid distfield.OccupancyGrid, sdf distfield.Field, minCells int) (*Result, error) {
	if err := distfield.Validate(grid); err != nil {
		return nil, err
	}
	gw, gh := grid.Dims()
	if fw, fh := sdf.Dims(); fw != gw || fh != gh {
		return nil, fmt.Errorf("signed field is %dx%d, grid is %dx%d", fw, fh, gw, gh)
	}

	labels, n := Label(grid)
	found := make([]Region, n)
	sumX := make([]int, n)
	sumY := make([]int, n)
	for i := range found {
		found[i] = Region{
			ID:     i + 1,
			Bounds: Bounds{X1: gw, Y1: gh, X2: -1, Y2: -1},
			Depth:  -1,
		}
	}

	for y, row := range labels {
		for x, id := range row {
			if id == 0 {
				continue
			}
			r := &found[id-1]
			r.Cells++
			sumX[id-1] += x
			sumY[id-1] += y
			r.Bounds.X1 = min(r.Bounds.X1, x)
			r.Bounds.Y1 = min(r.Bounds.Y1, y)
			r.Bounds.X2 = max(r.Bounds.X2, x)
			r.Bounds.Y2 = max(r.Bounds.Y2, y)
			if d := -sdf[y][x]; d > r.Depth {
				r.Depth = d
				r.Deepest = Point{X: x, Y: y}
			}
		}
	}

	kept := make([]Region, 0, n)
	discarded := 0
	for i, r := range found {
		if r.Cells < minCells {
			discarded++
			continue
		}
		r.Centroid = Centroid{
			X: float64(sumX[i]) / float64(r.Cells),
			Y: float64(sumY[i]) / float64(r.Cells),
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Cells > kept[j].Cells
	})

	return &Result{
		Regions:   kept,
		Count:     len(kept),
		Discarded: discarded,
	}, nil
}

// Label assigns every obstacle cell the 1-based ID of its 8-connected region
// and every free cell 0. It returns the label grid and the region count.
// grid must be rectangular.
func Label(grid distfield.OccupancyGrid) ([][]int, int) {
	w, h := grid.Dims()
	labels := make([][]int, h)
	for y := range labels {
		labels[y] = make([]int, w)
	}

	next := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if grid[y][x] == distfield.Obstacle && labels[y][x] == 0 {
				next++
				floodFill(grid, labels, x, y, next)
			}
		}
	}
	return labels, next
}

// floodFill labels the region containing (startX, startY). It uses an
// explicit stack so large regions cannot overflow the goroutine stack.
func floodFill(grid distfield.OccupancyGrid, labels [][]int, startX, startY, id int) {
	w, h := grid.Dims()
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			continue
		}
		if labels[p.Y][p.X] != 0 || grid[p.Y][p.X] != distfield.Obstacle {
			continue
		}

		labels[p.Y][p.X] = id

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}
