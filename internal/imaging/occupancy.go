package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/distance-field-mcp/internal/distfield"
)

// DefaultThreshold is the luminance below which a pixel is an obstacle.
const DefaultThreshold = 128

// DefaultColorTolerance is the CIE-Lab distance within which a pixel matches
// the obstacle colour. Lab distances here run roughly 0..1.
const DefaultColorTolerance = 0.1

// Region is a rectangle in source-image pixels. (X1,Y1) is inclusive,
// (X2,Y2) is exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// GridOptions controls how an image is turned into an occupancy grid.
type GridOptions struct {
	// Threshold is the luminance cut-off (0-255). Darker pixels are
	// obstacles. Ignored when ObstacleColor is set.
	Threshold uint8

	// ObstacleColor, as "#RRGGBB", switches classification to colour
	// matching: pixels within ColorTolerance of it are obstacles.
	ObstacleColor string

	// ColorTolerance is the maximum CIE-Lab distance for a colour match.
	ColorTolerance float64

	// Invert swaps obstacle and free after classification.
	Invert bool

	// Region restricts the grid to part of the image. Nil means the whole
	// image.
	Region *Region

	// MaxCells caps the grid size. Larger images are down-sampled with a box
	// filter, preserving aspect ratio where both axes keep at least one
	// cell. Zero means no cap.
	MaxCells int
}

// GridResult is an occupancy grid derived from an image.
type GridResult struct {
	Grid distfield.OccupancyGrid `json:"-"`

	// Width and Height are the grid dimensions in cells.
	Width  int `json:"width"`
	Height int `json:"height"`

	// SourceWidth and SourceHeight are the pixel dimensions of the region
	// the grid was built from.
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`

	// Scale is grid cells per source pixel along X (1 when no
	// down-sampling happened). Multiply a source distance by Scale to get
	// cells. Y uses the same scale unless the image is so thin that one
	// axis was clamped to a single cell.
	Scale float64 `json:"scale"`

	// Obstacles is the number of obstacle cells.
	Obstacles int `json:"obstacles"`
}

// GridFromImage classifies every pixel of img (after optional crop and
// down-sampling) as obstacle or free.
//
// Parameters:
//   - img: The source image; it is never modified.
//   - opts: Classification, region and size settings. The zero Threshold is
//     used as given, so callers wanting the default pass DefaultThreshold.
//
// Returns:
//   - *GridResult: The occupancy grid with its size, source size, scale and
//     obstacle count.
//   - error: Non-nil if an option or the region is invalid.
//
// Classification is either a luminance threshold (bild's segment.Threshold:
// pixels darker than Threshold are obstacles, fully transparent pixels are
// free) or, when ObstacleColor is set, a CIE-Lab distance test against that
// colour. Images larger than MaxCells are shrunk with a box filter first.
//
// # Errors
//
//   - Returns error if ObstacleColor is not a hex colour
//   - Returns error if ColorTolerance or MaxCells is negative
//   - Returns error if Region lies outside the image or is empty
func GridFromImage(img image.Image, opts GridOptions) (*GridResult, error) {
	var target colorful.Color
	if opts.ObstacleColor != "" {
		c, err := parseObstacleColor(opts.ObstacleColor)
		if err != nil {
			return nil, err
		}
		if opts.ColorTolerance < 0 {
			return nil, fmt.Errorf("color tolerance must be non-negative, got %g", opts.ColorTolerance)
		}
		target = c
	}
	if opts.MaxCells < 0 {
		return nil, fmt.Errorf("max cells must be non-negative, got %d", opts.MaxCells)
	}

	src := img
	if opts.Region != nil {
		cropped, err := cropRegion(img, *opts.Region)
		if err != nil {
			return nil, err
		}
		src = cropped
	}
	srcW, srcH := src.Bounds().Dx(), src.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	src, scale := downsample(src, opts.MaxCells)

	var grid distfield.OccupancyGrid
	if opts.ObstacleColor != "" {
		grid = classifyByColor(src, target, opts.ColorTolerance)
	} else {
		grid = classifyByLuminance(src, opts.Threshold)
	}
	if opts.Invert {
		grid = grid.Complement()
	}
	if err := distfield.Validate(grid); err != nil {
		return nil, err
	}

	w, h := grid.Dims()
	return &GridResult{
		Grid:         grid,
		Width:        w,
		Height:       h,
		SourceWidth:  srcW,
		SourceHeight: srcH,
		Scale:        scale,
		Obstacles:    grid.Count(distfield.Obstacle),
	}, nil
}

func cropRegion(img image.Image, r Region) (image.Image, error) {
	bounds := img.Bounds()
	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return imaging.Crop(img, image.Rect(r.X1, r.Y1, r.X2, r.Y2)), nil
}

// downsample shrinks img so it has at most maxCells pixels. It returns the
// image to classify and the cells-per-pixel scale.
func downsample(img image.Image, maxCells int) (image.Image, float64) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if maxCells <= 0 || w*h <= maxCells {
		return img, 1
	}

	f := math.Sqrt(float64(maxCells) / float64(w*h))
	nw := max(1, int(float64(w)*f))
	nh := max(1, int(float64(h)*f))
	// Clamping a thin axis to one cell gives the other axis the whole budget.
	if nh == 1 {
		nw = min(nw, maxCells)
	}
	if nw == 1 {
		nh = min(nh, maxCells)
	}
	return imaging.Resize(img, nw, nh, imaging.Box), float64(nw) / float64(w)
}

func classifyByLuminance(img image.Image, threshold uint8) distfield.OccupancyGrid {
	bw := segment.Threshold(img, threshold)
	w, h := bw.Rect.Dx(), bw.Rect.Dy()
	grid := distfield.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if bw.Pix[y*bw.Stride+x] == 0 {
				grid[y][x] = distfield.Obstacle
			}
		}
	}
	return grid
}

func classifyByColor(img image.Image, target colorful.Color, tolerance float64) distfield.OccupancyGrid {
	bounds := img.Bounds()
	grid := distfield.NewGrid(bounds.Dx(), bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c, ok := colorful.MakeColor(img.At(x+bounds.Min.X, y+bounds.Min.Y))
			if ok && c.DistanceLab(target) <= tolerance {
				grid[y][x] = distfield.Obstacle
			}
		}
	}
	return grid
}

// parseObstacleColor accepts "#RRGGBB", "RRGGBB" or the short "#RGB" form.
func parseObstacleColor(hex string) (colorful.Color, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid obstacle color %q: %w", hex, err)
	}
	return c, nil
}
