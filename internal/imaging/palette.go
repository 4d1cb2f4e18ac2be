package imaging

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/distance-field-mcp/internal/distfield"
)

// PaletteColor is one quantized colour of an image.
type PaletteColor struct {
	Hex        string  `json:"hex"`        // "#rrggbb", quantized
	Alpha      uint8   `json:"alpha"`      // quantized, 0 transparent, 255 opaque
	Percentage float64 `json:"percentage"` // share of pixels, 0-100

	// Lightness is CIE L*, 0 (black) to 1 (white).
	Lightness float64 `json:"lightness"`

	// Obstacle reports whether most pixels of this colour are obstacles
	// when the image is classified at the result's Threshold.
	Obstacle bool `json:"obstacle"`
}

// PaletteResult lists the most common colours, most common first.
type PaletteResult struct {
	Colors    []PaletteColor `json:"colors"`
	Pixels    int            `json:"pixels"`
	Threshold uint8          `json:"threshold"`

	// ObstacleShare is the percentage of all pixels that the threshold
	// marks as obstacles, including colours outside the top list.
	ObstacleShare float64 `json:"obstacle_share"`
}

type paletteBucket struct {
	pixels    int
	obstacles int
}

// Palette returns the most common colours of an image and how each is
// classified at a luminance threshold. It is meant for choosing
// GridOptions.ObstacleColor or GridOptions.Threshold before building a grid.
//
// Parameters:
//   - img: The source image.
//   - count: Maximum number of colours to return; must be at least 1.
//   - threshold: Luminance cut-off, as in GridOptions.Threshold.
//   - region: Optional sub-rectangle to analyze; nil means the whole image.
//
// Returns:
//   - *PaletteResult: Up to count colours, most common first, plus the share
//     of pixels classified as obstacles.
//   - error: Non-nil if count or region is invalid.
//
// Colours are quantized to 16 levels per channel, alpha included, so
// anti-aliased edges fold into their neighbours. Obstacle flags and
// ObstacleShare come from classifying the real pixels exactly as
// GridFromImage does at full resolution, not from the quantized colour.
//
// # Errors
//
//   - Returns error if count is less than 1
//   - Returns error if region lies outside the image or is empty
func Palette(img image.Image, count int, threshold uint8, region *Region) (*PaletteResult, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", count)
	}

	src := img
	if region != nil {
		cropped, err := cropRegion(img, *region)
		if err != nil {
			return nil, err
		}
		src = cropped
	}

	bounds := src.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	grid := classifyByLuminance(src, threshold)
	buckets := make(map[color.NRGBA]*paletteBucket)
	obstaclePixels := 0
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			key := color.NRGBA{quantize(c.R), quantize(c.G), quantize(c.B), quantizeAlpha(c.A)}
			b, ok := buckets[key]
			if !ok {
				b = &paletteBucket{}
				buckets[key] = b
			}
			b.pixels++
			if grid[y][x] == distfield.Obstacle {
				b.obstacles++
				obstaclePixels++
			}
		}
	}

	colors := make([]PaletteColor, 0, len(buckets))
	for c, b := range buckets {
		cf, _ := colorful.MakeColor(color.RGBA{c.R, c.G, c.B, 0xff})
		l, _, _ := cf.Lab()
		colors = append(colors, PaletteColor{
			Hex:        cf.Hex(),
			Alpha:      c.A,
			Percentage: float64(b.pixels) * 100 / float64(total),
			Lightness:  l,
			Obstacle:   b.obstacles*2 > b.pixels,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		if colors[i].Hex != colors[j].Hex {
			return colors[i].Hex < colors[j].Hex
		}
		return colors[i].Alpha > colors[j].Alpha
	})
	if len(colors) > count {
		colors = colors[:count]
	}

	return &PaletteResult{
		Colors:        colors,
		Pixels:        total,
		Threshold:     threshold,
		ObstacleShare: float64(obstaclePixels) * 100 / float64(total),
	}, nil
}

func quantize(v uint8) uint8 {
	return v / 16 * 16
}

// quantizeAlpha rounds up so opaque stays 255 and transparent stays 0.
func quantizeAlpha(v uint8) uint8 {
	return uint8(min(255, (int(v)+15)/16*16))
}
