// Package imaging turns raster map images into occupancy grids for the
// distance field tools.
//
// An image becomes a grid in three steps:
//
//  1. Optional crop to a Region of interest.
//  2. Optional down-sampling with a box filter so the grid stays within
//     GridOptions.MaxCells.
//  3. Classification of every pixel as obstacle or free, either by a
//     luminance threshold (dark = obstacle) or by CIE-Lab distance to an
//     obstacle colour.
//
// # Coordinate System
//
// Pixel and cell coordinates are 0-based with (0,0) at the top-left, X
// increasing rightward and Y increasing downward. A grid built with a Scale
// below 1 has fewer cells than the source region has pixels; distances
// measured on it are in cells and convert back to pixels by dividing by Scale.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. GridFromImage never modifies its
// input and may be called concurrently.
package imaging
