// Package distfield computes exact Euclidean distance fields over binary
// occupancy grids.
//
// Two fields are provided:
//   - Unsigned (UDF): each cell holds the Euclidean distance to the nearest
//     obstacle cell. Obstacle cells hold 0.
//   - Signed (SDF): the UDF of the grid minus the UDF of its complement.
//     Free cells are positive, obstacle cells are negative.
//
// # Algorithm
//
// The squared distance transform is separable: a 1D transform along every
// row followed by a 1D transform along every column of the intermediate
// result gives the exact 2D squared Euclidean distance. Each 1D transform is
// the lower envelope of parabolas method of Felzenszwalb and Huttenlocher,
// "Distance Transforms of Sampled Functions" (2012), which runs in O(n) per
// line. A full field therefore costs O(W·H) regardless of obstacle density.
//
// # Coordinate System
//
// Grids are indexed grid[y][x], row-major, with (0,0) at the top-left.
// Distances are measured in cells between cell centres.
//
// # Sentinel
//
// Free cells are seeded with a large finite sentinel (DefaultSentinel = 1e20)
// rather than +Inf, so envelope intersections never evaluate Inf-Inf. A grid
// with no obstacle never reaches the transform: every cell is set to
// Options.Unreachable(), which is sqrt(Sentinel). Callers must treat values
// at or above Unreachable() as "no obstacle found".
//
// Grids may be at most MaxDimension cells along either axis. At that size the
// largest real squared distance is about 2.2e12, far below the sentinel.
//
// # Thread Safety
//
// All functions are pure: inputs are never mutated and every result is a
// fresh allocation. Concurrent calls are safe without locking. Options.Workers
// fans the rows of each pass out to goroutines; the two passes are separated
// by a barrier and the result is identical to the sequential one.
package distfield
