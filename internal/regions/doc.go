// Package regions groups the obstacle cells of an occupancy grid into
// 8-connected regions and reports their extent and depth.
//
// Depth comes from the signed distance field: inside an obstacle the SDF is
// minus the distance to the nearest free cell, so the deepest point of a
// region is where -SDF peaks. A planner can use it to tell thin walls from
// solid blocks.
package regions
