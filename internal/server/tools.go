package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// gridSchema describes the inline occupancy grid shared by several tools.
func gridSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "integer", "enum": []int{0, 1}},
		},
		"description": "Occupancy grid as rows of cells: 0 = free, 1 = obstacle. All rows must have the same length.",
	}
}

func modeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"unsigned", "signed"},
		"description": "Field type: 'unsigned' (distance to nearest obstacle, 0 on obstacles) or 'signed' (negative inside obstacles). Default 'signed'.",
		"default":     "signed",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Field Computation
		{
			Name:        "distance_field_unsigned",
			Description: "Compute the exact Euclidean distance from every cell to the nearest obstacle cell. Obstacle cells are 0. If the grid has no obstacle, every cell equals the returned 'unreachable' value.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid": gridSchema(),
					"sentinel": map[string]interface{}{
						"type":        "number",
						"description": "Squared-distance seed for free cells (default 1e20). Must exceed 4*(width^2+height^2).",
					},
				},
				"required": []string{"grid"},
			},
		},
		{
			Name:        "distance_field_signed",
			Description: "Compute the signed distance field: positive distance to the nearest obstacle in free space, negative distance to the nearest free cell inside obstacles.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid": gridSchema(),
					"sentinel": map[string]interface{}{
						"type":        "number",
						"description": "Squared-distance seed for free cells (default 1e20). Must exceed 4*(width^2+height^2).",
					},
				},
				"required": []string{"grid"},
			},
		},
		{
			Name:        "distance_field_from_image",
			Description: "Build an occupancy grid from an image (dark pixels or a chosen colour are obstacles) and compute its distance field. Large images are down-sampled to max_cells.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"mode": modeSchema(),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Luminance cut-off 0-255; darker pixels are obstacles (default from server config, 128)",
						"minimum":     0,
						"maximum":     255,
					},
					"invert": map[string]interface{}{
						"type":        "boolean",
						"description": "Swap obstacle and free after classification",
						"default":     false,
					},
					"obstacle_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour (e.g. '#FF0000'). When set, pixels close to this colour are obstacles instead of dark pixels.",
					},
					"color_tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Maximum CIE-Lab distance for a colour match (default from server config, 0.1)",
					},
					"region": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"description": "Optional region to use. If omitted, uses the entire image.",
					},
					"max_cells": map[string]interface{}{
						"type":        "integer",
						"description": "Upper bound on grid cells (default from server config)",
					},
				},
				"required": []string{"path"},
			},
		},

		// Queries
		{
			Name:        "distance_field_sample",
			Description: "Compute a distance field for a grid and return the distance at specific cells, e.g. clearance at waypoints.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid": gridSchema(),
					"mode": modeSchema(),
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer", "description": "Column"},
								"y":     map[string]interface{}{"type": "integer", "description": "Row"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label echoed back"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Cells to sample",
					},
				},
				"required": []string{"grid", "points"},
			},
		},
		{
			Name:        "occupancy_regions",
			Description: "Group obstacle cells into 8-connected regions and report bounds, centroid, size and depth (largest distance from a region cell to free space).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid": gridSchema(),
					"min_cells": map[string]interface{}{
						"type":        "integer",
						"description": "Drop regions smaller than this many cells (default 1)",
						"default":     1,
					},
				},
				"required": []string{"grid"},
			},
		},

		// Image Information
		{
			Name:        "image_dimensions",
			Description: "Get the width, height and format of an image file, to help choose a region before building a grid.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_palette",
			Description: "List the most common colours of an image and whether each would be an obstacle at a luminance threshold. Use it to choose threshold or obstacle_color for distance_field_from_image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colours to return (default 5)",
						"default":     5,
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Luminance cut-off 0-255 used for the obstacle flag (default from server config, 128)",
						"minimum":     0,
						"maximum":     255,
					},
					"region": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"description": "Optional region to analyze. If omitted, analyzes entire image.",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}
