package server

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/ironsheep/distance-field-mcp/internal/distfield"
	"github.com/ironsheep/distance-field-mcp/internal/imaging"
	"github.com/ironsheep/distance-field-mcp/internal/regions"
)

// Field modes accepted by the tools that take a "mode" argument.
const (
	modeUnsigned = "unsigned"
	modeSigned   = "signed"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "distance_field_signed").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Error("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool completed", "tool", params.Name, "elapsed", time.Since(start), "cached_images", s.cache.Len())

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Field Computation
	case "distance_field_unsigned":
		return s.handleFieldTool(args, modeUnsigned)
	case "distance_field_signed":
		return s.handleFieldTool(args, modeSigned)
	case "distance_field_from_image":
		return s.handleFieldFromImage(args)

	// Queries
	case "distance_field_sample":
		return s.handleFieldSample(args)
	case "occupancy_regions":
		return s.handleOccupancyRegions(args)

	// Image Information
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_palette":
		return s.handleImagePalette(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// FieldResult is the JSON shape of every computed field.
type FieldResult struct {
	Mode   string `json:"mode"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Field is indexed [row][column].
	Field distfield.Field `json:"field"`

	// Unreachable is the magnitude at or above which a value means no
	// obstacle (or, for signed fields, no free cell) was found.
	Unreachable float64         `json:"unreachable"`
	Stats       distfield.Stats `json:"stats"`
}

// computeField runs the transform selected by mode and packages the result.
func (s *Server) computeField(grid distfield.OccupancyGrid, mode string, opts distfield.Options) (*FieldResult, error) {
	start := time.Now()

	var (
		field distfield.Field
		err   error
	)
	switch mode {
	case modeUnsigned:
		field, err = distfield.ComputeUnsigned(grid, opts)
	case modeSigned:
		field, err = distfield.ComputeSigned(grid, opts)
	default:
		return nil, fmt.Errorf("invalid mode: %s (use 'unsigned' or 'signed')", mode)
	}
	if err != nil {
		return nil, err
	}

	w, h := field.Dims()
	s.logger.Debug("field computed", "mode", mode, "cells", w*h, "workers", opts.Workers, "elapsed", time.Since(start))

	return &FieldResult{
		Mode:        mode,
		Width:       w,
		Height:      h,
		Field:       field,
		Unreachable: opts.Unreachable(),
		Stats:       distfield.Summarize(field, opts),
	}, nil
}

// fieldOptions returns the configured options with an optional per-call
// sentinel override.
func (s *Server) fieldOptions(sentinel *float64) distfield.Options {
	opts := s.cfg.FieldOptions()
	if sentinel != nil {
		opts.Sentinel = *sentinel
	}
	return opts
}

func parseMode(mode string) (string, error) {
	switch mode {
	case "":
		return modeSigned, nil
	case modeUnsigned, modeSigned:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid mode: %s (use 'unsigned' or 'signed')", mode)
	}
}

func parseThreshold(v int) (uint8, error) {
	if v < 0 || v > math.MaxUint8 {
		return 0, fmt.Errorf("threshold must be in 0..255, got %d", v)
	}
	return uint8(v), nil
}

// gridToInts renders a grid for JSON. [][]Cell would encode each row as a
// base64 string.
func gridToInts(g distfield.OccupancyGrid) [][]int {
	out := make([][]int, len(g))
	for y, row := range g {
		out[y] = make([]int, len(row))
		for x, c := range row {
			out[y][x] = int(c)
		}
	}
	return out
}

// === Field Computation Handlers ===

type fieldArgs struct {
	Grid     [][]int  `json:"grid"`
	Sentinel *float64 `json:"sentinel"`
}

func (s *Server) handleFieldTool(args json.RawMessage, mode string) (interface{}, error) {
	var a fieldArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	grid, err := distfield.GridFromInts(a.Grid)
	if err != nil {
		return nil, err
	}
	return s.computeField(grid, mode, s.fieldOptions(a.Sentinel))
}

type fieldFromImageArgs struct {
	Path           string          `json:"path"`
	Mode           string          `json:"mode"`
	Threshold      *int            `json:"threshold"`
	Invert         bool            `json:"invert"`
	ObstacleColor  string          `json:"obstacle_color"`
	ColorTolerance *float64        `json:"color_tolerance"`
	Region         *imaging.Region `json:"region"`
	MaxCells       *int            `json:"max_cells"`
}

// ImageFieldResult is a field built from an image, together with the grid
// it was computed on.
type ImageFieldResult struct {
	Source *imaging.GridResult `json:"source"`

	// Occupancy is the grid the field was computed on, 0 = free,
	// 1 = obstacle.
	Occupancy [][]int `json:"occupancy"`

	*FieldResult
}

// handleFieldFromImage loads an image through the cache, classifies it into
// an occupancy grid and computes the requested field on that grid.
//
// Threshold, ColorTolerance and MaxCells fall back to the server config when
// omitted. Returns an *ImageFieldResult, or an error if the image cannot be
// loaded, an option is out of range or the resulting grid is rejected.
func (s *Server) handleFieldFromImage(args json.RawMessage) (interface{}, error) {
	var a fieldFromImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := parseMode(a.Mode)
	if err != nil {
		return nil, err
	}

	opts := imaging.GridOptions{
		Threshold:      uint8(s.cfg.Image.Threshold),
		ObstacleColor:  a.ObstacleColor,
		ColorTolerance: s.cfg.Image.ColorTolerance,
		Invert:         a.Invert,
		Region:         a.Region,
		MaxCells:       s.cfg.Image.MaxCells,
	}
	if a.Threshold != nil {
		t, err := parseThreshold(*a.Threshold)
		if err != nil {
			return nil, err
		}
		opts.Threshold = t
	}
	if a.ColorTolerance != nil {
		opts.ColorTolerance = *a.ColorTolerance
	}
	if a.MaxCells != nil {
		if *a.MaxCells < 1 {
			return nil, fmt.Errorf("max_cells must be at least 1, got %d", *a.MaxCells)
		}
		opts.MaxCells = *a.MaxCells
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	source, err := imaging.GridFromImage(img, opts)
	if err != nil {
		return nil, err
	}

	field, err := s.computeField(source.Grid, mode, s.cfg.FieldOptions())
	if err != nil {
		return nil, err
	}

	return &ImageFieldResult{
		Source:      source,
		Occupancy:   gridToInts(source.Grid),
		FieldResult: field,
	}, nil
}

// === Query Handlers ===

// SamplePoint is one requested cell. X is the column, Y the row.
type SamplePoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

type fieldSampleArgs struct {
	Grid     [][]int       `json:"grid"`
	Mode     string        `json:"mode"`
	Points   []SamplePoint `json:"points"`
	Sentinel *float64      `json:"sentinel"`
}

// SampleValue is the field value at one requested cell. Out-of-range points
// carry Error and no distance.
type SampleValue struct {
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Label       string   `json:"label,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`
	Obstacle    bool     `json:"obstacle"`
	Unreachable bool     `json:"unreachable"`
	Error       string   `json:"error,omitempty"`
}

// SampleResult holds the sampled values in request order.
type SampleResult struct {
	Mode        string        `json:"mode"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Samples     []SampleValue `json:"samples"`
	Count       int           `json:"count"`
	Unreachable float64       `json:"unreachable"`
	OutOfBounds int           `json:"out_of_bounds"`
}

func (s *Server) handleFieldSample(args json.RawMessage) (interface{}, error) {
	var a fieldSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := parseMode(a.Mode)
	if err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, fmt.Errorf("no points to sample")
	}
	grid, err := distfield.GridFromInts(a.Grid)
	if err != nil {
		return nil, err
	}

	field, err := s.computeField(grid, mode, s.fieldOptions(a.Sentinel))
	if err != nil {
		return nil, err
	}

	result := &SampleResult{
		Mode:        mode,
		Width:       field.Width,
		Height:      field.Height,
		Samples:     make([]SampleValue, len(a.Points)),
		Count:       len(a.Points),
		Unreachable: field.Unreachable,
	}
	for i, p := range a.Points {
		v := SampleValue{X: p.X, Y: p.Y, Label: p.Label}
		if p.X < 0 || p.X >= field.Width || p.Y < 0 || p.Y >= field.Height {
			v.Error = fmt.Sprintf("point (%d,%d) outside grid %dx%d", p.X, p.Y, field.Width, field.Height)
			result.OutOfBounds++
			result.Samples[i] = v
			continue
		}
		d := field.Field[p.Y][p.X]
		v.Distance = &d
		v.Obstacle = grid[p.Y][p.X] == distfield.Obstacle
		v.Unreachable = math.Abs(d) >= field.Unreachable
		result.Samples[i] = v
	}
	return result, nil
}

type occupancyRegionsArgs struct {
	Grid     [][]int `json:"grid"`
	MinCells int     `json:"min_cells"`
}

func (s *Server) handleOccupancyRegions(args json.RawMessage) (interface{}, error) {
	var a occupancyRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	grid, err := distfield.GridFromInts(a.Grid)
	if err != nil {
		return nil, err
	}
	sdf, err := distfield.ComputeSigned(grid, s.cfg.FieldOptions())
	if err != nil {
		return nil, err
	}
	return regions.Find(grid, sdf, a.MinCells)
}

// === Image Information Handlers ===

type imageDimensionsArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageDimensionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imagePaletteArgs struct {
	Path      string          `json:"path"`
	Count     int             `json:"count"`
	Threshold *int            `json:"threshold"`
	Region    *imaging.Region `json:"region"`
}

// handleImagePalette reports the dominant colours of an image. Count
// defaults to 5 and Threshold to the server config.
func (s *Server) handleImagePalette(args json.RawMessage) (interface{}, error) {
	var a imagePaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	threshold := uint8(s.cfg.Image.Threshold)
	if a.Threshold != nil {
		t, err := parseThreshold(*a.Threshold)
		if err != nil {
			return nil, err
		}
		threshold = t
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Palette(img, a.Count, threshold, a.Region)
}
