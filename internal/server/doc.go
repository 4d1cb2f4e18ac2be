// Package server implements the MCP (Model Context Protocol) server for
// distance-field tools.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line on stdin
// and one response per line on stdout. Logs go to the logger passed to New,
// never to stdout.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Field Computation:
//   - distance_field_unsigned: Euclidean distance to the nearest obstacle
//   - distance_field_signed: Signed distance, negative inside obstacles
//   - distance_field_from_image: Threshold an image into a grid, then compute its field
//
// Queries:
//   - distance_field_sample: Field values at chosen cells
//   - occupancy_regions: Connected obstacle regions with their depth
//
// Image Information:
//   - image_dimensions: Get width, height and format
//   - image_palette: Common colours and whether the threshold marks them as obstacles
//
// Grids travel inline as arrays of rows, 0 for free and 1 for obstacle.
// Images are cached by path and decoded again when the file changes.
//
// # Error Handling
//
//   - -32700: the request line is not JSON
//   - -32601: unknown method
//   - -32602: tools/call params do not decode
//   - -32000: the tool failed; data holds the Go error string
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
//	    logger.Fatal("server stopped", "err", err)
//	}
package server
