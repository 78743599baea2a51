// Package mcp provides a Model Context Protocol server adapter. It
// lets AI assistants question the local legal corpus and inspect its
// contents through MCP tools.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
