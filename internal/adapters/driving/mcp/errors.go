// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Tracklight. It lets AI assistants read and record game progress through
// the same engine the CLI commands use.
package mcp

import "errors"

// ErrMissingProgressService is returned when the progress service is not provided.
var ErrMissingProgressService = errors.New("mcp: progress service is required")
