package mcp

import (
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Progress records and reads progress.
	Progress driving.ProgressService

	// Session reports the signed-in account.
	Session driving.SessionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Progress == nil {
		return ErrMissingProgressService
	}
	// Session is optional; local-only installs have none.
	return nil
}
