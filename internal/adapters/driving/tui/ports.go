// Package tui provides the interactive progress dashboard for tracklight.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Progress exposes the progress engine.
	Progress driving.ProgressService

	// Session reports the signed-in account. Optional; local-only
	// installs have none.
	Session driving.SessionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(progress driving.ProgressService, session driving.SessionService) *Ports {
	return &Ports{
		Progress: progress,
		Session:  session,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Progress == nil {
		return ErrMissingProgressService
	}
	return nil
}
