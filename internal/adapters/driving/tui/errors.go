package tui

import "errors"

// ErrMissingProgressService is returned when the progress service is not provided.
var ErrMissingProgressService = errors.New("tui: progress service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
