package services

import (
	"time"

	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
)

// Ensure SystemClock implements the interface.
var _ driven.Clock = SystemClock{}

// SystemClock is the production time source. Tests substitute a fixed
// clock so mutation stamps and merge outcomes are deterministic.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
