package driven

import "time"

// Clock supplies the current time. Mutation timestamps drive last-write-wins
// merging, so tests substitute a fixed clock to make ordering deterministic.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
