package domain

// Origin tells subscribers whether a change was made on this device or
// arrived from another device through reconciliation.
type Origin string

// Change origins.
const (
	// OriginLocal marks a change made on this device.
	OriginLocal Origin = "local"

	// OriginRemote marks a change that arrived via reconcile.
	OriginRemote Origin = "remote"
)

// ChangeEvent notifies subscribers that a record's value changed, so views
// re-render reactively instead of polling.
type ChangeEvent struct {
	// Domain is the progress category of the changed record.
	Domain Domain

	// EntityID names the changed quest, station module, or item.
	EntityID string

	// Value is the record's value after the change.
	Value int64

	// Origin is where the change came from.
	Origin Origin
}
