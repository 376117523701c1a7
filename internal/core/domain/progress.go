package domain

import (
	"fmt"
	"strings"
	"time"
)

// Domain identifies one of the progress categories sharing the
// synchronisation contract.
type Domain string

// Progress domains.
const (
	// DomainQuest tracks quest completion (toggle).
	DomainQuest Domain = "quest"

	// DomainStation tracks crafting-station construction (toggle).
	DomainStation Domain = "station"

	// DomainItemQuantity tracks collected item counts (non-negative integer).
	DomainItemQuantity Domain = "item_quantity"
)

// IsValid returns true if the domain is recognised.
func (d Domain) IsValid() bool {
	switch d {
	case DomainQuest, DomainStation, DomainItemQuantity:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d Domain) String() string {
	return string(d)
}

// Description returns a human-readable description of the domain.
func (d Domain) Description() string {
	switch d {
	case DomainQuest:
		return "Quest completion"
	case DomainStation:
		return "Station construction"
	case DomainItemQuantity:
		return "Item quantities"
	default:
		return unknownDescription
	}
}

// ValueKind describes how a domain's value is typed and encoded.
type ValueKind string

// Value kinds.
const (
	// ValueToggle is a boolean stored as 0 or 1.
	ValueToggle ValueKind = "toggle"

	// ValueCount is a non-negative integer.
	ValueCount ValueKind = "count"
)

// Validate checks v against the kind's accepted range.
func (k ValueKind) Validate(v int64) error {
	switch k {
	case ValueToggle:
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: toggle domains accept 0 or 1, got %d", ErrInvalidValue, v)
		}
	case ValueCount:
		if v < 0 {
			return fmt.Errorf("%w: quantity cannot be negative, got %d", ErrInvalidValue, v)
		}
	default:
		return fmt.Errorf("%w: unknown value kind %q", ErrInvalidValue, string(k))
	}
	return nil
}

// RecordID uniquely identifies a progress record within one user's record
// set. It is derived, never assigned: "<domain>:<entityID>".
type RecordID string

// NewRecordID builds the record id for an entity in a domain.
func NewRecordID(d Domain, entityID string) RecordID {
	return RecordID(string(d) + ":" + entityID)
}

// Split returns the domain and entity id encoded in the record id.
func (id RecordID) Split() (Domain, string, error) {
	name, entity, ok := strings.Cut(string(id), ":")
	if !ok || entity == "" {
		return "", "", fmt.Errorf("%w: malformed record id %q", ErrInvalidEntityID, string(id))
	}
	d := Domain(name)
	if !d.IsValid() {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownDomain, name)
	}
	return d, entity, nil
}

// Descriptor binds a progress domain to its remote table and value encoding.
// The engine is generic over descriptors; the three concrete domains are
// registration data, not separate implementations.
type Descriptor struct {
	// Name is the domain this descriptor serves.
	Name Domain

	// TableName is the remote table holding the domain's rows.
	TableName string

	// ValueColumn is the remote column carrying the value.
	ValueColumn string

	// Kind types the value.
	Kind ValueKind
}

// Key derives the record id for an entity in this domain.
func (d Descriptor) Key(entityID string) RecordID {
	return NewRecordID(d.Name, entityID)
}

// ValidateValue checks v against the domain's value kind.
func (d Descriptor) ValidateValue(v int64) error {
	return d.Kind.Validate(v)
}

var descriptors = map[Domain]Descriptor{
	DomainQuest: {
		Name:        DomainQuest,
		TableName:   "quest_progress",
		ValueColumn: "completed",
		Kind:        ValueToggle,
	},
	DomainStation: {
		Name:        DomainStation,
		TableName:   "station_progress",
		ValueColumn: "built",
		Kind:        ValueToggle,
	},
	DomainItemQuantity: {
		Name:        DomainItemQuantity,
		TableName:   "item_quantities",
		ValueColumn: "quantity",
		Kind:        ValueCount,
	},
}

// DescriptorFor returns the descriptor registered for d.
func DescriptorFor(d Domain) (Descriptor, error) {
	desc, ok := descriptors[d]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownDomain, string(d))
	}
	return desc, nil
}

// Descriptors returns all registered descriptors in a stable order.
func Descriptors() []Descriptor {
	return []Descriptor{
		descriptors[DomainQuest],
		descriptors[DomainStation],
		descriptors[DomainItemQuantity],
	}
}

// ProgressRecord is one unit of tracked progress: a quest's completion, a
// station module's construction, or an item's collected quantity.
type ProgressRecord struct {
	// ID is the derived record id, "<domain>:<entityID>".
	ID RecordID `json:"id"`

	// Domain is the progress category the record belongs to.
	Domain Domain `json:"domain"`

	// EntityID names the quest, station module, or item.
	EntityID string `json:"entity_id"`

	// Value is 0/1 for toggle domains, a count for quantity domains.
	Value int64 `json:"value"`

	// UpdatedAt is stamped on every mutation and strictly increases across
	// mutations of the same record on one device.
	UpdatedAt time.Time `json:"updated_at"`

	// CompletedAt is when a toggle domain last transitioned to done.
	// Nil for quantity records and for toggles currently off.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Done reports whether a toggle record is marked complete or built.
func (r ProgressRecord) Done() bool {
	return r.Value != 0
}

// Clone returns a copy with its own CompletedAt pointer.
func (r ProgressRecord) Clone() ProgressRecord {
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		r.CompletedAt = &t
	}
	return r
}

// Snapshot is a full record set keyed by record id.
type Snapshot map[RecordID]ProgressRecord

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for id, rec := range s {
		out[id] = rec.Clone()
	}
	return out
}
