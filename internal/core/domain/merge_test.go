package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(d Domain, entityID string, value int64, updatedAt time.Time) ProgressRecord {
	return ProgressRecord{
		ID:        NewRecordID(d, entityID),
		Domain:    d,
		EntityID:  entityID,
		Value:     value,
		UpdatedAt: updatedAt,
	}
}

// TestMerge_RemoteOnly tests that records known only to the remote are taken
func TestMerge_RemoteOnly(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	remote := Snapshot{"quest:debut": rec(DomainQuest, "debut", 1, t1)}

	merged := Merge(Snapshot{}, remote)

	require.Len(t, merged, 1)
	assert.Equal(t, remote["quest:debut"], merged["quest:debut"])
}

// TestMerge_LocalOnly tests that unsynced local records are kept
func TestMerge_LocalOnly(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	local := Snapshot{"item_quantity:mp-133": rec(DomainItemQuantity, "mp-133", 5, t1)}

	merged := Merge(local, Snapshot{})

	require.Len(t, merged, 1)
	assert.Equal(t, local["item_quantity:mp-133"], merged["item_quantity:mp-133"])
}

// TestMerge_LastWriteWins tests the pairwise timestamp comparison
func TestMerge_LastWriteWins(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	tests := []struct {
		name      string
		local     ProgressRecord
		remote    ProgressRecord
		wantValue int64
	}{
		{
			name:      "newer local wins",
			local:     rec(DomainItemQuantity, "mp-133", 5, t2),
			remote:    rec(DomainItemQuantity, "mp-133", 3, t1),
			wantValue: 5,
		},
		{
			name:      "newer remote wins",
			local:     rec(DomainItemQuantity, "mp-133", 5, t1),
			remote:    rec(DomainItemQuantity, "mp-133", 3, t2),
			wantValue: 3,
		},
		{
			name:      "exact tie resolves to remote",
			local:     rec(DomainItemQuantity, "mp-133", 5, t1),
			remote:    rec(DomainItemQuantity, "mp-133", 3, t1),
			wantValue: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Merge(
				Snapshot{tt.local.ID: tt.local},
				Snapshot{tt.remote.ID: tt.remote},
			)
			require.Len(t, merged, 1)
			assert.Equal(t, tt.wantValue, merged[tt.local.ID].Value)
		})
	}
}

// TestMerge_Idempotent tests merge(merge(l, r), r) == merge(l, r)
func TestMerge_Idempotent(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	local := Snapshot{
		"quest:debut":         rec(DomainQuest, "debut", 1, t1.Add(time.Second)),
		"station:generator-1": rec(DomainStation, "generator-1", 1, t1),
	}
	remote := Snapshot{
		"quest:debut":          rec(DomainQuest, "debut", 0, t1),
		"item_quantity:mp-133": rec(DomainItemQuantity, "mp-133", 3, t1),
	}

	once := Merge(local, remote)
	twice := Merge(once, remote)

	assert.Equal(t, once, twice)
}

// TestMerge_InputsNotModified tests that merge leaves both snapshots intact
func TestMerge_InputsNotModified(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	local := Snapshot{"quest:debut": rec(DomainQuest, "debut", 1, t1)}
	remote := Snapshot{"quest:debut": rec(DomainQuest, "debut", 0, t1.Add(time.Hour))}

	Merge(local, remote)

	assert.Equal(t, int64(1), local["quest:debut"].Value)
	assert.Equal(t, int64(0), remote["quest:debut"].Value)
}

// TestMerge_Empty tests merging empty snapshots
func TestMerge_Empty(t *testing.T) {
	merged := Merge(Snapshot{}, Snapshot{})
	assert.Empty(t, merged)

	merged = Merge(nil, nil)
	assert.Empty(t, merged)
}

// TestMerge_DisjointUnion tests that disjoint snapshots merge to their union
func TestMerge_DisjointUnion(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	local := Snapshot{"quest:debut": rec(DomainQuest, "debut", 1, t1)}
	remote := Snapshot{
		"station:generator-1":  rec(DomainStation, "generator-1", 1, t1),
		"item_quantity:mp-133": rec(DomainItemQuantity, "mp-133", 3, t1),
	}

	merged := Merge(local, remote)

	assert.Len(t, merged, 3)
}
