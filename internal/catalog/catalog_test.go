package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/meridian-admin/meridian-admin/testing"
)

func TestFindKnownKey(t *testing.T) {
	entry, ok := Find("user_view")
	require.True(t, ok)
	require.Equal(t, "user_view", entry.Key)
	require.Equal(t, "USERS", entry.Group)
}

func TestFindUnknownKey(t *testing.T) {
	_, ok := Find("warp_drive_engage")
	require.False(t, ok)
}

func TestEveryEntryBelongsToAGroup(t *testing.T) {
	groupIDs := make(map[string]struct{})
	for _, g := range Groups() {
		groupIDs[g.ID] = struct{}{}
	}
	for _, e := range Entries() {
		_, ok := groupIDs[e.Group]
		require.True(t, ok, "entry %q references unknown group %q", e.Key, e.Group)
	}
}

func TestKeysMatchEntries(t *testing.T) {
	keys := Keys()
	require.Len(t, keys, len(Entries()))
	for _, key := range keys {
		_, ok := Find(key)
		require.True(t, ok)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	entries := Entries()
	entries[0].Key = "mutated"
	_, ok := Find("mutated")
	require.False(t, ok)

	groups := Groups()
	groups[0].ID = "MUTATED"
	require.NotEqual(t, "MUTATED", Groups()[0].ID)
}
