// Package catalog holds the static table of permission keys known to the
// platform. The table is assembled once at init and is read-only afterwards,
// so it is safe for unlimited concurrent readers.
package catalog

// Group bundles related permission keys for display purposes.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Entry describes a single controllable action.
type Entry struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

var groups = []Group{
	{ID: "USERS", Name: "User Permissions"},
	{ID: "ROLES", Name: "Role Permissions"},
	{ID: "CATEGORIES", Name: "Category Permissions"},
	{ID: "AUDITLOGS", Name: "AuditLogs Permissions"},
}

var entries = []Entry{
	{Key: "user_view", Name: "User View", Group: "USERS"},
	{Key: "user_add", Name: "User Add", Group: "USERS"},
	{Key: "user_update", Name: "User Update", Group: "USERS"},
	{Key: "user_delete", Name: "User Delete", Group: "USERS"},

	{Key: "role_view", Name: "Role View", Group: "ROLES"},
	{Key: "role_add", Name: "Role Add", Group: "ROLES"},
	{Key: "role_update", Name: "Role Update", Group: "ROLES"},
	{Key: "role_delete", Name: "Role Delete", Group: "ROLES"},

	{Key: "category_view", Name: "Category View", Group: "CATEGORIES"},
	{Key: "category_add", Name: "Category Add", Group: "CATEGORIES"},
	{Key: "category_update", Name: "Category Update", Group: "CATEGORIES"},
	{Key: "category_delete", Name: "Category Delete", Group: "CATEGORIES"},
	{Key: "category_export", Name: "Category Export", Group: "CATEGORIES"},

	{Key: "auditlogs_view", Name: "AuditLogs View", Group: "AUDITLOGS"},
}

var index = buildIndex()

func buildIndex() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Key] = e
	}
	return m
}

// Find returns the catalog entry for a permission key.
func Find(key string) (Entry, bool) {
	e, ok := index[key]
	return e, ok
}

// Groups returns all permission groups.
func Groups() []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	return out
}

// Entries returns all catalog entries.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Keys returns every known permission key. Used when bootstrapping the
// initial super admin role.
func Keys() []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}
