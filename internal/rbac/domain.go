package rbac

import "time"

// Role is a named, activatable grouping of permission keys.
type Role struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RolePermission links a role to one permission key. The (role, key) pair is
// unique within a role's link set; reconciliation guarantees no duplicates
// are created for keys already present.
type RolePermission struct {
	ID            int64
	RoleID        int64
	PermissionKey string
	CreatedBy     int64
	CreatedAt     time.Time
}

// PrincipalRole links a principal to a role.
type PrincipalRole struct {
	ID          int64
	PrincipalID int64
	RoleID      int64
	CreatedAt   time.Time
}

// PermissionDiff reports the minimal link changes a reconciliation applied.
type PermissionDiff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// RoleDiff reports the minimal membership changes a reconciliation applied.
type RoleDiff struct {
	Added   []int64 `json:"added"`
	Removed []int64 `json:"removed"`
}
