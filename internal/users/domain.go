package users

import "time"

// SuperAdminRoleName is the role bootstrapped for the very first principal.
const SuperAdminRoleName = "SUPER_ADMIN"

// User represents a principal for management purposes. The password hash
// never leaves the repository layer through this type.
type User struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Locale      string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
