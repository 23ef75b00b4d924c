package categories

import "time"

// Category is a simple managed taxonomy entry.
type Category struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
