package audit

import "time"

// Record is one append-only audit log row. The core never updates or deletes
// records; retention is an operational concern.
type Record struct {
	ID         int64
	Level      string
	ActorEmail string
	Location   string
	Action     string
	Payload    map[string]any
	CreatedAt  time.Time
}

// Filters narrows an audit log listing.
type Filters struct {
	Begin    time.Time
	End      time.Time
	Location string
	Skip     int
	Limit    int
}
