package domain

import "time"

// Contact represents an escalation contact on the on-call ladder.
// Contacts are displayed in ascending Order; hidden contacts stay in
// the ladder but are not shown on the public escalation page.
type Contact struct {
	ID        int64     `json:"id"`
	Order     int       `json:"order"`
	Name      string    `json:"name"`
	Details   string    `json:"details"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
