package domain

import "time"

// Report represents a user-submitted incident report.
type Report struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Detail      string    `json:"detail"`
	Extra       string    `json:"extra"`
	Screenshot1 string    `json:"screenshot1,omitempty"`
	Screenshot2 string    `json:"screenshot2,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
