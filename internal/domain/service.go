package domain

import "time"

// RowStatus is the overall status marker for a service row on the
// dashboard grid. Incidents dominate maintenances.
type RowStatus int

// Row statuses.
const (
	RowStatusGreen             RowStatus = 0
	RowStatusActiveIncident    RowStatus = 1
	RowStatusActiveMaintenance RowStatus = 2
)

// Service represents a monitored service.
type Service struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
