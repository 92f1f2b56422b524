package domain

import "time"

// EventType represents the type of an event.
type EventType string

// Event types.
const (
	EventTypeIncident    EventType = "incident"
	EventTypeMaintenance EventType = "maintenance"
)

// EventStatus represents the current status of an event.
// Incident and maintenance statuses are disjoint sets.
type EventStatus string

// Event statuses.
const (
	EventStatusOpen      EventStatus = "open"
	EventStatusClosed    EventStatus = "closed"
	EventStatusPlanning  EventStatus = "planning"
	EventStatusStarted   EventStatus = "started"
	EventStatusCompleted EventStatus = "completed"
)

// Event represents an incident or maintenance event.
type Event struct {
	ID          int64       `json:"id"`
	Type        EventType   `json:"type"`
	Status      EventStatus `json:"status"`
	Description string      `json:"description"`
	Start       time.Time   `json:"start"`
	End         *time.Time  `json:"end"`
	CreatedBy   string      `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	ServiceIDs  []int64     `json:"service_ids"`
}

// EventUpdate represents an append-only note attached to an event.
// Updates are displayed in insertion (id) order, not timestamp order.
type EventUpdate struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	Date      time.Time `json:"date"`
	Text      string    `json:"text"`
	CreatedBy string    `json:"created_by"`
}

// IsValidForType checks if the status is valid for the given event type.
func (s EventStatus) IsValidForType(eventType EventType) bool {
	switch eventType {
	case EventTypeIncident:
		return s == EventStatusOpen || s == EventStatusClosed
	case EventTypeMaintenance:
		return s == EventStatusPlanning ||
			s == EventStatusStarted ||
			s == EventStatusCompleted
	}
	return false
}

// IsValid checks if the event type is valid.
func (t EventType) IsValid() bool {
	return t == EventTypeIncident || t == EventTypeMaintenance
}

// IsActive reports whether the event affects the dashboard timeline:
// open incidents and started maintenances only.
func (s EventStatus) IsActive() bool {
	return s == EventStatusOpen || s == EventStatusStarted
}

// IsFinished reports whether the event has reached its terminal state.
// Finished events carry an end timestamp; unfinished events do not.
func (s EventStatus) IsFinished() bool {
	return s == EventStatusClosed || s == EventStatusCompleted
}
