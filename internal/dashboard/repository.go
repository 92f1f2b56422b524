package dashboard

import (
	"context"
	"time"

	"github.com/statusdash/statusdash/internal/domain"
)

// ServiceRef is a service as it appears inside aggregated views: the
// stable id plus the display name current at build time.
type ServiceRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UpdateNote is a single progress note attached to an active event.
type UpdateNote struct {
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// ActiveEvent is a timeline row: an open incident or started
// maintenance with its impacted services and progress notes preloaded.
// Updates stay nil when the event has none.
type ActiveEvent struct {
	ID          int64            `json:"id"`
	Type        domain.EventType `json:"type"`
	Description string           `json:"description"`
	Start       time.Time        `json:"start"`
	Services    []ServiceRef     `json:"services"`
	Updates     []UpdateNote     `json:"updates"`
}

// RangeEvent is a grid row source: any non-planning event starting
// inside the queried window, with its impacted services. End is nil
// while the event is unfinished.
type RangeEvent struct {
	ID          int64              `json:"id"`
	Type        domain.EventType   `json:"type"`
	Status      domain.EventStatus `json:"status"`
	Description string             `json:"description"`
	Start       time.Time          `json:"start"`
	End         *time.Time         `json:"end"`
	Services    []ServiceRef       `json:"services"`
}

// EventStart is a trend counter source: just the type and start of an
// event inside the counted window.
type EventStart struct {
	Type  domain.EventType `json:"type"`
	Start time.Time        `json:"start"`
}

// Repository is the read model behind the public dashboard.
type Repository interface {
	// ListActiveEvents returns open incidents and started maintenances
	// ordered by start, each with services and updates (in insertion
	// order) attached.
	ListActiveEvents(ctx context.Context) ([]*ActiveEvent, error)

	// ListEventsInRange returns events starting within [from, to],
	// excluding maintenances still in planning.
	ListEventsInRange(ctx context.Context, from, to time.Time) ([]RangeEvent, error)

	// ListEventStarts returns the (type, start) pairs of events starting
	// within [from, to], excluding maintenances still in planning.
	ListEventStarts(ctx context.Context, from, to time.Time) ([]EventStart, error)

	// ListServices returns all services ordered by name.
	ListServices(ctx context.Context) ([]domain.Service, error)
}
