package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/statusdash/statusdash/internal/cache"
	"github.com/statusdash/statusdash/internal/domain"
)

// TimelineEvent is a single bucket in the timeline: one active event
// with its impacted services and progress notes.
type TimelineEvent struct {
	Start       time.Time    `json:"start"`
	Description string       `json:"description"`
	Services    []ServiceRef `json:"services"`
	Updates     []UpdateNote `json:"updates,omitempty"`
}

// Timeline is the "what is happening right now" view. Events buckets
// active events per type by event id. Lookup maps, per type, the id of
// every currently impacted service to its name; the grid uses the ids
// to mark rows and resolves the names only for display, so renaming a
// service cannot silently drop its marker.
type Timeline struct {
	Events map[domain.EventType]map[int64]*TimelineEvent `json:"events"`
	Lookup map[domain.EventType]map[int64]string         `json:"lookup"`
}

// NewTimeline returns an empty timeline with both type buckets present.
func NewTimeline() *Timeline {
	return &Timeline{
		Events: map[domain.EventType]map[int64]*TimelineEvent{
			domain.EventTypeIncident:    {},
			domain.EventTypeMaintenance: {},
		},
		Lookup: map[domain.EventType]map[int64]string{
			domain.EventTypeIncident:    {},
			domain.EventTypeMaintenance: {},
		},
	}
}

// Impacted reports whether the service currently has an active event of
// the given type.
func (t *Timeline) Impacted(eventType domain.EventType, serviceID int64) bool {
	_, ok := t.Lookup[eventType][serviceID]
	return ok
}

// GetTimeline returns the active-event timeline, read-through cached
// under the "timeline" key with no expiration.
func (s *Service) GetTimeline(ctx context.Context) (*Timeline, error) {
	var tl Timeline
	if s.cache.Get(ctx, cache.KeyTimeline, &tl) {
		return &tl, nil
	}

	active, err := s.repo.ListActiveEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}

	built := NewTimeline()
	for _, ev := range active {
		built.Events[ev.Type][ev.ID] = &TimelineEvent{
			Start:       ev.Start,
			Description: ev.Description,
			Services:    ev.Services,
			Updates:     ev.Updates,
		}
		for _, svc := range ev.Services {
			built.Lookup[ev.Type][svc.ID] = svc.Name
		}
	}

	s.cache.Set(ctx, cache.KeyTimeline, built, 0)
	return built, nil
}
