// Package dashboard assembles the public status views: the active-event
// timeline, the 7-day per-service grid and the 31-day trend series. All
// three are read-through cached; mutations elsewhere invalidate through
// the methods at the bottom of this file.
package dashboard

import (
	"context"
	"fmt"

	"github.com/statusdash/statusdash/internal/cache"
	"github.com/statusdash/statusdash/internal/domain"
)

// Service aggregates the read model into the cached dashboard views.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService creates a new dashboard service.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// listServices returns all services, read-through cached under the
// "services" key.
func (s *Service) listServices(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	if s.cache.Get(ctx, cache.KeyServices, &services) {
		return services, nil
	}

	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	s.cache.Set(ctx, cache.KeyServices, services, 0)
	return services, nil
}

// InvalidateEvents drops every event-derived view: the timeline and the
// namespace tokens behind the grid and trend range keys. The derived
// per-range keys themselves are abandoned to cache eviction. Every
// event mutation, association change and update append goes through
// here.
func (s *Service) InvalidateEvents(ctx context.Context) {
	s.cache.Delete(ctx, cache.KeyTimeline, cache.FamilyEvents, cache.FamilyEventCount)
}

// InvalidateTimeline drops only the timeline. Sufficient when the
// change cannot move an event between grid cells or trend buckets,
// such as deleting a progress note.
func (s *Service) InvalidateTimeline(ctx context.Context) {
	s.cache.Delete(ctx, cache.KeyTimeline)
}

// InvalidateServices drops the service list and, because service names
// are denormalized into every event-derived view, the event views too.
func (s *Service) InvalidateServices(ctx context.Context) {
	s.cache.Delete(ctx, cache.KeyServices)
	s.InvalidateEvents(ctx)
}
