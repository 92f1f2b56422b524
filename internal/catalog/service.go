// Package catalog manages the monitored services shown as dashboard
// rows. Renames and deletions reach into cached event views, so every
// mutation invalidates through the dashboard service.
package catalog

import (
	"context"
	"fmt"

	"github.com/statusdash/statusdash/internal/domain"
)

// Invalidator drops the cached service list and the event-derived
// views that denormalize service names. Implemented by the dashboard
// service.
type Invalidator interface {
	InvalidateServices(ctx context.Context)
}

// Service implements catalog business logic.
type Service struct {
	repo        Repository
	invalidator Invalidator
}

// NewService creates a new catalog service.
func NewService(repo Repository, invalidator Invalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

// CreateService adds a new service to the catalog.
func (s *Service) CreateService(ctx context.Context, name string) (*domain.Service, error) {
	service := &domain.Service{Name: name}
	if err := s.repo.CreateService(ctx, service); err != nil {
		return nil, err
	}
	s.invalidator.InvalidateServices(ctx)
	return service, nil
}

// GetService retrieves a service by ID.
func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return s.repo.GetService(ctx, id)
}

// ListServices retrieves all services ordered by name.
func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.repo.ListServices(ctx)
}

// RenameService changes the display name of a service.
func (s *Service) RenameService(ctx context.Context, id int64, name string) (*domain.Service, error) {
	service, err := s.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	service.Name = name
	if err := s.repo.UpdateService(ctx, service); err != nil {
		return nil, err
	}

	s.invalidator.InvalidateServices(ctx)
	return service, nil
}

// DeleteService removes a service. Deletion is refused while events
// still reference the service unless force is set, in which case the
// associations are detached first.
func (s *Service) DeleteService(ctx context.Context, id int64, force bool) error {
	attached, err := s.repo.HasEventAssociations(ctx, id)
	if err != nil {
		return fmt.Errorf("check event associations: %w", err)
	}

	if attached {
		if !force {
			return ErrServiceHasEvents
		}
		if err := s.repo.DeleteEventAssociations(ctx, id); err != nil {
			return fmt.Errorf("detach events: %w", err)
		}
	}

	if err := s.repo.DeleteService(ctx, id); err != nil {
		return err
	}

	s.invalidator.InvalidateServices(ctx)
	return nil
}
