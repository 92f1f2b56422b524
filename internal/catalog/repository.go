package catalog

import (
	"context"

	"github.com/statusdash/statusdash/internal/domain"
)

// Repository defines storage operations for the service catalog.
type Repository interface {
	CreateService(ctx context.Context, service *domain.Service) error
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	UpdateService(ctx context.Context, service *domain.Service) error
	DeleteService(ctx context.Context, id int64) error

	// HasEventAssociations reports whether any event still references
	// the service.
	HasEventAssociations(ctx context.Context, id int64) (bool, error)

	// DeleteEventAssociations detaches the service from every event.
	DeleteEventAssociations(ctx context.Context, id int64) error
}
