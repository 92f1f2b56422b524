package events

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/statusdash/statusdash/internal/domain"
)

// EventFilters narrows event listing and search. Zero-valued fields are
// ignored.
type EventFilters struct {
	Type   *domain.EventType
	Status *domain.EventStatus
	From   *time.Time
	To     *time.Time
	Query  string
	Limit  int
	Offset int
}

// Repository defines storage operations for events and their updates.
type Repository interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	ListEvents(ctx context.Context, filters EventFilters) ([]*domain.Event, int, error)
	UpdateEvent(ctx context.Context, event *domain.Event) error
	DeleteEvent(ctx context.Context, id int64) error

	// ReplaceServices swaps the full service association set of an event.
	ReplaceServices(ctx context.Context, eventID int64, serviceIDs []int64) error

	CreateUpdate(ctx context.Context, update *domain.EventUpdate) error
	ListUpdates(ctx context.Context, eventID int64) ([]*domain.EventUpdate, error)
	DeleteUpdate(ctx context.Context, eventID, updateID int64) error

	// Transactional variants used by the service to keep an event and
	// its associations consistent.
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CreateEventTx(ctx context.Context, tx pgx.Tx, event *domain.Event) error
	UpdateEventTx(ctx context.Context, tx pgx.Tx, event *domain.Event) error
	ReplaceServicesTx(ctx context.Context, tx pgx.Tx, eventID int64, serviceIDs []int64) error
}
