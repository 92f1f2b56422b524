// Package postgres provides the PostgreSQL implementation of the
// dashboard read model.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statusdash/statusdash/internal/dashboard"
	"github.com/statusdash/statusdash/internal/domain"
)

// Repository implements dashboard.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListActiveEvents returns open incidents and started maintenances
// ordered by start, with services and updates attached.
func (r *Repository) ListActiveEvents(ctx context.Context) ([]*dashboard.ActiveEvent, error) {
	query := `
		SELECT id, type, description, start_at
		FROM events
		WHERE status IN ('open', 'started')
		ORDER BY start_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}
	defer rows.Close()

	active := make([]*dashboard.ActiveEvent, 0)
	for rows.Next() {
		var ev dashboard.ActiveEvent
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.Description, &ev.Start); err != nil {
			return nil, fmt.Errorf("scan active event: %w", err)
		}
		active = append(active, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}

	for _, ev := range active {
		services, err := r.eventServices(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		ev.Services = services

		updates, err := r.eventUpdates(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		ev.Updates = updates
	}

	return active, nil
}

// ListEventsInRange returns non-planning events starting within
// [from, to], with services attached.
func (r *Repository) ListEventsInRange(ctx context.Context, from, to time.Time) ([]dashboard.RangeEvent, error) {
	query := `
		SELECT id, type, status, description, start_at, end_at
		FROM events
		WHERE start_at BETWEEN $1 AND $2
		  AND status <> 'planning'
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events in range: %w", err)
	}
	defer rows.Close()

	events := make([]dashboard.RangeEvent, 0)
	for rows.Next() {
		var ev dashboard.RangeEvent
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.Status, &ev.Description, &ev.Start, &ev.End); err != nil {
			return nil, fmt.Errorf("scan range event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events in range: %w", err)
	}

	for i := range events {
		services, err := r.eventServices(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].Services = services
	}

	return events, nil
}

// ListEventStarts returns the (type, start) pairs of non-planning
// events starting within [from, to].
func (r *Repository) ListEventStarts(ctx context.Context, from, to time.Time) ([]dashboard.EventStart, error) {
	query := `
		SELECT type, start_at
		FROM events
		WHERE start_at BETWEEN $1 AND $2
		  AND status <> 'planning'
		ORDER BY start_at ASC
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list event starts: %w", err)
	}
	defer rows.Close()

	starts := make([]dashboard.EventStart, 0)
	for rows.Next() {
		var es dashboard.EventStart
		if err := rows.Scan(&es.Type, &es.Start); err != nil {
			return nil, fmt.Errorf("scan event start: %w", err)
		}
		starts = append(starts, es)
	}

	return starts, rows.Err()
}

// ListServices returns all services ordered by name.
func (r *Repository) ListServices(ctx context.Context) ([]domain.Service, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM services
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, svc)
	}

	return services, rows.Err()
}

// eventServices returns the services impacted by an event, id and name,
// ordered by name.
func (r *Repository) eventServices(ctx context.Context, eventID int64) ([]dashboard.ServiceRef, error) {
	query := `
		SELECT s.id, s.name
		FROM event_services es
		JOIN services s ON s.id = es.service_id
		WHERE es.event_id = $1
		ORDER BY s.name ASC
	`
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event services: %w", err)
	}
	defer rows.Close()

	refs := make([]dashboard.ServiceRef, 0)
	for rows.Next() {
		var ref dashboard.ServiceRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan event service: %w", err)
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

// eventUpdates returns the progress notes of an event in insertion
// order. The slice stays nil when there are none.
func (r *Repository) eventUpdates(ctx context.Context, eventID int64) ([]dashboard.UpdateNote, error) {
	query := `
		SELECT date, body
		FROM event_updates
		WHERE event_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event updates: %w", err)
	}
	defer rows.Close()

	var updates []dashboard.UpdateNote
	for rows.Next() {
		var u dashboard.UpdateNote
		if err := rows.Scan(&u.Date, &u.Text); err != nil {
			return nil, fmt.Errorf("scan event update: %w", err)
		}
		updates = append(updates, u)
	}

	return updates, rows.Err()
}
