// Package postgres provides the PostgreSQL implementation of the events
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statusdash/statusdash/internal/domain"
	"github.com/statusdash/statusdash/internal/events"
)

// querier is an interface for database operations that both
// *pgxpool.Pool and pgx.Tx implement.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements events.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateEvent creates a new event in the database.
func (r *Repository) CreateEvent(ctx context.Context, event *domain.Event) error {
	return r.createEvent(ctx, r.db, event)
}

// CreateEventTx creates a new event within a transaction.
func (r *Repository) CreateEventTx(ctx context.Context, tx pgx.Tx, event *domain.Event) error {
	return r.createEvent(ctx, tx, event)
}

func (r *Repository) createEvent(ctx context.Context, q querier, event *domain.Event) error {
	query := `
		INSERT INTO events (type, status, description, start_at, end_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		event.Type,
		event.Status,
		event.Description,
		event.Start,
		event.End,
		event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID with its service associations.
func (r *Repository) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT id, type, status, description, start_at, end_at, created_by, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	var event domain.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Type,
		&event.Status,
		&event.Description,
		&event.Start,
		&event.End,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	serviceIDs, err := r.eventServiceIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	event.ServiceIDs = serviceIDs

	return &event, nil
}

// ListEvents retrieves events matching the filters plus the unpaginated
// total, newest start first.
func (r *Repository) ListEvents(ctx context.Context, filters events.EventFilters) ([]*domain.Event, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	argNum := 1

	if filters.Type != nil {
		where += fmt.Sprintf(" AND type = $%d", argNum)
		args = append(args, *filters.Type)
		argNum++
	}
	if filters.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filters.Status)
		argNum++
	}
	if filters.From != nil {
		where += fmt.Sprintf(" AND start_at >= $%d", argNum)
		args = append(args, *filters.From)
		argNum++
	}
	if filters.To != nil {
		where += fmt.Sprintf(" AND start_at <= $%d", argNum)
		args = append(args, *filters.To)
		argNum++
	}
	if filters.Query != "" {
		where += fmt.Sprintf(" AND description ILIKE $%d", argNum)
		args = append(args, "%"+filters.Query+"%")
		argNum++
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM events"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := `
		SELECT id, type, status, description, start_at, end_at, created_by, created_at, updated_at
		FROM events
	` + where + " ORDER BY start_at DESC, id DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
		argNum++
	}
	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	eventsList := make([]*domain.Event, 0)
	for rows.Next() {
		var event domain.Event
		err := rows.Scan(
			&event.ID,
			&event.Type,
			&event.Status,
			&event.Description,
			&event.Start,
			&event.End,
			&event.CreatedBy,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		eventsList = append(eventsList, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	for _, event := range eventsList {
		serviceIDs, err := r.eventServiceIDs(ctx, event.ID)
		if err != nil {
			return nil, 0, err
		}
		event.ServiceIDs = serviceIDs
	}

	return eventsList, total, nil
}

// UpdateEvent updates an existing event.
func (r *Repository) UpdateEvent(ctx context.Context, event *domain.Event) error {
	return r.updateEvent(ctx, r.db, event)
}

// UpdateEventTx updates an existing event within a transaction.
func (r *Repository) UpdateEventTx(ctx context.Context, tx pgx.Tx, event *domain.Event) error {
	return r.updateEvent(ctx, tx, event)
}

func (r *Repository) updateEvent(ctx context.Context, q querier, event *domain.Event) error {
	query := `
		UPDATE events
		SET status = $2, description = $3, start_at = $4, end_at = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, query,
		event.ID,
		event.Status,
		event.Description,
		event.Start,
		event.End,
	).Scan(&event.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return events.ErrEventNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// DeleteEvent deletes an event by ID. Associations and updates go with
// it via ON DELETE CASCADE.
func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return events.ErrEventNotFound
	}
	return nil
}

// ReplaceServices swaps the full service association set of an event.
func (r *Repository) ReplaceServices(ctx context.Context, eventID int64, serviceIDs []int64) error {
	return r.replaceServices(ctx, r.db, eventID, serviceIDs)
}

// ReplaceServicesTx swaps the full service association set of an event
// within a transaction.
func (r *Repository) ReplaceServicesTx(ctx context.Context, tx pgx.Tx, eventID int64, serviceIDs []int64) error {
	return r.replaceServices(ctx, tx, eventID, serviceIDs)
}

func (r *Repository) replaceServices(ctx context.Context, q querier, eventID int64, serviceIDs []int64) error {
	if _, err := q.Exec(ctx, `DELETE FROM event_services WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("delete existing event services: %w", err)
	}

	insertQuery := `INSERT INTO event_services (event_id, service_id) VALUES ($1, $2)`
	for _, serviceID := range serviceIDs {
		if _, err := q.Exec(ctx, insertQuery, eventID, serviceID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return events.ErrUnknownService
			}
			return fmt.Errorf("associate service %d: %w", serviceID, err)
		}
	}
	return nil
}

// CreateUpdate appends a progress note to an event.
func (r *Repository) CreateUpdate(ctx context.Context, update *domain.EventUpdate) error {
	query := `
		INSERT INTO event_updates (event_id, date, body, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		update.EventID,
		update.Date,
		update.Text,
		update.CreatedBy,
	).Scan(&update.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return events.ErrEventNotFound
		}
		return fmt.Errorf("create event update: %w", err)
	}
	return nil
}

// ListUpdates retrieves the progress notes of an event in insertion
// order.
func (r *Repository) ListUpdates(ctx context.Context, eventID int64) ([]*domain.EventUpdate, error) {
	query := `
		SELECT id, event_id, date, body, created_by
		FROM event_updates
		WHERE event_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event updates: %w", err)
	}
	defer rows.Close()

	updates := make([]*domain.EventUpdate, 0)
	for rows.Next() {
		var update domain.EventUpdate
		if err := rows.Scan(&update.ID, &update.EventID, &update.Date, &update.Text, &update.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan event update: %w", err)
		}
		updates = append(updates, &update)
	}

	return updates, rows.Err()
}

// DeleteUpdate removes a progress note from an event.
func (r *Repository) DeleteUpdate(ctx context.Context, eventID, updateID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM event_updates WHERE id = $1 AND event_id = $2`, updateID, eventID)
	if err != nil {
		return fmt.Errorf("delete event update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return events.ErrUpdateNotFound
	}
	return nil
}

// BeginTx starts a new database transaction.
func (r *Repository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

func (r *Repository) eventServiceIDs(ctx context.Context, eventID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT service_id FROM event_services WHERE event_id = $1 ORDER BY service_id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event service ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan service id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
