// Package postgres provides the PostgreSQL implementation of the
// catalog repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statusdash/statusdash/internal/catalog"
	"github.com/statusdash/statusdash/internal/domain"
)

// Repository implements catalog.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateService creates a new service in the database.
func (r *Repository) CreateService(ctx context.Context, service *domain.Service) error {
	query := `
		INSERT INTO services (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, service.Name).Scan(&service.ID, &service.CreatedAt, &service.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return catalog.ErrNameExists
		}
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

// GetService retrieves a service by ID.
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var service domain.Service
	err := r.db.QueryRow(ctx, query, id).Scan(&service.ID, &service.Name, &service.CreatedAt, &service.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &service, nil
}

// ListServices retrieves all services ordered by name.
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
		var service domain.Service
		if err := rows.Scan(&service.ID, &service.Name, &service.CreatedAt, &service.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, service)
	}

	return services, rows.Err()
}

// UpdateService updates an existing service.
func (r *Repository) UpdateService(ctx context.Context, service *domain.Service) error {
	query := `
		UPDATE services
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, service.ID, service.Name).Scan(&service.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrServiceNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return catalog.ErrNameExists
		}
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// DeleteService deletes a service by ID.
func (r *Repository) DeleteService(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrServiceNotFound
	}
	return nil
}

// HasEventAssociations reports whether any event still references the
// service.
func (r *Repository) HasEventAssociations(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM event_services WHERE service_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event associations: %w", err)
	}
	return exists, nil
}

// DeleteEventAssociations detaches the service from every event.
func (r *Repository) DeleteEventAssociations(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM event_services WHERE service_id = $1`, id); err != nil {
		return fmt.Errorf("delete event associations: %w", err)
	}
	return nil
}
