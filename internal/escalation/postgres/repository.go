// Package postgres provides the PostgreSQL implementation of the
// escalation repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statusdash/statusdash/internal/domain"
	"github.com/statusdash/statusdash/internal/escalation"
)

// Repository implements escalation.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateContact creates a new contact in the database.
func (r *Repository) CreateContact(ctx context.Context, contact *domain.Contact) error {
	query := `
		INSERT INTO escalation_contacts (ladder_order, name, details, hidden)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		contact.Order,
		contact.Name,
		contact.Details,
		contact.Hidden,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

// GetContact retrieves a contact by ID.
func (r *Repository) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	query := `
		SELECT id, ladder_order, name, details, hidden, created_at, updated_at
		FROM escalation_contacts
		WHERE id = $1
	`
	var contact domain.Contact
	err := r.db.QueryRow(ctx, query, id).Scan(
		&contact.ID,
		&contact.Order,
		&contact.Name,
		&contact.Details,
		&contact.Hidden,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, escalation.ErrContactNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &contact, nil
}

// ListContacts retrieves all contacts in ascending ladder order.
func (r *Repository) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	query := `
		SELECT id, ladder_order, name, details, hidden, created_at, updated_at
		FROM escalation_contacts
		ORDER BY ladder_order ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		var contact domain.Contact
		err := rows.Scan(
			&contact.ID,
			&contact.Order,
			&contact.Name,
			&contact.Details,
			&contact.Hidden,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	return contacts, rows.Err()
}

// UpdateContact updates an existing contact.
func (r *Repository) UpdateContact(ctx context.Context, contact *domain.Contact) error {
	query := `
		UPDATE escalation_contacts
		SET name = $2, details = $3, hidden = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		contact.ID,
		contact.Name,
		contact.Details,
		contact.Hidden,
	).Scan(&contact.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return escalation.ErrContactNotFound
		}
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// DeleteContact deletes a contact by ID.
func (r *Repository) DeleteContact(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM escalation_contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return escalation.ErrContactNotFound
	}
	return nil
}

// SwapOrder exchanges the ladder positions of two contacts atomically.
func (r *Repository) SwapOrder(ctx context.Context, a, b *domain.Contact) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	query := `UPDATE escalation_contacts SET ladder_order = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, query, a.ID, b.Order); err != nil {
		return fmt.Errorf("swap order: %w", err)
	}
	if _, err := tx.Exec(ctx, query, b.ID, a.Order); err != nil {
		return fmt.Errorf("swap order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	a.Order, b.Order = b.Order, a.Order
	return nil
}

// MaxOrder returns the highest ladder position, 0 when empty.
func (r *Repository) MaxOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(ladder_order), 0) FROM escalation_contacts`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max ladder order: %w", err)
	}
	return max, nil
}
