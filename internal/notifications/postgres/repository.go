// Package postgres provides the PostgreSQL implementation of the
// notifications repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statusdash/statusdash/internal/domain"
	"github.com/statusdash/statusdash/internal/notifications"
)

// Repository implements notifications.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListRecipients retrieves all recipients ordered by email.
func (r *Repository) ListRecipients(ctx context.Context) ([]domain.Recipient, error) {
	query := `
		SELECT id, email
		FROM recipients
		ORDER BY email ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	recipients := make([]domain.Recipient, 0)
	for rows.Next() {
		var recipient domain.Recipient
		if err := rows.Scan(&recipient.ID, &recipient.Email); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		recipients = append(recipients, recipient)
	}

	return recipients, rows.Err()
}

// CreateRecipient inserts a new recipient.
func (r *Repository) CreateRecipient(ctx context.Context, recipient *domain.Recipient) error {
	query := `
		INSERT INTO recipients (email)
		VALUES ($1)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, recipient.Email).Scan(&recipient.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return notifications.ErrRecipientExists
		}
		return fmt.Errorf("create recipient: %w", err)
	}
	return nil
}

// DeleteRecipient deletes a recipient by ID.
func (r *Repository) DeleteRecipient(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM recipients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipient: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notifications.ErrRecipientNotFound
	}
	return nil
}
