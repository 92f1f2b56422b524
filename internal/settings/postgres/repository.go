// Package postgres provides the PostgreSQL implementation of the
// settings repository.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statusdash/statusdash/internal/settings"
)

// Repository implements settings.Repository using PostgreSQL. Each
// section is one row holding a JSON document.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Load reads a section document into dest.
func (r *Repository) Load(ctx context.Context, section string, dest any) error {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT value FROM settings WHERE section = $1`, section).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.ErrNotFound
		}
		return fmt.Errorf("load settings %s: %w", section, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode settings %s: %w", section, err)
	}
	return nil
}

// Save writes a section document, creating the row on first save.
func (r *Repository) Save(ctx context.Context, section string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode settings %s: %w", section, err)
	}

	query := `
		INSERT INTO settings (section, value)
		VALUES ($1, $2)
		ON CONFLICT (section)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, section, raw); err != nil {
		return fmt.Errorf("save settings %s: %w", section, err)
	}
	return nil
}
