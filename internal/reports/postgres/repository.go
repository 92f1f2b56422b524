// Package postgres provides the PostgreSQL implementation of the
// reports repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/statusdash/statusdash/internal/domain"
	"github.com/statusdash/statusdash/internal/reports"
)

// Repository implements reports.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateReport persists a submitted report.
func (r *Repository) CreateReport(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (date, name, email, detail, extra, screenshot1, screenshot2)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		report.Date, report.Name, report.Email, report.Detail, report.Extra,
		report.Screenshot1, report.Screenshot2,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// GetReport retrieves a report by ID.
func (r *Repository) GetReport(ctx context.Context, id int64) (*domain.Report, error) {
	query := `
		SELECT id, date, name, email, detail, extra, screenshot1, screenshot2, created_at
		FROM reports
		WHERE id = $1
	`
	var report domain.Report
	err := r.db.QueryRow(ctx, query, id).Scan(
		&report.ID, &report.Date, &report.Name, &report.Email,
		&report.Detail, &report.Extra, &report.Screenshot1, &report.Screenshot2,
		&report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, reports.ErrReportNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &report, nil
}

// ListReports retrieves reports newest first plus the unpaginated
// total.
func (r *Repository) ListReports(ctx context.Context, limit, offset int) ([]domain.Report, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	query := `
		SELECT id, date, name, email, detail, extra, screenshot1, screenshot2, created_at
		FROM reports
		ORDER BY date DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reportsList := make([]domain.Report, 0)
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID, &report.Date, &report.Name, &report.Email,
			&report.Detail, &report.Extra, &report.Screenshot1, &report.Screenshot2,
			&report.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan report: %w", err)
		}
		reportsList = append(reportsList, report)
	}

	return reportsList, total, rows.Err()
}

// DeleteReport deletes a report by ID.
func (r *Repository) DeleteReport(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return reports.ErrReportNotFound
	}
	return nil
}
