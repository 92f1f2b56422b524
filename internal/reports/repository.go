package reports

import (
	"context"

	"github.com/statusdash/statusdash/internal/domain"
)

// Repository defines storage operations for user incident reports.
type Repository interface {
	CreateReport(ctx context.Context, report *domain.Report) error
	GetReport(ctx context.Context, id int64) (*domain.Report, error)
	// ListReports returns reports newest first plus the unpaginated
	// total.
	ListReports(ctx context.Context, limit, offset int) ([]domain.Report, int, error)
	DeleteReport(ctx context.Context, id int64) error
}
