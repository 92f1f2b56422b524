// Package reports implements the public incident-report intake: rate
// limited submissions with optional screenshot uploads, plus the admin
// review surface.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/statusdash/statusdash/internal/domain"
	"github.com/statusdash/statusdash/internal/pkg/ctxlog"
)

// SettingsProvider supplies the intake configuration. Implemented by
// the settings service.
type SettingsProvider interface {
	Report(ctx context.Context) (domain.ReportSettings, error)
}

// Notifier forwards a submitted report to the admin recipients.
// Implementations must be best-effort and never fail the submission.
type Notifier interface {
	ReportSubmitted(ctx context.Context, report *domain.Report)
}

// Service implements report intake business logic.
type Service struct {
	repo     Repository
	store    *ScreenshotStore
	settings SettingsProvider
	notifier Notifier
}

// NewService creates a new reports service.
func NewService(repo Repository, store *ScreenshotStore, settings SettingsProvider, notifier Notifier) *Service {
	return &Service{repo: repo, store: store, settings: settings, notifier: notifier}
}

// SubmitInput holds a public report submission. Screenshots carries at
// most two raw uploads.
type SubmitInput struct {
	Name        string
	Email       string
	Detail      string
	Extra       string
	Screenshots [][]byte
}

// Submit validates a submission against the intake settings, stores up
// to two screenshots and persists the report.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*domain.Report, error) {
	settings, err := s.settings.Report(ctx)
	if err != nil {
		return nil, fmt.Errorf("report settings: %w", err)
	}
	if !settings.Enabled {
		return nil, ErrIntakeDisabled
	}
	if len(input.Screenshots) > 0 && !settings.UploadEnabled {
		return nil, ErrUploadsDisabled
	}

	now := time.Now().UTC()

	var paths []string
	for _, data := range input.Screenshots {
		if settings.MaxFileSize > 0 && int64(len(data)) > settings.MaxFileSize {
			s.removeAll(ctx, paths)
			return nil, ErrFileTooLarge
		}
		path, err := s.store.Save(settings.UploadPath, data, now)
		if err != nil {
			s.removeAll(ctx, paths)
			return nil, err
		}
		paths = append(paths, path)
	}

	report := &domain.Report{
		Date:   now,
		Name:   input.Name,
		Email:  input.Email,
		Detail: input.Detail,
		Extra:  input.Extra,
	}
	if len(paths) > 0 {
		report.Screenshot1 = paths[0]
	}
	if len(paths) > 1 {
		report.Screenshot2 = paths[1]
	}

	if err := s.repo.CreateReport(ctx, report); err != nil {
		s.removeAll(ctx, paths)
		return nil, fmt.Errorf("create report: %w", err)
	}

	if settings.EmailEnabled && s.notifier != nil {
		s.notifier.ReportSubmitted(ctx, report)
	}

	return report, nil
}

// GetReport retrieves a report by ID.
func (s *Service) GetReport(ctx context.Context, id int64) (*domain.Report, error) {
	return s.repo.GetReport(ctx, id)
}

// ListReports retrieves reports newest first plus the unpaginated
// total.
func (s *Service) ListReports(ctx context.Context, limit, offset int) ([]domain.Report, int, error) {
	return s.repo.ListReports(ctx, limit, offset)
}

// DeleteReport removes a report and its stored screenshots.
func (s *Service) DeleteReport(ctx context.Context, id int64) error {
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteReport(ctx, id); err != nil {
		return err
	}

	s.removeAll(ctx, []string{report.Screenshot1, report.Screenshot2})
	return nil
}

// removeAll deletes stored screenshots, logging failures instead of
// surfacing them.
func (s *Service) removeAll(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.store.Remove(p); err != nil {
			ctxlog.FromContext(ctx).Warn("failed to remove screenshot", "path", p, "error", err)
		}
	}
}
