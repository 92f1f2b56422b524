// Package settings manages the admin-editable configuration sections.
// Each section is cached under its own key and invalidated individually
// on save, so toggling one section never disturbs the others.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/statusdash/statusdash/internal/cache"
	"github.com/statusdash/statusdash/internal/domain"
)

// Service implements settings business logic.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService creates a new settings service.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// Messages returns the dashboard banner texts.
func (s *Service) Messages(ctx context.Context) (domain.MessagesSettings, error) {
	var m domain.MessagesSettings
	err := s.load(ctx, SectionMessages, &m, func() {})
	return m, err
}

// SaveMessages persists the dashboard banner texts.
func (s *Service) SaveMessages(ctx context.Context, m domain.MessagesSettings) error {
	return s.save(ctx, SectionMessages, m)
}

// Logo returns the custom logo configuration.
func (s *Service) Logo(ctx context.Context) (domain.LogoSettings, error) {
	var l domain.LogoSettings
	err := s.load(ctx, SectionLogo, &l, func() {})
	return l, err
}

// SaveLogo persists the custom logo configuration.
func (s *Service) SaveLogo(ctx context.Context, l domain.LogoSettings) error {
	return s.save(ctx, SectionLogo, l)
}

// SystemURL returns the externally reachable base URL.
func (s *Service) SystemURL(ctx context.Context) (domain.SystemURLSettings, error) {
	var u domain.SystemURLSettings
	err := s.load(ctx, SectionSystemURL, &u, func() {})
	return u, err
}

// SaveSystemURL persists the externally reachable base URL.
func (s *Service) SaveSystemURL(ctx context.Context, u domain.SystemURLSettings) error {
	return s.save(ctx, SectionSystemURL, u)
}

// Email returns the outbound notification configuration.
func (s *Service) Email(ctx context.Context) (domain.EmailSettings, error) {
	var e domain.EmailSettings
	err := s.load(ctx, SectionEmail, &e, func() {
		e.HTMLFormat = true
	})
	return e, err
}

// SaveEmail persists the outbound notification configuration.
func (s *Service) SaveEmail(ctx context.Context, e domain.EmailSettings) error {
	return s.save(ctx, SectionEmail, e)
}

// Escalation returns the public escalation page toggle.
func (s *Service) Escalation(ctx context.Context) (domain.EscalationSettings, error) {
	var e domain.EscalationSettings
	err := s.load(ctx, SectionEscalation, &e, func() {})
	return e, err
}

// SaveEscalation persists the public escalation page toggle.
func (s *Service) SaveEscalation(ctx context.Context, e domain.EscalationSettings) error {
	return s.save(ctx, SectionEscalation, e)
}

// Report returns the public incident-report intake configuration.
func (s *Service) Report(ctx context.Context) (domain.ReportSettings, error) {
	var r domain.ReportSettings
	err := s.load(ctx, SectionReport, &r, func() {
		r.UploadPath = "uploads"
		r.MaxFileSize = 5 << 20
	})
	return r, err
}

// SaveReport persists the public incident-report intake configuration.
func (s *Service) SaveReport(ctx context.Context, r domain.ReportSettings) error {
	return s.save(ctx, SectionReport, r)
}

// load fills dest from cache, falling back to the database and, for a
// never-saved section, to applyDefaults. The result is cached with no
// expiration.
func (s *Service) load(ctx context.Context, section string, dest any, applyDefaults func()) error {
	if s.cache.Get(ctx, section, dest) {
		return nil
	}

	if err := s.repo.Load(ctx, section, dest); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("load %s settings: %w", section, err)
		}
		applyDefaults()
	}

	s.cache.Set(ctx, section, dest, 0)
	return nil
}

// save persists a section and drops only its own cache key.
func (s *Service) save(ctx context.Context, section string, value any) error {
	if err := s.repo.Save(ctx, section, value); err != nil {
		return fmt.Errorf("save %s settings: %w", section, err)
	}
	s.cache.Delete(ctx, section)
	return nil
}
