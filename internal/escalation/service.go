// Package escalation manages the on-call contact ladder shown on the
// public escalation page.
package escalation

import (
	"context"
	"fmt"

	"github.com/statusdash/statusdash/internal/domain"
)

// SettingsProvider supplies the escalation page toggle. Implemented by
// the settings service.
type SettingsProvider interface {
	Escalation(ctx context.Context) (domain.EscalationSettings, error)
}

// Service implements escalation business logic.
type Service struct {
	repo     Repository
	settings SettingsProvider
}

// NewService creates a new escalation service.
func NewService(repo Repository, settings SettingsProvider) *Service {
	return &Service{repo: repo, settings: settings}
}

// ContactInput holds data for creating or editing a contact.
type ContactInput struct {
	Name    string
	Details string
	Hidden  bool
}

// Page is the public escalation page: the toggle state plus the
// visible contacts in ladder order.
type Page struct {
	Enabled      bool             `json:"enabled"`
	Instructions string           `json:"instructions"`
	Contacts     []domain.Contact `json:"contacts"`
}

// CreateContact appends a contact to the bottom of the ladder.
func (s *Service) CreateContact(ctx context.Context, input ContactInput) (*domain.Contact, error) {
	max, err := s.repo.MaxOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("max ladder order: %w", err)
	}

	contact := &domain.Contact{
		Order:   max + 1,
		Name:    input.Name,
		Details: input.Details,
		Hidden:  input.Hidden,
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// ListContacts returns the full ladder, hidden contacts included.
func (s *Service) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	return s.repo.ListContacts(ctx)
}

// UpdateContact edits a contact's name, details and visibility. The
// ladder position is changed only through MoveContact.
func (s *Service) UpdateContact(ctx context.Context, id int64, input ContactInput) (*domain.Contact, error) {
	contact, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}

	contact.Name = input.Name
	contact.Details = input.Details
	contact.Hidden = input.Hidden

	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact removes a contact from the ladder.
func (s *Service) DeleteContact(ctx context.Context, id int64) error {
	return s.repo.DeleteContact(ctx, id)
}

// MoveContact swaps a contact with its neighbor above (up) or below.
func (s *Service) MoveContact(ctx context.Context, id int64, up bool) error {
	contacts, err := s.repo.ListContacts(ctx)
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}

	idx := -1
	for i := range contacts {
		if contacts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrContactNotFound
	}

	neighbor := idx + 1
	if up {
		neighbor = idx - 1
	}
	if neighbor < 0 || neighbor >= len(contacts) {
		return ErrAtEdge
	}

	return s.repo.SwapOrder(ctx, &contacts[idx], &contacts[neighbor])
}

// PublicPage returns the escalation page as the public sees it: when
// the page is disabled no contacts are exposed, and hidden contacts
// never are.
func (s *Service) PublicPage(ctx context.Context) (*Page, error) {
	settings, err := s.settings.Escalation(ctx)
	if err != nil {
		return nil, fmt.Errorf("escalation settings: %w", err)
	}

	page := &Page{
		Enabled:      settings.Enabled,
		Instructions: settings.Instructions,
		Contacts:     make([]domain.Contact, 0),
	}
	if !settings.Enabled {
		return page, nil
	}

	contacts, err := s.repo.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	for _, c := range contacts {
		if !c.Hidden {
			page.Contacts = append(page.Contacts, c)
		}
	}
	return page, nil
}
