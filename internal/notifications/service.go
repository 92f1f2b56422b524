package notifications

import (
	"context"
	"strings"

	"github.com/statusdash/statusdash/internal/domain"
)

// Service implements recipient management business logic.
type Service struct {
	repo Repository
}

// NewService creates a new notifications service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListRecipients retrieves all broadcast recipients.
func (s *Service) ListRecipients(ctx context.Context) ([]domain.Recipient, error) {
	return s.repo.ListRecipients(ctx)
}

// AddRecipient registers an email address for event broadcasts.
// Addresses are stored lowercased so duplicates differing only in case
// collide.
func (s *Service) AddRecipient(ctx context.Context, email string) (*domain.Recipient, error) {
	recipient := &domain.Recipient{
		Email: strings.ToLower(strings.TrimSpace(email)),
	}
	if err := s.repo.CreateRecipient(ctx, recipient); err != nil {
		return nil, err
	}
	return recipient, nil
}

// RemoveRecipient deletes a recipient by ID.
func (s *Service) RemoveRecipient(ctx context.Context, id int64) error {
	return s.repo.DeleteRecipient(ctx, id)
}
