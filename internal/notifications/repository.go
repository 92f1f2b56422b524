package notifications

import (
	"context"

	"github.com/statusdash/statusdash/internal/domain"
)

// Repository defines storage operations for broadcast recipients.
type Repository interface {
	// ListRecipients returns every recipient ordered by email.
	ListRecipients(ctx context.Context) ([]domain.Recipient, error)
	CreateRecipient(ctx context.Context, recipient *domain.Recipient) error
	DeleteRecipient(ctx context.Context, id int64) error
}
