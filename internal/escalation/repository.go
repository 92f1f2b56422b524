package escalation

import (
	"context"
	"errors"

	"github.com/statusdash/statusdash/internal/domain"
)

// Sentinel errors for the escalation module.
var (
	ErrContactNotFound = errors.New("escalation contact not found")
	ErrAtEdge          = errors.New("contact already at the edge of the ladder")
)

// Repository defines storage operations for escalation contacts.
type Repository interface {
	CreateContact(ctx context.Context, contact *domain.Contact) error
	GetContact(ctx context.Context, id int64) (*domain.Contact, error)
	// ListContacts returns all contacts in ascending ladder order.
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	UpdateContact(ctx context.Context, contact *domain.Contact) error
	DeleteContact(ctx context.Context, id int64) error
	// SwapOrder exchanges the ladder positions of two contacts.
	SwapOrder(ctx context.Context, a, b *domain.Contact) error
	// MaxOrder returns the highest ladder position, 0 when empty.
	MaxOrder(ctx context.Context) (int, error)
}
