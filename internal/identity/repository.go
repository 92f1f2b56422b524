package identity

import (
	"context"

	"github.com/statusdash/statusdash/internal/domain"
)

// Repository defines storage operations for admin-console users.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// ListUsers returns every user ordered by username.
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	DeleteUser(ctx context.Context, id int64) error
	// CountAdmins returns the number of users holding the admin role.
	CountAdmins(ctx context.Context) (int, error)
}
