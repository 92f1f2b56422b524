package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/statusdash/statusdash/internal/domain"
)

// Authenticator issues access tokens. Implemented by JWTAuthenticator.
type Authenticator interface {
	GenerateToken(user *domain.User) (token string, expiresAt time.Time, err error)
}

// Service implements identity business logic.
type Service struct {
	repo Repository
	auth Authenticator
}

// NewService creates a new identity service.
func NewService(repo Repository, auth Authenticator) *Service {
	return &Service{repo: repo, auth: auth}
}

// Session is the result of a successful login.
type Session struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Login verifies the credentials and issues an access token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GetUserByUsername retrieves a user for the authenticated identity.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}

// ListUsers retrieves all users.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// CreateUserInput holds a new admin-console account.
type CreateUserInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// CreateUser registers a new account with a hashed password.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     strings.ToLower(strings.TrimSpace(input.Username)),
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ResetPassword replaces a user's password.
func (s *Service) ResetPassword(ctx context.Context, id int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

// EnsureAdmin creates the bootstrap admin account when no admin
// exists yet. A no-op when the password is empty or an admin is
// already present.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		return nil
	}

	admins, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}

	_, err = s.CreateUser(ctx, CreateUserInput{
		Username: username,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	return err
}

// DeleteUser removes an account. The last remaining admin cannot be
// deleted.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == domain.RoleAdmin {
		admins, err := s.repo.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	return s.repo.DeleteUser(ctx, id)
}
