package identity

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/statusdash/statusdash/internal/domain"
	"github.com/statusdash/statusdash/internal/pkg/httputil"
)

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers the unauthenticated identity routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// RegisterProtectedRoutes registers routes that require a valid token.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.Me)
}

// RegisterAdminRoutes registers the user management routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
	r.Post("/users", h.CreateUser)
	r.Post("/users/{id}/password", h.ResetPassword)
	r.Delete("/users/{id}", h.DeleteUser)
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login request.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, session)
}

// Me handles GET /me request.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	username := httputil.GetUserID(r.Context())
	if username == "" {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.service.GetUserByUsername(r.Context(), username)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, user)
}

// ListUsers handles GET /users request.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, users)
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=1,max=255"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=255"`
	LastName  string `json:"last_name" validate:"max=255"`
	Role      string `json:"role" validate:"required,oneof=viewer staff admin"`
}

// CreateUser handles POST /users request.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, user)
}

// ResetPasswordRequest represents the request body for a password
// reset.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// ResetPassword handles POST /users/{id}/password request.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), id, req.Password); err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteUser handles DELETE /users/{id} request.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUsernameExists), errors.Is(err, ErrLastAdmin):
		httputil.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		httputil.Error(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
	}
}
