package notifications

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/statusdash/statusdash/internal/pkg/httputil"
)

// Handler handles HTTP requests for recipient management.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new notifications handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterAdminRoutes registers the recipient management routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/recipients", h.ListRecipients)
	r.Post("/recipients", h.AddRecipient)
	r.Delete("/recipients/{id}", h.RemoveRecipient)
}

// RecipientRequest represents the request body for adding a recipient.
type RecipientRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// ListRecipients handles GET /recipients request.
func (h *Handler) ListRecipients(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.service.ListRecipients(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, recipients)
}

// AddRecipient handles POST /recipients request.
func (h *Handler) AddRecipient(w http.ResponseWriter, r *http.Request) {
	var req RecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	recipient, err := h.service.AddRecipient(r.Context(), req.Email)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, recipient)
}

// RemoveRecipient handles DELETE /recipients/{id} request.
func (h *Handler) RemoveRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid recipient id")
		return
	}

	if err := h.service.RemoveRecipient(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRecipientNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrRecipientExists):
		httputil.Error(w, http.StatusConflict, err.Error())
	default:
		slog.Error("internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
	}
}
