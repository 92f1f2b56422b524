package escalation

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

// Handler handles HTTP requests for the escalation module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new escalation handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers the public escalation page route.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/escalation", h.GetPage)
}

// RegisterAdminRoutes registers the contact management routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/escalation/contacts", func(r chi.Router) {
		r.Get("/", h.ListContacts)
		r.Post("/", h.CreateContact)
		r.Patch("/{id}", h.UpdateContact)
		r.Delete("/{id}", h.DeleteContact)
		r.Post("/{id}/move", h.MoveContact)
	})
}

// ContactRequest represents the request body for creating or editing a
// contact.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Details string `json:"details" validate:"required,min=1,max=2000"`
	Hidden  bool   `json:"hidden"`
}

// MoveContactRequest represents the request body for moving a contact.
type MoveContactRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// GetPage handles GET /escalation request.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.PublicPage(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, page)
}

// ListContacts handles GET /escalation/contacts request.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.ListContacts(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, contacts)
}

// CreateContact handles POST /escalation/contacts request.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	contact, err := h.service.CreateContact(r.Context(), ContactInput{
		Name:    req.Name,
		Details: req.Details,
		Hidden:  req.Hidden,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, contact)
}

// UpdateContact handles PATCH /escalation/contacts/{id} request.
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	contact, err := h.service.UpdateContact(r.Context(), id, ContactInput{
		Name:    req.Name,
		Details: req.Details,
		Hidden:  req.Hidden,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, contact)
}

// DeleteContact handles DELETE /escalation/contacts/{id} request.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteContact(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveContact handles POST /escalation/contacts/{id}/move request.
func (h *Handler) MoveContact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}

	var req MoveContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if err := h.service.MoveContact(r.Context(), id, req.Direction == "up"); err != nil {
		h.handleServiceError(w, err)
		return
	}

	contacts, err := h.service.ListContacts(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, contacts)
}

func (h *Handler) contactID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "contact id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrContactNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAtEdge):
		httputil.Error(w, http.StatusConflict, err.Error())
	default:
		slog.Error("internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
	}
}
