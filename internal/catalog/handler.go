package catalog

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

// Handler handles HTTP requests for the catalog module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new catalog handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers the read-only catalog routes.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/services", h.ListServices)
	r.Get("/services/{id}", h.GetService)
}

// RegisterAdminRoutes registers the mutating catalog routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/services", h.CreateService)
	r.Patch("/services/{id}", h.RenameService)
	r.Delete("/services/{id}", h.DeleteService)
}

// ServiceRequest represents the request body for creating or renaming a
// service.
type ServiceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// CreateService handles POST /services request.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	service, err := h.service.CreateService(r.Context(), req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, service)
}

// GetService handles GET /services/{id} request.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.serviceID(w, r)
	if !ok {
		return
	}

	service, err := h.service.GetService(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, service)
}

// ListServices handles GET /services request.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, services)
}

// RenameService handles PATCH /services/{id} request.
func (h *Handler) RenameService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.serviceID(w, r)
	if !ok {
		return
	}

	var req ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	service, err := h.service.RenameService(r.Context(), id, req.Name)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, service)
}

// DeleteService handles DELETE /services/{id} request. The force query
// parameter detaches the service from its events first.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := h.serviceID(w, r)
	if !ok {
		return
	}

	force := r.URL.Query().Get("force") == "true"

	if err := h.service.DeleteService(r.Context(), id, force); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) serviceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "service id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNameExists), errors.Is(err, ErrServiceHasEvents):
		httputil.Error(w, http.StatusConflict, err.Error())
	default:
		slog.Error("internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
	}
}
