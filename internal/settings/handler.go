package settings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/statusdash/statusdash/internal/domain"
	"github.com/statusdash/statusdash/internal/pkg/httputil"
)

// Handler handles HTTP requests for the settings module. All routes are
// admin-only.
type Handler struct {
	service *Service
}

// NewHandler creates a new settings handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes registers the settings routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/messages", h.GetMessages)
		r.Put("/messages", h.PutMessages)
		r.Get("/logo", h.GetLogo)
		r.Put("/logo", h.PutLogo)
		r.Get("/systemurl", h.GetSystemURL)
		r.Put("/systemurl", h.PutSystemURL)
		r.Get("/email", h.GetEmail)
		r.Put("/email", h.PutEmail)
		r.Get("/escalation", h.GetEscalation)
		r.Put("/escalation", h.PutEscalation)
		r.Get("/report", h.GetReport)
		r.Put("/report", h.PutReport)
	})
}

// GetMessages handles GET /settings/messages request.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Messages(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, m)
}

// PutMessages handles PUT /settings/messages request.
func (h *Handler) PutMessages(w http.ResponseWriter, r *http.Request) {
	var req domain.MessagesSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.service.SaveMessages(r.Context(), req); err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, req)
}

// GetLogo handles GET /settings/logo request.
func (h *Handler) GetLogo(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Logo(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, l)
}

// PutLogo handles PUT /settings/logo request.
func (h *Handler) PutLogo(w http.ResponseWriter, r *http.Request) {
	var req domain.LogoSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.service.SaveLogo(r.Context(), req); err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, req)
}

// GetSystemURL handles GET /settings/systemurl request.
func (h *Handler) GetSystemURL(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.SystemURL(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, u)
}

// PutSystemURL handles PUT /settings/systemurl request.
func (h *Handler) PutSystemURL(w http.ResponseWriter, r *http.Request) {
	var req domain.SystemURLSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.service.SaveSystemURL(r.Context(), req); err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, req)
}

// GetEmail handles GET /settings/email request.
func (h *Handler) GetEmail(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Email(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, e)
}

// PutEmail handles PUT /settings/email request.
func (h *Handler) PutEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.EmailSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.service.SaveEmail(r.Context(), req); err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, req)
}

// GetEscalation handles GET /settings/escalation request.
func (h *Handler) GetEscalation(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Escalation(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, e)
}

// PutEscalation handles PUT /settings/escalation request.
func (h *Handler) PutEscalation(w http.ResponseWriter, r *http.Request) {
	var req domain.EscalationSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.service.SaveEscalation(r.Context(), req); err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, req)
}

// GetReport handles GET /settings/report request.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rs, err := h.service.Report(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, rs)
}

// PutReport handles PUT /settings/report request.
func (h *Handler) PutReport(w http.ResponseWriter, r *http.Request) {
	var req domain.ReportSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.service.SaveReport(r.Context(), req); err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.Success(w, http.StatusOK, req)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	slog.Error("internal error", "error", err)
	httputil.Error(w, http.StatusInternalServerError, "internal error")
}
