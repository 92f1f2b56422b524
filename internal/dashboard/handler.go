package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/statusdash/statusdash/internal/domain"
	"github.com/statusdash/statusdash/internal/pkg/httputil"
)

// MessagesProvider supplies the dashboard banner texts. Implemented by
// the settings service.
type MessagesProvider interface {
	Messages(ctx context.Context) (domain.MessagesSettings, error)
}

// Handler handles HTTP requests for the public dashboard.
type Handler struct {
	service  *Service
	messages MessagesProvider
}

// NewHandler creates a new dashboard handler.
func NewHandler(service *Service, messages MessagesProvider) *Handler {
	return &Handler{service: service, messages: messages}
}

// RegisterRoutes registers the public dashboard route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.GetDashboard)
}

// DashboardResponse is the full public dashboard payload.
type DashboardResponse struct {
	Ref       string                  `json:"ref"`
	Previous  string                  `json:"previous"`
	Next      string                  `json:"next"`
	Grid      *Grid                   `json:"grid"`
	Timeline  *Timeline               `json:"timeline"`
	Trend     []TrendPoint            `json:"trend"`
	ShowTrend bool                    `json:"show_trend"`
	Messages  domain.MessagesSettings `json:"messages"`
}

// GetDashboard handles GET /dashboard?ref=YYYY-MM-DD&tz=Area/City.
// ref defaults to today and tz to UTC.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "unknown timezone")
			return
		}
	}

	ref := time.Now().In(loc)
	if raw := r.URL.Query().Get("ref"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "ref must be a YYYY-MM-DD date")
			return
		}
		ref = parsed
	}

	grid, err := h.service.BuildGrid(r.Context(), ref, loc)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	timeline, err := h.service.GetTimeline(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	trend, err := h.service.BuildTrend(r.Context(), ref, loc)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	messages, err := h.messages.Messages(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, DashboardResponse{
		Ref:       ref.Format(dateLayout),
		Previous:  ref.AddDate(0, 0, -gridDays).Format(dateLayout),
		Next:      ref.AddDate(0, 0, gridDays).Format(dateLayout),
		Grid:      grid,
		Timeline:  timeline,
		Trend:     trend.Points,
		ShowTrend: trend.Show,
		Messages:  messages,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	slog.Error("dashboard build failed", "error", err)
	httputil.Error(w, http.StatusInternalServerError, "internal error")
}
