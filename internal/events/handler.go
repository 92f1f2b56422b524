package events

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/statusdash/statusdash/internal/domain"
	"github.com/statusdash/statusdash/internal/pkg/httputil"
)

// Pagination constants.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Handler handles HTTP requests for the events module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new events handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers the read-only event routes.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/events", h.ListEvents)
	r.Get("/events/{id}", h.GetEvent)
	r.Get("/search", h.Search)
}

// RegisterAdminRoutes registers the mutating event routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/events", h.CreateEvent)
	r.Patch("/events/{id}", h.UpdateEvent)
	r.Delete("/events/{id}", h.DeleteEvent)
	r.Post("/events/{id}/updates", h.AddUpdate)
	r.Delete("/events/{id}/updates/{updateID}", h.DeleteUpdate)
}

// CreateEventRequest represents the request body for creating an event.
type CreateEventRequest struct {
	Type        string     `json:"type" validate:"required,oneof=incident maintenance"`
	Status      string     `json:"status" validate:"required,oneof=open closed planning started completed"`
	Description string     `json:"description" validate:"required,min=1,max=2000"`
	Start       time.Time  `json:"start" validate:"required"`
	End         *time.Time `json:"end"`
	ServiceIDs  []int64    `json:"service_ids"`
	Broadcast   bool       `json:"broadcast"`
}

// UpdateEventRequest represents the request body for editing an event.
// The type is immutable; a null service_ids leaves associations as they
// are.
type UpdateEventRequest struct {
	Status      string     `json:"status" validate:"required,oneof=open closed planning started completed"`
	Description string     `json:"description" validate:"required,min=1,max=2000"`
	Start       time.Time  `json:"start" validate:"required"`
	End         *time.Time `json:"end"`
	ServiceIDs  *[]int64   `json:"service_ids"`
	Broadcast   bool       `json:"broadcast"`
}

// AddUpdateRequest represents the request body for appending a progress
// note.
type AddUpdateRequest struct {
	Text      string     `json:"text" validate:"required,min=1,max=2000"`
	Date      *time.Time `json:"date"`
	Broadcast bool       `json:"broadcast"`
}

// CreateEvent handles POST /events request.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	input := CreateEventInput{
		Type:        domain.EventType(req.Type),
		Status:      domain.EventStatus(req.Status),
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		ServiceIDs:  req.ServiceIDs,
		Broadcast:   req.Broadcast,
	}

	event, err := h.service.CreateEvent(r.Context(), input, httputil.GetUserID(r.Context()))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, event)
}

// GetEvent handles GET /events/{id} request.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetEventDetail(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, detail)
}

// ListEvents handles GET /events request.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filters, ok := h.parseFilters(w, r)
	if !ok {
		return
	}

	eventsList, total, err := h.service.ListEvents(r.Context(), filters)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]interface{}{
		"events": eventsList,
		"total":  total,
		"limit":  filters.Limit,
		"offset": filters.Offset,
	})
}

// Search handles GET /search request. Same shape as ListEvents; kept as
// a separate route for the admin search box.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	h.ListEvents(w, r)
}

// UpdateEvent handles PATCH /events/{id} request.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	input := UpdateEventInput{
		Status:      domain.EventStatus(req.Status),
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		ServiceIDs:  req.ServiceIDs,
		Broadcast:   req.Broadcast,
	}

	event, err := h.service.UpdateEvent(r.Context(), id, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{id} request.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddUpdate handles POST /events/{id}/updates request.
func (h *Handler) AddUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	var req AddUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	input := AddUpdateInput{
		Text:      req.Text,
		Date:      req.Date,
		Broadcast: req.Broadcast,
	}

	update, err := h.service.AddUpdate(r.Context(), id, input, httputil.GetUserID(r.Context()))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, update)
}

// DeleteUpdate handles DELETE /events/{id}/updates/{updateID} request.
func (h *Handler) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	updateID, err := strconv.ParseInt(chi.URLParam(r, "updateID"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "update id must be an integer")
		return
	}

	if err := h.service.DeleteUpdate(r.Context(), id, updateID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "event id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) parseFilters(w http.ResponseWriter, r *http.Request) (EventFilters, bool) {
	filters := EventFilters{
		Limit: DefaultListLimit,
		Query: r.URL.Query().Get("q"),
	}

	if t := r.URL.Query().Get("type"); t != "" {
		et := domain.EventType(t)
		if !et.IsValid() {
			httputil.Error(w, http.StatusBadRequest, "invalid event type")
			return filters, false
		}
		filters.Type = &et
	}

	if s := r.URL.Query().Get("status"); s != "" {
		es := domain.EventStatus(s)
		filters.Status = &es
	}

	if f := r.URL.Query().Get("from"); f != "" {
		parsed, err := time.Parse("2006-01-02", f)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "from must be a YYYY-MM-DD date")
			return filters, false
		}
		filters.From = &parsed
	}

	if t := r.URL.Query().Get("to"); t != "" {
		parsed, err := time.Parse("2006-01-02", t)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "to must be a YYYY-MM-DD date")
			return filters, false
		}
		end := parsed.Add(24*time.Hour - time.Second)
		filters.To = &end
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return filters, false
		}
		if parsed > MaxListLimit {
			parsed = MaxListLimit
		}
		filters.Limit = parsed
	}

	if o := r.URL.Query().Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			httputil.Error(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return filters, false
		}
		filters.Offset = parsed
	}

	return filters, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrUpdateNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		httputil.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrStartRequired),
		errors.Is(err, ErrEndRequired),
		errors.Is(err, ErrEndNotAllowed),
		errors.Is(err, ErrEndBeforeStart),
		errors.Is(err, ErrUnknownService):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
	}
}
