package reports

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/statusdash/statusdash/internal/pkg/httputil"
)

// Pagination and upload parsing limits.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100

	// maxUploadBytes caps how much of an uploaded file the handler
	// reads. The per-installation size limit is enforced in Submit.
	maxUploadBytes = 20 << 20
)

// Handler handles HTTP requests for the reports module.
type Handler struct {
	service   *Service
	limiter   *RateLimiter
	validator *validator.Validate
}

// NewHandler creates a new reports handler.
func NewHandler(service *Service, limiter *RateLimiter) *Handler {
	return &Handler{
		service:   service,
		limiter:   limiter,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers the report intake route.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.limiter != nil {
			r.Use(h.limiter.Middleware)
		}
		r.Post("/report", h.Submit)
	})
}

// RegisterAdminRoutes registers the report review routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/reports", h.ListReports)
	r.Get("/reports/{id}", h.GetReport)
	r.Delete("/reports/{id}", h.DeleteReport)
}

// SubmitRequest represents the text fields of an intake form.
type SubmitRequest struct {
	Name   string `validate:"required,min=1,max=255"`
	Email  string `validate:"required,email,max=255"`
	Detail string `validate:"required,min=1,max=4000"`
	Extra  string `validate:"max=4000"`
}

// Submit handles POST /report request. The body is a multipart form
// with name, email, detail, extra and optional screenshot1/screenshot2
// file fields.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := SubmitRequest{
		Name:   r.FormValue("name"),
		Email:  r.FormValue("email"),
		Detail: r.FormValue("detail"),
		Extra:  r.FormValue("extra"),
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	var screenshots [][]byte
	for _, field := range []string{"screenshot1", "screenshot2"} {
		data, ok, err := h.readUpload(r, field)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "failed to read "+field)
			return
		}
		if ok {
			screenshots = append(screenshots, data)
		}
	}

	input := SubmitInput{
		Name:        req.Name,
		Email:       req.Email,
		Detail:      req.Detail,
		Extra:       req.Extra,
		Screenshots: screenshots,
	}

	report, err := h.service.Submit(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, report)
}

// readUpload reads one optional file field. The second return value
// reports whether the field was present.
func (h *Handler) readUpload(r *http.Request, field string) ([]byte, bool, error) {
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

// ListReports handles GET /reports request.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > MaxListLimit {
			parsed = MaxListLimit
		}
		limit = parsed
	}

	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			httputil.Error(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		offset = parsed
	}

	reportsList, total, err := h.service.ListReports(r.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]interface{}{
		"reports": reportsList,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetReport handles GET /reports/{id} request.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, report)
}

// DeleteReport handles DELETE /reports/{id} request.
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReport(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) reportID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid report id")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrReportNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrIntakeDisabled):
		httputil.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrUploadsDisabled):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrFileTooLarge):
		httputil.Error(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ErrUnsupportedFile):
		httputil.Error(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		slog.Error("internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
	}
}
