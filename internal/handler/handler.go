// Package handler is the JSON HTTP adapter over the catalog, the progress tracker and the
// learner account services.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pavelanni/introto/internal/auth"
	"github.com/pavelanni/introto/internal/catalog"
	"github.com/pavelanni/introto/internal/certificate"
	appI18n "github.com/pavelanni/introto/internal/i18n"
	"github.com/pavelanni/introto/internal/metrics"
	"github.com/pavelanni/introto/internal/model"
	"github.com/pavelanni/introto/internal/progress"
)

const maxBodyBytes = 1 << 20

var errBadParam = errors.New("bad path parameter")

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	catalog  *catalog.Catalog
	tracker  *progress.Tracker
	auth     *auth.Service
	issuer   *certificate.Issuer
	metrics  *metrics.Metrics
	validate *validator.Validate
	limiter  *ipLimiter
	config   model.AppConfig
}

// New creates a new Handler.
func New(c *catalog.Catalog, t *progress.Tracker, a *auth.Service, i *certificate.Issuer, m *metrics.Metrics, cfg model.AppConfig) *Handler {
	m.TrackSessions(t.Len)
	return &Handler{
		catalog:  c,
		tracker:  t,
		auth:     a,
		issuer:   i,
		metrics:  m,
		validate: validator.New(),
		limiter:  newIPLimiter(cfg.LoginRate, cfg.LoginBurst),
		config:   cfg,
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/courses", h.handleListCourses)
	r.Get("/api/courses/{courseID}", h.handleGetCourse)

	r.With(h.limiter.middleware).Post("/api/auth/login", h.handleLogin)
	r.Post("/api/auth/logout", h.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/api/me", h.handleMe)
		r.Post("/api/courses/{courseID}/enroll", h.handleEnroll)

		r.Route("/api/learn/{courseID}", func(r chi.Router) {
			r.Use(h.requireEnrollment)
			r.Get("/", h.handleCourseProgress)
			r.Post("/reset", h.handleReset)
			r.Get("/modules/{moduleID}", h.handleModule)
			r.Post("/modules/{moduleID}/quiz", h.handleSubmitQuiz)
			r.Post("/feedback", h.handleFeedback)
			r.Get("/certificate", h.handleCertificate)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps a domain error to a status code and a localized message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msgID := http.StatusInternalServerError, "InternalError"
	switch {
	case errors.Is(err, errBadParam):
		status, msgID = http.StatusBadRequest, "BadRequest"
	case errors.Is(err, catalog.ErrCourseNotFound):
		status, msgID = http.StatusNotFound, "CourseNotFound"
	case errors.Is(err, progress.ErrUnknownModule):
		status, msgID = http.StatusNotFound, "ModuleNotFound"
	case errors.Is(err, progress.ErrModuleLocked):
		status, msgID = http.StatusForbidden, "ModuleLocked"
	case errors.Is(err, progress.ErrFeedbackLocked):
		status, msgID = http.StatusForbidden, "FeedbackLocked"
	case errors.Is(err, certificate.ErrCertificateLocked):
		status, msgID = http.StatusForbidden, "CertificateLocked"
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, msgID = http.StatusUnauthorized, "LoginError"
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeMessage(w, status, appI18n.T(r.Context(), msgID))
}

// decodeJSON reads a JSON request body into v and validates it.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		slog.Debug("malformed request body", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusBadRequest, appI18n.T(r.Context(), "BadRequest"))
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		slog.Debug("invalid request body", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusBadRequest, appI18n.T(r.Context(), "BadRequest"))
		return false
	}
	return true
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, errBadParam
	}
	return id, nil
}

func (h *Handler) courseFromPath(r *http.Request) (model.Course, error) {
	id, err := idParam(r, "courseID")
	if err != nil {
		return model.Course{}, err
	}
	return h.catalog.Get(id)
}
