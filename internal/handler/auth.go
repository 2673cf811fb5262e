package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pavelanni/introto/internal/auth"
	appI18n "github.com/pavelanni/introto/internal/i18n"
	"github.com/pavelanni/introto/internal/model"
	"github.com/pavelanni/introto/internal/progress"
)

const sessionCookieName = "session"

type learnerView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newLearnerView(l *model.Learner) learnerView {
	return learnerView{ID: l.ID, Email: l.Email, Name: l.Name}
}

// requireAuth is middleware that checks for a valid session cookie.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			h.unauthorized(w, r)
			return
		}

		learner, err := h.auth.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			slog.Error("failed to authenticate", "error", err)
			h.unauthorized(w, r)
			return
		}
		if learner == nil {
			h.unauthorized(w, r)
			return
		}

		ctx := model.ContextWithLearner(r.Context(), learner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type courseCtxKey struct{}

// requireEnrollment resolves the course in the path, checks that the learner is enrolled in
// it and attaches the course to the context.
func (h *Handler) requireEnrollment(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		course, err := h.courseFromPath(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		learner := model.LearnerFromContext(r.Context())
		ok, err := h.auth.IsEnrolled(r.Context(), learner.ID, course.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !ok {
			writeMessage(w, http.StatusForbidden, appI18n.T(r.Context(), "NotEnrolled"))
			return
		}

		ctx := context.WithValue(r.Context(), courseCtxKey{}, course)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func courseFromContext(ctx context.Context) model.Course {
	course, _ := ctx.Value(courseCtxKey{}).(model.Course)
	return course
}

// openSession returns the learner's progress session for the enrolled course.
func (h *Handler) openSession(r *http.Request) *progress.Session {
	learner := model.LearnerFromContext(r.Context())
	return h.tracker.Open(learner.ID, courseFromContext(r.Context()))
}

func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusUnauthorized, appI18n.T(r.Context(), "Unauthorized"))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if !h.decodeJSON(w, r, &creds) {
		return
	}

	token, learner, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.config.SecureCookies,
	})
	slog.Info("learner signed in", "learner_id", learner.ID)
	writeJSON(w, http.StatusOK, newLearnerView(learner))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			slog.Error("failed to delete auth session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
	})
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	Learner   learnerView `json:"learner"`
	CourseIDs []int64     `json:"enrolled_course_ids"`
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	learner := model.LearnerFromContext(r.Context())
	ids, err := h.auth.EnrolledCourses(r.Context(), learner.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, meResponse{Learner: newLearnerView(learner), CourseIDs: ids})
}
