package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	sessions := 3
	m.TrackSessions(func() int { return sessions })

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/courses/{courseID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/courses/7", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	m.QuizSubmissions.WithLabelValues(CourseLabel(7), "graded").Inc()

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`introto_http_requests_total{method="GET",route="/api/courses/{courseID}",status="404"} 1`,
		`introto_quiz_submissions_total{course_id="7",outcome="graded"} 1`,
		`introto_active_course_sessions 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
