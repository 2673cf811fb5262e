// Package metrics exposes Prometheus counters for learner activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one server.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter     *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	QuizSubmissions    *prometheus.CounterVec
	QuizScores         *prometheus.HistogramVec
	CourseCompletions  *prometheus.CounterVec
	CertificatesIssued *prometheus.CounterVec
	Enrollments        *prometheus.CounterVec
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "introto_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "introto_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		QuizSubmissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "introto_quiz_submissions_total",
				Help: "Quiz submissions by course and outcome",
			},
			[]string{"course_id", "outcome"},
		),
		QuizScores: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "introto_quiz_score_percent",
				Help:    "Graded quiz scores",
				Buckets: []float64{0, 25, 50, 75, 100},
			},
			[]string{"course_id"},
		),
		CourseCompletions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "introto_course_completions_total",
				Help: "Course sessions that reached the completed state",
			},
			[]string{"course_id"},
		),
		CertificatesIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "introto_certificates_downloaded_total",
				Help: "Certificate downloads",
			},
			[]string{"course_id"},
		),
		Enrollments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "introto_enrollments_total",
				Help: "Enrollment requests",
			},
			[]string{"course_id"},
		),
	}
	m.registry.MustRegister(
		m.RequestCounter,
		m.RequestDuration,
		m.QuizSubmissions,
		m.QuizScores,
		m.CourseCompletions,
		m.CertificatesIssued,
		m.Enrollments,
	)
	return m
}

// TrackSessions exports the number of live course sessions reported by count.
func (m *Metrics) TrackSessions(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "introto_active_course_sessions",
			Help: "Course sessions held in memory",
		},
		func() float64 { return float64(count()) },
	))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by route pattern and status.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestCounter.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// CourseLabel formats a course ID for use as a label value.
func CourseLabel(courseID int64) string {
	return strconv.FormatInt(courseID, 10)
}
