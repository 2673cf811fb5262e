package handler

import (
	"log/slog"
	"net/http"

	"github.com/pavelanni/introto/internal/metrics"
	"github.com/pavelanni/introto/internal/model"
)

type courseSummary struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Category    string        `json:"category"`
	Segment     model.Segment `json:"segment"`
	Duration    string        `json:"duration"`
	Level       string        `json:"level"`
	Price       int           `json:"price"`
	Rating      float64       `json:"rating"`
	Description string        `json:"description"`
	ModuleCount int           `json:"module_count"`
}

type moduleOutline struct {
	ID          int64             `json:"id"`
	Position    int               `json:"position"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	ContentType model.ContentKind `json:"content_type"`
	Duration    string            `json:"duration,omitempty"`
}

type courseDetail struct {
	courseSummary
	LearningOutcomes []string         `json:"learning_outcomes"`
	Instructor       model.Instructor `json:"instructor"`
	Modules          []moduleOutline  `json:"modules"`
}

func newCourseSummary(c model.Course) courseSummary {
	return courseSummary{
		ID:          c.ID,
		Title:       c.Title,
		Category:    c.Category,
		Segment:     c.Segment,
		Duration:    c.Duration,
		Level:       c.Level,
		Price:       c.Price,
		Rating:      c.Rating,
		Description: c.Description,
		ModuleCount: len(c.Modules),
	}
}

func newModuleOutline(m model.Module) moduleOutline {
	o := moduleOutline{
		ID:          m.ID,
		Position:    m.SequencePosition,
		Title:       m.Title,
		Description: m.Description,
		ContentType: m.Content.Kind(),
	}
	o.Duration, _ = model.ContentDuration(m.Content)
	return o
}

func (h *Handler) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses := h.catalog.List()
	out := make([]courseSummary, 0, len(courses))
	for _, c := range courses {
		out = append(out, newCourseSummary(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail := courseDetail{
		courseSummary:    newCourseSummary(course),
		LearningOutcomes: course.LearningOutcomes,
		Instructor:       course.Instructor,
		Modules:          make([]moduleOutline, 0, len(course.Modules)),
	}
	for _, m := range course.Modules {
		detail.Modules = append(detail.Modules, newModuleOutline(m))
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleEnroll stands in for checkout: a learner is enrolled as soon as they ask.
func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	learner := model.LearnerFromContext(r.Context())
	if err := h.auth.Enroll(r.Context(), learner.ID, course.ID); err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.Enrollments.WithLabelValues(metrics.CourseLabel(course.ID)).Inc()
	slog.Info("learner enrolled", "learner_id", learner.ID, "course_id", course.ID)
	writeJSON(w, http.StatusOK, newCourseSummary(course))
}
