package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pavelanni/introto/internal/certificate"
	appI18n "github.com/pavelanni/introto/internal/i18n"
	"github.com/pavelanni/introto/internal/metrics"
	"github.com/pavelanni/introto/internal/model"
	"github.com/pavelanni/introto/internal/progress"
)

type moduleStatus struct {
	moduleOutline
	Unlocked bool                  `json:"unlocked"`
	Progress *model.ModuleProgress `json:"progress,omitempty"`
}

type progressResponse struct {
	CourseID          int64                 `json:"course_id"`
	Title             string                `json:"title"`
	Modules           []moduleStatus        `json:"modules"`
	Progress          model.CourseProgress  `json:"progress"`
	Percent           int                   `json:"percent"`
	State             model.CompletionState `json:"state"`
	FeedbackSubmitted bool                  `json:"feedback_submitted"`
	CertificateID     string                `json:"certificate_id,omitempty"`
}

type contentView struct {
	Type     model.ContentKind `json:"type"`
	URL      string            `json:"url"`
	Duration string            `json:"duration,omitempty"`
}

func newContentView(c model.Content) contentView {
	v := contentView{Type: c.Kind(), URL: c.URL()}
	v.Duration, _ = model.ContentDuration(c)
	return v
}

type moduleResponse struct {
	ID          int64                 `json:"id"`
	Position    int                   `json:"position"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Content     contentView           `json:"content"`
	Questions   []model.Question      `json:"questions"`
	Progress    *model.ModuleProgress `json:"progress,omitempty"`
}

type quizRequest struct {
	Answers []int `json:"answers" validate:"required"`
}

type quizResponse struct {
	Module   model.ModuleProgress  `json:"module"`
	Progress model.CourseProgress  `json:"progress"`
	Percent  int                   `json:"percent"`
	State    model.CompletionState `json:"state"`
}

type feedbackRequest struct {
	Text string `json:"text" validate:"max=10000"`
}

func (h *Handler) buildProgress(ctx context.Context, sess *progress.Session) (progressResponse, error) {
	course := sess.Course()
	resp := progressResponse{
		CourseID: course.ID,
		Title:    course.Title,
		Modules:  make([]moduleStatus, 0, len(course.Modules)),
	}
	for _, m := range course.Modules {
		unlocked, err := sess.CanAccess(m.ID)
		if err != nil {
			return progressResponse{}, err
		}
		st := moduleStatus{moduleOutline: newModuleOutline(m), Unlocked: unlocked}
		if mp, ok, err := sess.ModuleProgress(m.ID); err != nil {
			return progressResponse{}, err
		} else if ok {
			st.Progress = &mp
		}
		resp.Modules = append(resp.Modules, st)
	}
	resp.Progress = sess.CourseProgress()
	resp.Percent = resp.Progress.RoundedPercentage()
	resp.State = sess.State()
	_, resp.FeedbackSubmitted = sess.Feedback()

	cert, err := h.issuer.Find(ctx, sess.LearnerID(), course.ID)
	if err != nil {
		return progressResponse{}, err
	}
	if cert != nil {
		resp.CertificateID = cert.ID
	}
	return resp, nil
}

func (h *Handler) handleCourseProgress(w http.ResponseWriter, r *http.Request) {
	resp, err := h.buildProgress(r.Context(), h.openSession(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReset discards the learner's progress in the course and starts over.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	learner := model.LearnerFromContext(r.Context())
	course := courseFromContext(r.Context())
	if _, ok := h.tracker.Lookup(learner.ID, course.ID); ok {
		h.tracker.Reset(learner.ID, course.ID)
		slog.Info("course progress reset", "learner_id", learner.ID, "course_id", course.ID)
	}

	resp, err := h.buildProgress(r.Context(), h.tracker.Open(learner.ID, course))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleModule(w http.ResponseWriter, r *http.Request) {
	sess := h.openSession(r)
	moduleID, err := idParam(r, "moduleID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := sess.CanAccess(moduleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, progress.ErrModuleLocked)
		return
	}

	m, _, _ := sess.Course().Module(moduleID)
	resp := moduleResponse{
		ID:          m.ID,
		Position:    m.SequencePosition,
		Title:       m.Title,
		Description: m.Description,
		Content:     newContentView(m.Content),
		Questions:   m.Quiz.Questions,
	}
	if mp, ok, err := sess.ModuleProgress(moduleID); err != nil {
		writeError(w, r, err)
		return
	} else if ok {
		resp.Progress = &mp
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	sess := h.openSession(r)
	courseLabel := metrics.CourseLabel(sess.Course().ID)
	moduleID, err := idParam(r, "moduleID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req quizRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	mp, err := sess.SubmitQuiz(moduleID, req.Answers)
	switch {
	case errors.Is(err, progress.ErrAnswerCount):
		h.metrics.QuizSubmissions.WithLabelValues(courseLabel, "rejected").Inc()
		m, _, _ := sess.Course().Module(moduleID)
		writeMessage(w, http.StatusUnprocessableEntity,
			appI18n.Tp(r.Context(), "AnswerCount", len(m.Quiz.Questions)))
		return
	case errors.Is(err, progress.ErrModuleLocked):
		h.metrics.QuizSubmissions.WithLabelValues(courseLabel, "locked").Inc()
		writeError(w, r, err)
		return
	case err != nil:
		writeError(w, r, err)
		return
	}

	h.metrics.QuizSubmissions.WithLabelValues(courseLabel, "graded").Inc()
	h.metrics.QuizScores.WithLabelValues(courseLabel).Observe(float64(mp.Score))
	cp := sess.CourseProgress()
	slog.Info("quiz graded", "learner_id", sess.LearnerID(), "course_id", sess.Course().ID,
		"module_id", moduleID, "score", mp.Score, "completed", cp.CompletedCount)
	writeJSON(w, http.StatusOK, quizResponse{
		Module:   mp,
		Progress: cp,
		Percent:  cp.RoundedPercentage(),
		State:    sess.State(),
	})
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	sess := h.openSession(r)
	var req feedbackRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	first, err := sess.SubmitFeedback(req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if first {
		h.metrics.CourseCompletions.WithLabelValues(metrics.CourseLabel(sess.Course().ID)).Inc()
		slog.Info("course completed", "learner_id", sess.LearnerID(), "course_id", sess.Course().ID)
	}

	resp, err := h.buildProgress(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCertificate(w http.ResponseWriter, r *http.Request) {
	sess := h.openSession(r)
	learner := model.LearnerFromContext(r.Context())

	cert, err := h.issuer.Issue(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.metrics.CertificatesIssued.WithLabelValues(metrics.CourseLabel(cert.CourseID)).Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="certificate-`+cert.ID+`.html"`)
	doc := certificate.Document(cert, sess.Course(), *learner, sess.CourseProgress().CompletedCount)
	if err := doc.Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}
