// Package progress implements per-learner course progression: the access gate
// between sequential modules, quiz grading, course completion and the
// feedback gate in front of certificate issuance.
package progress

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/pavelanni/introto/internal/model"
)

var (
	// ErrUnknownModule is returned for a module ID that is not part of the course.
	ErrUnknownModule = errors.New("unknown module")
	// ErrAnswerCount is returned when the number of answers differs from the number of questions.
	ErrAnswerCount = errors.New("answer count does not match question count")
	// ErrModuleLocked is returned when a quiz is submitted for a module whose gate is closed.
	ErrModuleLocked = errors.New("module is locked")
	// ErrFeedbackLocked is returned when feedback is submitted before every module is completed.
	ErrFeedbackLocked = errors.New("feedback is locked until all modules are completed")
)

// Session is one learner's progress through one course.
// It is safe for concurrent use.
type Session struct {
	learnerID string
	course    model.Course
	now       func() time.Time

	mu                sync.Mutex
	progress          map[int64]model.ModuleProgress
	feedback          string
	feedbackSubmitted bool
}

// NewSession starts an empty session. The course must come from a validated catalog:
// modules ordered by sequence position, every quiz non-empty.
func NewSession(learnerID string, course model.Course) *Session {
	return &Session{
		learnerID: learnerID,
		course:    course,
		now:       time.Now,
		progress:  make(map[int64]model.ModuleProgress),
	}
}

// LearnerID returns the learner the session belongs to.
func (s *Session) LearnerID() string { return s.learnerID }

// Course returns the course the session tracks.
func (s *Session) Course() model.Course { return s.course }

// CanAccess reports whether the module may be entered. The first module in sequence is
// always open; any other module is open once the module before it is completed.
func (s *Session) CanAccess(moduleID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAccess(moduleID)
}

func (s *Session) canAccess(moduleID int64) (bool, error) {
	_, idx, ok := s.course.Module(moduleID)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownModule, moduleID)
	}
	if idx == 0 {
		return true, nil
	}
	prev := s.course.Modules[idx-1]
	return s.progress[prev.ID].Completed, nil
}

// ModuleProgress returns the progress for a module. The boolean is false when the module
// has not been attempted yet.
func (s *Session) ModuleProgress(moduleID int64) (model.ModuleProgress, bool, error) {
	if _, _, ok := s.course.Module(moduleID); !ok {
		return model.ModuleProgress{}, false, fmt.Errorf("%w: %d", ErrUnknownModule, moduleID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[moduleID]
	if !ok {
		return model.ModuleProgress{}, false, nil
	}
	p.Answers = slices.Clone(p.Answers)
	return p, true, nil
}

// SubmitQuiz grades answers against the module's quiz and replaces the module's progress.
// Any score, including zero, completes the module and opens the next one.
func (s *Session) SubmitQuiz(moduleID int64, answers []int) (model.ModuleProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.canAccess(moduleID)
	if err != nil {
		return model.ModuleProgress{}, err
	}
	if !open {
		return model.ModuleProgress{}, fmt.Errorf("%w: %d", ErrModuleLocked, moduleID)
	}
	module, _, _ := s.course.Module(moduleID)
	questions := module.Quiz.Questions
	if len(answers) != len(questions) {
		return model.ModuleProgress{}, fmt.Errorf("%w: module %d has %d questions, got %d answers",
			ErrAnswerCount, moduleID, len(questions), len(answers))
	}

	p := model.ModuleProgress{
		Completed:     true,
		QuizSubmitted: true,
		Answers:       slices.Clone(answers),
		Score:         Score(questions, answers),
		SubmittedAt:   s.now(),
	}
	s.progress[moduleID] = p

	p.Answers = slices.Clone(p.Answers)
	return p, nil
}

// Score returns the rounded percentage of answers that match the answer key by position.
// Ties round half away from zero. answers must have the same length as questions.
func Score(questions []model.Question, answers []int) int {
	if len(questions) == 0 {
		return 0
	}
	matches := 0
	for i, q := range questions {
		if answers[i] == q.CorrectAnswer {
			matches++
		}
	}
	return int(math.Round(float64(matches) / float64(len(questions)) * 100))
}

// CourseProgress counts completed modules. It is recomputed on every call.
func (s *Session) CourseProgress() model.CourseProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courseProgress()
}

func (s *Session) courseProgress() model.CourseProgress {
	total := len(s.course.Modules)
	completed := 0
	for _, m := range s.course.Modules {
		if s.progress[m.ID].Completed {
			completed++
		}
	}
	var pct float64
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	return model.CourseProgress{
		CompletedCount: completed,
		TotalModules:   total,
		Percentage:     pct,
	}
}

// SubmitFeedback records the learner's course feedback. It is accepted once all modules
// are completed; later submissions are no-ops and keep the first text. It reports whether
// this call recorded the feedback and so completed the course.
func (s *Session) SubmitFeedback(text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feedbackSubmitted {
		return false, nil
	}
	if !s.courseProgress().AllModulesDone() {
		return false, ErrFeedbackLocked
	}
	s.feedback = text
	s.feedbackSubmitted = true
	return true, nil
}

// Feedback returns the recorded feedback text and whether feedback was submitted.
func (s *Session) Feedback() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback, s.feedbackSubmitted
}

// IsCourseCompleted reports whether every module is completed and feedback was submitted.
func (s *Session) IsCourseCompleted() bool {
	return s.State() == model.StateCompleted
}

// State returns the session's position in the completion lifecycle.
func (s *Session) State() model.CompletionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.courseProgress().AllModulesDone() {
		return model.StateInProgress
	}
	if !s.feedbackSubmitted {
		return model.StateAllModulesDone
	}
	return model.StateCompleted
}
