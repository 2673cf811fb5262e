package progress

import (
	"log/slog"
	"sync"

	"github.com/pavelanni/introto/internal/model"
)

type sessionKey struct {
	learnerID string
	courseID  int64
}

// Tracker keeps one Session per learner and course for the lifetime of the process.
type Tracker struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{sessions: make(map[sessionKey]*Session)}
}

// Open returns the learner's session for the course, starting a new one on first use.
func (t *Tracker) Open(learnerID string, course model.Course) *Session {
	key := sessionKey{learnerID: learnerID, courseID: course.ID}

	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.sessions[key]; ok {
		return s
	}
	s := NewSession(learnerID, course)
	t.sessions[key] = s
	slog.Debug("started course session", "learner_id", learnerID, "course_id", course.ID)
	return s
}

// Lookup returns an existing session without creating one.
func (t *Tracker) Lookup(learnerID string, courseID int64) (*Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[sessionKey{learnerID: learnerID, courseID: courseID}]
	return s, ok
}

// Reset discards the learner's session for the course.
func (t *Tracker) Reset(learnerID string, courseID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, sessionKey{learnerID: learnerID, courseID: courseID})
}

// Len returns the number of live sessions.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
