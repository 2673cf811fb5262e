// Package certificate issues course completion certificates and renders them as HTML.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/introto/internal/model"
	"github.com/pavelanni/introto/internal/progress"
	"github.com/pavelanni/introto/internal/store"
)

const dateLayout = "2006-01-02"

// ErrCertificateLocked is returned when the course session is not completed.
var ErrCertificateLocked = errors.New("certificate is locked until the course is completed")

// Issuer records certificates for completed course sessions.
type Issuer struct {
	store *store.Store
	now   func() time.Time
}

// New creates an Issuer backed by the given store.
func New(s *store.Store) *Issuer {
	return &Issuer{store: s, now: time.Now}
}

// Issue returns the learner's certificate for the session's course, creating it the first
// time. The session must be in the completed state.
func (i *Issuer) Issue(ctx context.Context, sess *progress.Session) (model.Certificate, error) {
	if !sess.IsCourseCompleted() {
		return model.Certificate{}, ErrCertificateLocked
	}
	cert, err := i.store.CreateCertificate(ctx, model.Certificate{
		ID:        uuid.NewString(),
		LearnerID: sess.LearnerID(),
		CourseID:  sess.Course().ID,
		IssuedAt:  i.now().UTC(),
	})
	if err != nil {
		return model.Certificate{}, fmt.Errorf("create certificate: %w", err)
	}
	slog.Info("issued certificate", "id", cert.ID, "learner_id", cert.LearnerID, "course_id", cert.CourseID)
	return cert, nil
}

// Find returns the learner's certificate for a course, or nil if none was issued yet.
func (i *Issuer) Find(ctx context.Context, learnerID string, courseID int64) (*model.Certificate, error) {
	cert, err := i.store.GetCertificate(ctx, learnerID, courseID)
	if err != nil {
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return cert, nil
}
