// Package auth is the mock learner account and enrollment service. Any non-empty email and
// password signs in: the first login registers the learner, later logins must repeat the
// same password.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/introto/internal/model"
	"github.com/pavelanni/introto/internal/store"
)

// ErrInvalidCredentials is returned for a malformed login or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service signs learners in and out and manages their enrollments.
type Service struct {
	store    *store.Store
	validate *validator.Validate
	cost     int
}

// New creates a Service backed by the given store.
func New(s *store.Store) *Service {
	return &Service{store: s, validate: validator.New(), cost: bcrypt.DefaultCost}
}

// Login authenticates the learner, registering them on first use, and returns a session token.
func (s *Service) Login(ctx context.Context, creds Credentials) (string, *model.Learner, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if err := s.validate.Struct(creds); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	learner, err := s.store.GetLearnerByEmail(ctx, creds.Email)
	if err != nil {
		return "", nil, fmt.Errorf("get learner: %w", err)
	}
	registered := false
	if learner == nil {
		learner, registered, err = s.register(ctx, creds)
		if err != nil {
			return "", nil, err
		}
	}
	// A concurrent first login may have registered the email first.
	if !registered {
		if err := bcrypt.CompareHashAndPassword([]byte(learner.PasswordHash), []byte(creds.Password)); err != nil {
			return "", nil, ErrInvalidCredentials
		}
	}

	token, err := s.store.CreateAuthSession(ctx, learner.ID)
	if err != nil {
		return "", nil, fmt.Errorf("create auth session: %w", err)
	}
	return token, learner, nil
}

// register creates the learner for creds. When the email was registered in the meantime it
// returns the existing learner and false.
func (s *Service) register(ctx context.Context, creds Credentials) (*model.Learner, bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	name, _, _ := strings.Cut(creds.Email, "@")
	l := model.Learner{
		ID:           uuid.NewString(),
		Email:        creds.Email,
		Name:         name,
		PasswordHash: string(hash),
	}
	created, err := s.store.CreateLearner(ctx, l)
	if err != nil {
		return nil, false, fmt.Errorf("create learner: %w", err)
	}
	stored, err := s.store.GetLearnerByEmail(ctx, creds.Email)
	if err != nil {
		return nil, false, fmt.Errorf("get learner: %w", err)
	}
	if stored == nil {
		return nil, false, fmt.Errorf("get learner: %s vanished after insert", creds.Email)
	}
	return stored, created, nil
}

// Logout ends the session identified by token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteAuthSession(ctx, token)
}

// Authenticate returns the learner for a session token, or nil if the token is unknown or expired.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Learner, error) {
	if token == "" {
		return nil, nil
	}
	sess, err := s.store.GetAuthSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get auth session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}
	return s.store.GetLearnerByID(ctx, sess.LearnerID)
}

// Enroll gives the learner access to a course. Payment is not collected.
func (s *Service) Enroll(ctx context.Context, learnerID string, courseID int64) error {
	if err := s.store.Enroll(ctx, learnerID, courseID); err != nil {
		return fmt.Errorf("enroll: %w", err)
	}
	return nil
}

// IsEnrolled reports whether the learner may enter the course player.
func (s *Service) IsEnrolled(ctx context.Context, learnerID string, courseID int64) (bool, error) {
	return s.store.IsEnrolled(ctx, learnerID, courseID)
}

// EnrolledCourses returns the IDs of the learner's courses in enrollment order.
func (s *Service) EnrolledCourses(ctx context.Context, learnerID string) ([]int64, error) {
	enrollments, err := s.store.ListEnrollments(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}
	return ids, nil
}
