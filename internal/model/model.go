package model

import (
	"context"
	"math"
	"time"
)

// Learner represents a registered learner.
type Learner struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	LearnerID string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Enrollment records that a learner has bought access to a course.
type Enrollment struct {
	LearnerID  string
	CourseID   int64
	EnrolledAt time.Time
}

// Certificate is issued once per learner and course after the course is completed.
type Certificate struct {
	ID        string    `json:"id"`
	LearnerID string    `json:"learner_id"`
	CourseID  int64     `json:"course_id"`
	IssuedAt  time.Time `json:"issued_at"`
}

type learnerCtxKey struct{}

// ContextWithLearner stores a learner in the request context.
func ContextWithLearner(ctx context.Context, l *Learner) context.Context {
	return context.WithValue(ctx, learnerCtxKey{}, l)
}

// LearnerFromContext retrieves the authenticated learner from context, or nil.
func LearnerFromContext(ctx context.Context) *Learner {
	l, _ := ctx.Value(learnerCtxKey{}).(*Learner)
	return l
}

// CompletionState is the position of a course session in its lifecycle.
type CompletionState string

const (
	StateInProgress     CompletionState = "in_progress"
	StateAllModulesDone CompletionState = "all_modules_done"
	StateCompleted      CompletionState = "completed"
)

// ModuleProgress is the learner's attempt record for a single module.
type ModuleProgress struct {
	Completed     bool      `json:"completed"`
	QuizSubmitted bool      `json:"quiz_submitted"`
	Answers       []int     `json:"answers"`
	Score         int       `json:"score"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// CourseProgress is derived from the module progress map on every read.
type CourseProgress struct {
	CompletedCount int     `json:"completed_count"`
	TotalModules   int     `json:"total_modules"`
	Percentage     float64 `json:"percentage"`
}

// RoundedPercentage is the percentage for display.
func (p CourseProgress) RoundedPercentage() int {
	return int(math.Round(p.Percentage))
}

// AllModulesDone reports whether every module has been completed.
func (p CourseProgress) AllModulesDone() bool {
	return p.TotalModules > 0 && p.CompletedCount == p.TotalModules
}

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	Lang          string
	SecureCookies bool
	LoginRate     float64 // login attempts per second per client IP
	LoginBurst    int
}
