package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pavelanni/introto/internal/model"
)

// CreateLearner inserts a new learner. CreatedAt is set by the store. It reports false
// without error when a learner with the same email already exists.
func (s *Store) CreateLearner(ctx context.Context, l model.Learner) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO learners (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO NOTHING`,
		l.ID, l.Email, l.Name, l.PasswordHash, time.Now(),
	)
	if err != nil {
		slog.Error("failed to create learner", "email", l.Email, "error", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	slog.Info("created learner", "id", l.ID, "email", l.Email)
	return true, nil
}

// GetLearnerByEmail returns a learner by email, or nil if there is none.
func (s *Store) GetLearnerByEmail(ctx context.Context, email string) (*model.Learner, error) {
	var l model.Learner
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM learners WHERE email = ?`, email,
	).Scan(&l.ID, &l.Email, &l.Name, &l.PasswordHash, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLearnerByID returns a learner by ID, or nil if there is none.
func (s *Store) GetLearnerByID(ctx context.Context, id string) (*model.Learner, error) {
	var l model.Learner
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM learners WHERE id = ?`, id,
	).Scan(&l.ID, &l.Email, &l.Name, &l.PasswordHash, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// LearnerCount returns the total number of learners.
func (s *Store) LearnerCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM learners`).Scan(&count)
	return count, err
}
