package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pavelanni/introto/internal/model"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database that is discarded on Close.
const MemoryDSN = ":memory:"

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	dsn := dbPath
	if dbPath != MemoryDSN {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == MemoryDSN {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS learners (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		learner_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (learner_id) REFERENCES learners(id)
	);

	CREATE TABLE IF NOT EXISTS enrollments (
		learner_id TEXT NOT NULL,
		course_id INTEGER NOT NULL,
		enrolled_at DATETIME NOT NULL,
		PRIMARY KEY (learner_id, course_id),
		FOREIGN KEY (learner_id) REFERENCES learners(id)
	);

	CREATE TABLE IF NOT EXISTS certificates (
		id TEXT PRIMARY KEY,
		learner_id TEXT NOT NULL,
		course_id INTEGER NOT NULL,
		issued_at DATETIME NOT NULL,
		UNIQUE (learner_id, course_id),
		FOREIGN KEY (learner_id) REFERENCES learners(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Enroll records an enrollment. Enrolling twice keeps the first enrollment.
func (s *Store) Enroll(ctx context.Context, learnerID string, courseID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO enrollments (learner_id, course_id, enrolled_at) VALUES (?, ?, ?)
		 ON CONFLICT(learner_id, course_id) DO NOTHING`,
		learnerID, courseID, time.Now(),
	)
	return err
}

// IsEnrolled reports whether the learner is enrolled in the course.
func (s *Store) IsEnrolled(ctx context.Context, learnerID string, courseID int64) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE learner_id = ? AND course_id = ?`, learnerID, courseID,
	).Scan(&count)
	return count > 0, err
}

// ListEnrollments returns a learner's enrollments in the order they were made.
func (s *Store) ListEnrollments(ctx context.Context, learnerID string) ([]model.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT learner_id, course_id, enrolled_at FROM enrollments WHERE learner_id = ? ORDER BY rowid`,
		learnerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.LearnerID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// CreateCertificate stores a certificate unless one already exists for the learner and
// course. It returns the stored certificate either way.
func (s *Store) CreateCertificate(ctx context.Context, cert model.Certificate) (model.Certificate, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Certificate{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO certificates (id, learner_id, course_id, issued_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(learner_id, course_id) DO NOTHING`,
		cert.ID, cert.LearnerID, cert.CourseID, cert.IssuedAt,
	)
	if err != nil {
		return model.Certificate{}, err
	}

	var stored model.Certificate
	err = tx.QueryRowContext(ctx,
		`SELECT id, learner_id, course_id, issued_at FROM certificates WHERE learner_id = ? AND course_id = ?`,
		cert.LearnerID, cert.CourseID,
	).Scan(&stored.ID, &stored.LearnerID, &stored.CourseID, &stored.IssuedAt)
	if err != nil {
		return model.Certificate{}, err
	}
	return stored, tx.Commit()
}

// GetCertificate returns the certificate for a learner and course, or nil if none was issued.
func (s *Store) GetCertificate(ctx context.Context, learnerID string, courseID int64) (*model.Certificate, error) {
	var c model.Certificate
	err := s.db.QueryRowContext(ctx,
		`SELECT id, learner_id, course_id, issued_at FROM certificates WHERE learner_id = ? AND course_id = ?`,
		learnerID, courseID,
	).Scan(&c.ID, &c.LearnerID, &c.CourseID, &c.IssuedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
