package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/introto/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.New(store.MemoryDSN)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	svc := New(s)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestLoginRegistersOnFirstUse(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	token, learner, err := svc.Login(ctx, Credentials{Email: " Ada@Example.com ", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if learner.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", learner.Email)
	}
	if learner.Name != "ada" {
		t.Errorf("expected name 'ada', got %q", learner.Name)
	}

	got, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got == nil || got.ID != learner.ID {
		t.Fatalf("expected learner %s, got %+v", learner.ID, got)
	}

	// Second login with the same password returns the same learner.
	_, again, err := svc.Login(ctx, Credentials{Email: "ada@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if again.ID != learner.ID {
		t.Errorf("expected same learner, got %s and %s", learner.ID, again.ID)
	}
}

func TestLoginRejects(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, _, err := svc.Login(ctx, Credentials{Email: "ada@example.com", Password: "secret"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	tests := []struct {
		name  string
		creds Credentials
	}{
		{"empty email", Credentials{Password: "secret"}},
		{"empty password", Credentials{Email: "ada@example.com"}},
		{"not an email", Credentials{Email: "ada", Password: "secret"}},
		{"wrong password", Credentials{Email: "ada@example.com", Password: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.creds)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	token, _, err := svc.Login(ctx, Credentials{Email: "ada@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	l, err := svc.Authenticate(ctx, token)
	if err != nil || l != nil {
		t.Errorf("expected nil learner after logout, got %+v, %v", l, err)
	}
	l, err = svc.Authenticate(ctx, "")
	if err != nil || l != nil {
		t.Errorf("expected nil learner for empty token, got %+v, %v", l, err)
	}
}

func TestEnrollment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, learner, err := svc.Login(ctx, Credentials{Email: "ada@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	ok, err := svc.IsEnrolled(ctx, learner.ID, 2)
	if err != nil || ok {
		t.Fatalf("expected not enrolled, got %v, %v", ok, err)
	}
	if err := svc.Enroll(ctx, learner.ID, 2); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if err := svc.Enroll(ctx, learner.ID, 2); err != nil {
		t.Fatalf("Enroll twice: %v", err)
	}
	ok, _ = svc.IsEnrolled(ctx, learner.ID, 2)
	if !ok {
		t.Error("expected enrolled")
	}

	ids, err := svc.EnrolledCourses(ctx, learner.ID)
	if err != nil {
		t.Fatalf("EnrolledCourses: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("expected [2], got %v", ids)
	}
}

func TestConcurrentFirstLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	const n = 6
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, l, err := svc.Login(ctx, Credentials{Email: "bob@example.com", Password: "pw"})
			errs[i] = err
			if l != nil {
				ids[i] = l.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("login %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("login %d: learner %s, want %s", i, ids[i], ids[0])
		}
	}
	count, err := svc.store.LearnerCount(ctx)
	if err != nil {
		t.Fatalf("LearnerCount: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 learner, got %d", count)
	}
}

func TestConcurrentFirstLoginChecksPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// The second registration attempt loses the insert and must match the first password.
	if _, _, err := svc.Login(ctx, Credentials{Email: "bob@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	l, registered, err := svc.register(ctx, Credentials{Email: "bob@example.com", Password: "other"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered {
		t.Error("expected the existing learner to be returned")
	}
	if bcrypt.CompareHashAndPassword([]byte(l.PasswordHash), []byte("pw")) != nil {
		t.Error("existing password hash was replaced")
	}
}
