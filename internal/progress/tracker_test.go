package progress

import "testing"

func TestTrackerIsolatesLearners(t *testing.T) {
	tr := NewTracker()
	course := newTestCourse(t, []int{0}, []int{0})

	alice := tr.Open("alice", course)
	bob := tr.Open("bob", course)
	if alice == bob {
		t.Fatal("learners should get separate sessions")
	}
	if again := tr.Open("alice", course); again != alice {
		t.Error("Open should return the existing session")
	}

	mustSubmit(t, alice, 1, 0)
	if mustAccess(t, bob, 2) {
		t.Error("bob's gate should not see alice's progress")
	}
	if tr.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", tr.Len())
	}
}

func TestTrackerLookupAndReset(t *testing.T) {
	tr := NewTracker()
	course := newTestCourse(t, []int{0})

	if _, ok := tr.Lookup("alice", course.ID); ok {
		t.Error("expected no session before Open")
	}
	s := tr.Open("alice", course)
	mustSubmit(t, s, 1, 0)

	got, ok := tr.Lookup("alice", course.ID)
	if !ok || got != s {
		t.Fatal("Lookup should return the opened session")
	}

	tr.Reset("alice", course.ID)
	if _, ok := tr.Lookup("alice", course.ID); ok {
		t.Error("expected session to be gone after Reset")
	}
	fresh := tr.Open("alice", course)
	if fresh.CourseProgress().CompletedCount != 0 {
		t.Error("expected a fresh session after Reset")
	}
}
